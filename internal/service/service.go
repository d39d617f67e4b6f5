// Package service contains the business logic.
//
// It sits between the handler layer and the model types.
// It receives validated data from the handler and performs
// the operations behind each endpoint. Nothing is persisted:
// every operation works on the request it was given.
package service
