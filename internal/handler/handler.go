// Package handler is the first layer after the router.
//
// It binds requests, validates them through the validation package and
// calls the service layer. It is the boundary between HTTP and the
// person operations.
package handler
