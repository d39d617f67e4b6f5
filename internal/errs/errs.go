// Package errs defines the error shapes returned to API clients.
//
// Every failure that leaves the service, whether a rejected person payload,
// an unknown route or a panic, is rendered as an HTTPError so clients can
// rely on one JSON structure:
//
//	{
//	  "code": "UNPROCESSABLE_ENTITY",
//	  "message": "Validation failed: First Name, Age",
//	  "status": 422,
//	  "override": true,
//	  "errors": [{ "field": "first_name", "error": "must be at least 1 characters" }],
//	  "action": null
//	}
package errs
