package httputil

import "errors"

// Errors that request body parsing can return. The messages are written
// for API consumers and are sent verbatim in error responses.
var (
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidBody      = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")
)
