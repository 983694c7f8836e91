package httperror

// Error is the response body for requests that failed outside of a resource
// handler, e.g. for HTTP methods that are not allowed.
type Error struct {
	Message string `json:"error" example:"This HTTP method is not allowed for the endpoint you called"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}

func NewFromString(s string) Error {
	return Error{
		Message: s,
	}
}
