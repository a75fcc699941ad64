package remote

import (
	"errors"
	"fmt"
)

// StatusError reports a non-success HTTP status from the service.
type StatusError struct {
	Operation  Operation
	StatusCode int
	Endpoint   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d for %s", e.Operation, e.StatusCode, e.Endpoint)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
