package trakt

import (
	"fmt"
	"net/http"
)

// StatusError is returned for every non-2xx response. It satisfies
// errhandler.StatusFailure.
type StatusError struct {
	method string
	path   string
	status int
	body   string
	header http.Header
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("trakt %s %s returned status %d", e.method, e.path, e.status)
}

// StatusCode returns the HTTP status.
func (e *StatusError) StatusCode() int { return e.status }

// ResponseBody returns the raw response text.
func (e *StatusError) ResponseBody() string { return e.body }

// ResponseHeader returns the response headers.
func (e *StatusError) ResponseHeader() http.Header { return e.header }
