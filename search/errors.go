package search

import (
	"errors"
	"fmt"
)

// ErrEngineUnavailable wraps transport level failures talking to Elasticsearch.
var ErrEngineUnavailable = errors.New("elasticsearch unavailable")

// ErrNullMapping is what the default client produces when it maps a rejected
// search body as if it were a successful one.
var ErrNullMapping = errors.New("the mapper returned a null value")

// QueryRejectedError is raised by the status filter when Elasticsearch answers
// with a 4xx. Body holds the raw response text.
type QueryRejectedError struct {
	StatusCode int
	Body       string
}

func (e *QueryRejectedError) Error() string {
	return e.Body
}

// Describe is a log friendly form of the rejection.
func (e *QueryRejectedError) Describe() string {
	return fmt.Sprintf("elasticsearch rejected request with status %d: %s", e.StatusCode, e.Body)
}

// AsQueryRejected unwraps err into a *QueryRejectedError when it holds one.
func AsQueryRejected(err error) (*QueryRejectedError, bool) {
	var rejected *QueryRejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}
