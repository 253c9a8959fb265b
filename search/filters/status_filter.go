package filters

import (
	"net/http"

	"es-bug-demo/search"
	"es-bug-demo/utils"
)

// statusFilter fails the round trip when Elasticsearch answers with a 4xx,
// so the rejected body never reaches result mapping.
type statusFilter struct {
	next http.RoundTripper
}

// NewStatusFilter wraps next with 4xx detection. A nil next uses
// http.DefaultTransport.
func NewStatusFilter(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &statusFilter{next: next}
}

func (f *statusFilter) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := f.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if !isClientError(res.StatusCode) {
		return res, nil
	}

	body, readErr := utils.ReadHTTPResponseBody(res)
	if readErr != nil {
		body = http.StatusText(res.StatusCode)
	}

	return nil, &search.QueryRejectedError{StatusCode: res.StatusCode, Body: body}
}

func isClientError(status int) bool {
	return status >= 400 && status < 500
}
