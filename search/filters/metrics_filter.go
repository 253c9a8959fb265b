package filters

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamResponses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "bugdemo_elasticsearch_responses_total",
	Help: "Responses received from Elasticsearch by client and status class",
}, []string{"client", "class"})

type metricsFilter struct {
	client string
	next   http.RoundTripper
}

// NewMetricsFilter counts every response that passes through next, labelled
// with the client name and the status class ("2xx", "4xx", ... or "error").
func NewMetricsFilter(client string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &metricsFilter{client: client, next: next}
}

func (f *metricsFilter) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := f.next.RoundTrip(req)
	if err != nil {
		upstreamResponses.WithLabelValues(f.client, "error").Inc()
		return nil, err
	}
	upstreamResponses.WithLabelValues(f.client, statusClass(res.StatusCode)).Inc()
	return res, nil
}

func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
