package config

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"es-bug-demo/internal/esfake"
	"es-bug-demo/search/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTransportLogger_LogsResponse(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewTransportLogger(zap.New(core), true)

	req := httptest.NewRequest(http.MethodPost, "http://localhost:9200/bugdemo/_search", strings.NewReader(`{"query":{}}`))
	res := &http.Response{StatusCode: http.StatusBadRequest, Body: io.NopCloser(strings.NewReader(`{"status":400}`))}

	require.NoError(t, l.LogRoundTrip(req, res, nil, time.Now(), 5*time.Millisecond))

	entries := logs.FilterMessage("Elasticsearch round trip").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
	assert.Equal(t, `{"query":{}}`, fields["request_body"])
	assert.Equal(t, `{"status":400}`, fields["response_body"])
}

func TestTransportLogger_LogsFailure(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewTransportLogger(zap.New(core), false)

	req := httptest.NewRequest(http.MethodGet, "http://localhost:9200/", nil)
	require.NoError(t, l.LogRoundTrip(req, nil, errors.New("connection refused"), time.Now(), time.Millisecond))

	entries := logs.FilterMessage("Elasticsearch round trip failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "connection refused", entries[0].ContextMap()["error"])
	assert.False(t, l.RequestBodyEnabled())
	assert.False(t, l.ResponseBodyEnabled())
}

func TestNewElasticsearchClient_DebugLogsThroughZap(t *testing.T) {
	es := esfake.NewServer()
	defer es.Close()
	es.AddIndex(queries.BugDemoIndex)

	core, logs := observer.New(zap.DebugLevel)
	client, err := NewElasticsearchClient(ElasticsearchOptions{Address: es.URL, Name: "debug-test", Debug: true, Logger: zap.New(core)})
	require.NoError(t, err)

	q := queries.BugDemoQuery()
	res, err := client.Search(client.Search.WithIndex(q.Index()), client.Search.WithBody(q.Reader()))
	require.NoError(t, err)
	defer res.Body.Close()

	entries := logs.FilterMessage("Elasticsearch round trip").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "debug-test", fields["client"])
	assert.EqualValues(t, http.StatusBadRequest, fields["status"])
	assert.Contains(t, fields["response_body"], "query_shard_exception")

	// The caller still gets the full body after logging.
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "query_shard_exception")
}
