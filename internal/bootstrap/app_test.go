package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"es-bug-demo/config"
	"es-bug-demo/db/models"
	"es-bug-demo/internal/esfake"
	"es-bug-demo/middleware"
	"es-bug-demo/search/queries"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestDeps(t *testing.T, docs ...models.Record) (*Dependencies, *esfake.Server) {
	t.Helper()
	es := esfake.NewServer()
	t.Cleanup(es.Close)
	es.AddIndex(queries.BugDemoIndex, docs...)

	deps, err := NewApp(config.AppConfig{
		ElasticsearchAddress: es.URL,
		ElasticsearchIndex:   queries.BugDemoIndex,
		CorsAllowOrigins:     "*",
	}, nil)
	require.NoError(t, err)
	return deps, es
}

func call(t *testing.T, deps *Dependencies, path, accept string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	res, err := deps.App.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

type errorPayload struct {
	Error          string `json:"error"`
	UpstreamStatus int    `json:"upstream_status"`
}

func TestPing(t *testing.T) {
	deps, _ := newTestDeps(t)

	res, body := call(t, deps, "/ping", "application/json")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Regexp(t, regexp.MustCompile(`^Ping at \d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`), body)
	assert.NotEmpty(t, res.Header.Get(middleware.RequestIDHeader))
}

func TestBugScenario(t *testing.T) {
	deps, es := newTestDeps(t)

	for i := 0; i < 2; i++ {
		res, body := call(t, deps, "/bug/example", "application/json")
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

		var bug errorPayload
		require.NoError(t, json.Unmarshal([]byte(body), &bug))
		assert.Equal(t, "the mapper returned a null value", bug.Error)
		assert.NotContains(t, bug.Error, "wildcard")
		assert.Zero(t, bug.UpstreamStatus)

		res, body = call(t, deps, "/bug/workaround", "application/json")
		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

		var fixed errorPayload
		require.NoError(t, json.Unmarshal([]byte(body), &fixed))
		assert.Contains(t, fixed.Error, "Can only use wildcard queries on keyword and text fields")
		assert.Contains(t, fixed.Error, "[key]")
		assert.Equal(t, http.StatusBadRequest, fixed.UpstreamStatus)
	}
	assert.Equal(t, int64(4), es.Searches())
}

func TestAcceptNegotiation(t *testing.T) {
	deps, _ := newTestDeps(t)

	res, _ := call(t, deps, "/ping", "text/html")
	assert.Equal(t, http.StatusNotAcceptable, res.StatusCode)

	res, _ = call(t, deps, "/bug/workaround", "text/html")
	assert.Equal(t, http.StatusNotAcceptable, res.StatusCode)

	res, _ = call(t, deps, "/ping", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = call(t, deps, "/ping", "*/*")
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	deps, _ := newTestDeps(t)

	res, body := call(t, deps, "/bug/unknown", "application/json")

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Contains(t, body, "error")
}

func TestWorkaroundClientPassesSuccessfulResponses(t *testing.T) {
	deps, _ := newTestDeps(t, models.Record{Key: 1, Value: "alpha"}, models.Record{Key: 2, Value: "beta"})

	records, err := deps.WorkaroundRepo.Find(context.Background(), queries.NewWildcardQuery(queries.BugDemoIndex, "value", "al*"))

	require.NoError(t, err)
	assert.Equal(t, []models.Record{{Key: 1, Value: "alpha"}}, records)
}

func TestEngineDown(t *testing.T) {
	es := esfake.NewServer()
	address := es.URL
	es.Close()

	deps, err := NewApp(config.AppConfig{ElasticsearchAddress: address, ElasticsearchIndex: queries.BugDemoIndex}, nil)
	require.NoError(t, err)

	for _, path := range []string{"/bug/example", "/bug/workaround"} {
		res, _ := call(t, deps, path, "application/json")
		assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	deps, _ := newTestDeps(t)
	call(t, deps, "/bug/workaround", "application/json")

	res, body := call(t, deps, "/metrics", "text/plain")

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, body, `bugdemo_elasticsearch_responses_total{class="4xx",client="workaround"}`)
}

func TestPanickingHandlerIsLogged(t *testing.T) {
	es := esfake.NewServer()
	t.Cleanup(es.Close)

	core, logs := observer.New(zap.InfoLevel)
	deps, err := NewApp(config.AppConfig{ElasticsearchAddress: es.URL, ElasticsearchIndex: queries.BugDemoIndex}, zap.New(core))
	require.NoError(t, err)
	deps.App.Get("/explode", func(*fiber.Ctx) error {
		panic("boom")
	})

	res, body := call(t, deps, "/explode", "application/json")

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Contains(t, body, "boom")

	handled := logs.FilterMessage("Request handled").All()
	require.Len(t, handled, 1)
	fields := handled[0].ContextMap()
	assert.EqualValues(t, http.StatusInternalServerError, fields["status"])
	assert.Equal(t, "/explode", fields["path"])
	assert.Equal(t, res.Header.Get(middleware.RequestIDHeader), fields["request_id"])
	assert.NotEmpty(t, fields["request_id"])
}
