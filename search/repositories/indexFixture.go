package repositories

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"es-bug-demo/search"
	"es-bug-demo/utils"

	"github.com/elastic/go-elasticsearch/v8/esutil"
	"go.uber.org/zap"
)

// RecordIndexMapping declares key as a long, so wildcard queries on it are
// rejected by the engine.
var RecordIndexMapping = map[string]interface{}{
	"mappings": map[string]interface{}{
		"properties": map[string]interface{}{
			"key":   map[string]interface{}{"type": "long"},
			"value": map[string]interface{}{"type": "text"},
		},
	},
}

// EnsureIndex creates the repository's index with RecordIndexMapping when it
// is missing. It reports whether an index was created.
func (r *RecordRepository) EnsureIndex(ctx context.Context) (bool, error) {
	exists, err := r.indexExists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		r.logger.Info("Index already present", zap.String("index", r.index))
		return false, nil
	}

	res, err := r.client.Indices.Create(
		r.index,
		r.client.Indices.Create.WithContext(ctx),
		r.client.Indices.Create.WithBody(esutil.NewJSONReader(RecordIndexMapping)),
	)
	if err != nil {
		if rejected, ok := search.AsQueryRejected(err); ok && alreadyExists(rejected.Body) {
			return false, nil
		}
		return false, classifyTransportError(err)
	}

	body, readErr := utils.ReadResponseBody(res)
	if res.IsError() {
		if alreadyExists(body) {
			return false, nil
		}
		if readErr != nil {
			body = readErr.Error()
		}
		return false, fmt.Errorf("creating index %s: status %d: %s", r.index, res.StatusCode, body)
	}

	r.logger.Info("Index created", zap.String("index", r.index))
	return true, nil
}

func (r *RecordRepository) indexExists(ctx context.Context) (bool, error) {
	res, err := r.client.Indices.Exists(
		[]string{r.index},
		r.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		// A filtered client turns the 404 for a missing index into a rejection.
		if rejected, ok := search.AsQueryRejected(err); ok && rejected.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, classifyTransportError(err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("checking index %s: unexpected status %d", r.index, res.StatusCode)
	}
}

func alreadyExists(body string) bool {
	return strings.Contains(body, "resource_already_exists_exception")
}
