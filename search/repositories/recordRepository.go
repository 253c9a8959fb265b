package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"es-bug-demo/db/models"
	"es-bug-demo/search"
	"es-bug-demo/search/queries"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"
)

type RecordRepository struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

type RecordRepositoryInterface interface {
	Find(ctx context.Context, q queries.SearchQuery) ([]models.Record, error)
	EnsureIndex(ctx context.Context) (bool, error)
	Ping(ctx context.Context) error
}

var _ RecordRepositoryInterface = (*RecordRepository)(nil)

// searchEnvelope mirrors the parts of a _search response the mapper reads.
// Pointers let a missing envelope be told apart from an empty one.
type searchEnvelope struct {
	Hits *struct {
		Hits []struct {
			ID     string         `json:"_id"`
			Source *models.Record `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func NewRecordRepository(client *elasticsearch.Client, index string, logger *zap.Logger) *RecordRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordRepository{client: client, index: index, logger: logger}
}

// Find runs q and maps every hit's _source into a Record.
//
// The response status is not inspected before mapping. A client built without
// the status filter therefore hands a 4xx error body to the mapper, which
// fails with search.ErrNullMapping instead of the engine's reason.
func (r *RecordRepository) Find(ctx context.Context, q queries.SearchQuery) ([]models.Record, error) {
	index := q.Index()
	if index == "" {
		index = r.index
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(index),
		r.client.Search.WithBody(q.Reader()),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, classifyTransportError(err)
	}
	defer res.Body.Close()

	r.logger.Debug("Search response received",
		zap.String("index", index),
		zap.String("field", q.Field()),
		zap.String("pattern", q.Pattern()),
		zap.Int("status", res.StatusCode),
	)

	return mapRecords(res.Body)
}

func mapRecords(body io.Reader) ([]models.Record, error) {
	var envelope searchEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	if envelope.Hits == nil {
		return nil, search.ErrNullMapping
	}

	records := make([]models.Record, 0, len(envelope.Hits.Hits))
	for _, hit := range envelope.Hits.Hits {
		if hit.Source == nil {
			return nil, search.ErrNullMapping
		}
		records = append(records, *hit.Source)
	}
	return records, nil
}

// Ping checks that the engine answers at all.
func (r *RecordRepository) Ping(ctx context.Context) error {
	res, err := r.client.Ping(r.client.Ping.WithContext(ctx))
	if err != nil {
		return classifyTransportError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("%w: ping returned %s", search.ErrEngineUnavailable, res.Status())
	}
	return nil
}

// classifyTransportError keeps filter rejections and cancellations as they
// are and marks anything else as the engine being unreachable.
func classifyTransportError(err error) error {
	if _, ok := search.AsQueryRejected(err); ok {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", search.ErrEngineUnavailable, err)
}
