package queries

import (
	"io"

	"github.com/elastic/go-elasticsearch/v8/esutil"
)

const (
	// BugDemoIndex is the index the demo endpoints search.
	BugDemoIndex = "bugdemo"
	// BugDemoField is mapped as a long, which is what makes the query invalid.
	BugDemoField   = "key"
	BugDemoPattern = "1*"
)

// SearchQuery is a single wildcard filter against one index. Values are
// immutable once built.
type SearchQuery struct {
	index   string
	field   string
	pattern string
}

// NewWildcardQuery builds a bool query with one wildcard filter clause. No
// validation is done against the index mapping.
func NewWildcardQuery(index, field, pattern string) SearchQuery {
	return SearchQuery{index: index, field: field, pattern: pattern}
}

// BugDemoQuery is the wildcard query on the numeric "key" field that
// Elasticsearch answers with a 400.
func BugDemoQuery() SearchQuery {
	return NewWildcardQuery(BugDemoIndex, BugDemoField, BugDemoPattern)
}

func (q SearchQuery) Index() string   { return q.index }
func (q SearchQuery) Field() string   { return q.field }
func (q SearchQuery) Pattern() string { return q.pattern }

// Source returns the query DSL body as a fresh map on every call.
func (q SearchQuery) Source() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []interface{}{
					map[string]interface{}{
						"wildcard": map[string]interface{}{
							q.field: map[string]interface{}{
								"value": q.pattern,
							},
						},
					},
				},
			},
		},
	}
}

// Reader encodes Source as JSON for use as a request body.
func (q SearchQuery) Reader() io.Reader {
	return esutil.NewJSONReader(q.Source())
}
