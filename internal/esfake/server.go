// Package esfake is a small in-process stand-in for the parts of the
// Elasticsearch REST API the demo touches: info/ping, index exists/create and
// _search with wildcard filters. Wildcards on numeric fields are rejected the
// way a real cluster rejects them.
package esfake

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	"es-bug-demo/db/models"
)

// WildcardRejection is the reason a real cluster gives for a wildcard on a
// long field.
const WildcardRejection = "Can only use wildcard queries on keyword and text fields - not on [%s] which is of type [%s]"

type index struct {
	mapping map[string]string
	docs    []models.Record
}

type Server struct {
	*httptest.Server

	mu       sync.Mutex
	indices  map[string]*index
	searches atomic.Int64
}

// NewServer starts a fake cluster. Call Close when done.
func NewServer() *Server {
	s := &Server{indices: map[string]*index{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// AddIndex creates name with key as long and value as text, holding docs.
func (s *Server) AddIndex(name string, docs ...models.Record) {
	s.AddIndexWithMapping(name, map[string]string{"key": "long", "value": "text"}, docs...)
}

// AddIndexWithMapping creates name with the given field types, holding docs.
func (s *Server) AddIndexWithMapping(name string, mapping map[string]string, docs ...models.Record) {
	fields := make(map[string]string, len(mapping))
	for field, kind := range mapping {
		fields[field] = kind
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.indices[name] = &index{
		mapping: fields,
		docs:    append([]models.Record(nil), docs...),
	}
}

// Mapping returns the field types of name, or nil when it does not exist.
func (s *Server) Mapping(name string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.indices[name]
	if !ok {
		return nil
	}
	fields := make(map[string]string, len(idx.mapping))
	for field, kind := range idx.mapping {
		fields[field] = kind
	}
	return fields
}

func (s *Server) HasIndex(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.indices[name]
	return ok
}

// Searches is the number of _search requests served.
func (s *Server) Searches() int64 {
	return s.searches.Load()
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case r.URL.Path == "/":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"name":    "esfake",
			"version": map[string]string{"number": "8.19.0", "build_flavor": "default"},
			"tagline": "You Know, for Search",
		})
	case len(parts) == 2 && parts[1] == "_search":
		s.search(w, r, parts[0])
	case len(parts) == 1 && r.Method == http.MethodHead:
		if s.HasIndex(parts[0]) {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case len(parts) == 1 && r.Method == http.MethodPut:
		s.create(w, r, parts[0])
	default:
		writeError(w, http.StatusBadRequest, "illegal_argument_exception", "unsupported request "+r.Method+" "+r.URL.Path)
	}
}

type createRequest struct {
	Mappings struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	} `json:"mappings"`
}

// create builds the index from the mapping in the request body. Fields
// without a declared type are left unmapped.
func (s *Server) create(w http.ResponseWriter, r *http.Request, name string) {
	var req createRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
			writeError(w, http.StatusBadRequest, "mapper_parsing_exception", err.Error())
			return
		}
	}

	s.mu.Lock()
	_, exists := s.indices[name]
	s.mu.Unlock()
	if exists {
		writeError(w, http.StatusBadRequest, "resource_already_exists_exception", fmt.Sprintf("index [%s] already exists", name))
		return
	}

	mapping := make(map[string]string, len(req.Mappings.Properties))
	for field, prop := range req.Mappings.Properties {
		if prop.Type != "" {
			mapping[field] = prop.Type
		}
	}
	s.AddIndexWithMapping(name, mapping)
	writeJSON(w, http.StatusOK, map[string]interface{}{"acknowledged": true, "shards_acknowledged": true, "index": name})
}

type searchRequest struct {
	Query struct {
		Bool struct {
			Filter []map[string]map[string]struct {
				Value string `json:"value"`
			} `json:"filter"`
		} `json:"bool"`
	} `json:"query"`
}

func (s *Server) search(w http.ResponseWriter, r *http.Request, name string) {
	s.searches.Add(1)

	var req searchRequest
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "parsing_exception", err.Error())
			return
		}
	}

	s.mu.Lock()
	idx, ok := s.indices[name]
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "index_not_found_exception", "no such index ["+name+"]")
		return
	}

	for _, clause := range req.Query.Bool.Filter {
		for field := range clause["wildcard"] {
			if kind := idx.mapping[field]; !wildcardable(kind) {
				writeError(w, http.StatusBadRequest, "query_shard_exception", fmt.Sprintf(WildcardRejection, field, kind))
				return
			}
		}
	}

	hits := make([]map[string]interface{}, 0)
	for i, doc := range idx.docs {
		matched := true
		for _, clause := range req.Query.Bool.Filter {
			for field, spec := range clause["wildcard"] {
				if ok, _ := path.Match(spec.Value, fieldValue(doc, field)); !ok {
					matched = false
				}
			}
		}
		if matched {
			hits = append(hits, map[string]interface{}{"_index": name, "_id": fmt.Sprint(i + 1), "_source": doc})
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"took":      1,
		"timed_out": false,
		"hits": map[string]interface{}{
			"total": map[string]interface{}{"value": len(hits), "relation": "eq"},
			"hits":  hits,
		},
	})
}

// wildcardable reports whether a field of this type accepts wildcard
// queries. Unmapped fields are accepted and simply match nothing.
func wildcardable(kind string) bool {
	switch kind {
	case "", "text", "keyword", "wildcard", "constant_keyword":
		return true
	}
	return false
}

func fieldValue(doc models.Record, field string) string {
	switch field {
	case "value":
		return doc.Value
	case "key":
		return fmt.Sprint(doc.Key)
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, kind, reason string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"root_cause": []map[string]string{{"type": kind, "reason": reason}},
			"type":       kind,
			"reason":     reason,
		},
		"status": status,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
