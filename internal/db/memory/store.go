package memory

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/sieve/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// DefaultLimit matches the Redis backend's default page size.
const DefaultLimit = 10

// Store is an in-process db.Store. Indexes see every document whose key
// carries one of their prefixes (all documents when they declare none).
type Store struct {
	mu      sync.RWMutex
	indexes map[string]*db.IndexDefinition
	docs    map[string]map[string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		indexes: make(map[string]*db.IndexDefinition),
		docs:    make(map[string]map[string]string),
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// WaitForReady returns immediately.
func (s *Store) WaitForReady(_ context.Context, _ time.Duration) error { return nil }

// PutDocuments stores copies of docs, replacing fields of existing keys.
func (s *Store) PutDocuments(_ context.Context, docs []db.Document) error {
	for _, d := range docs {
		if d.Key == "" {
			return &db.Error{Op: db.OpHSet, Err: errors.New("document key is required")}
		}
		if len(d.Fields) == 0 {
			return &db.Error{Op: db.OpHSet, Key: d.Key, Err: errors.New("no fields")}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		cur, ok := s.docs[d.Key]
		if !ok {
			cur = make(map[string]string, len(d.Fields))
			s.docs[d.Key] = cur
		}
		maps.Copy(cur, d.Fields)
	}
	return nil
}

// DeleteDocuments removes keys. Missing keys are ignored.
func (s *Store) DeleteDocuments(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.docs, k)
	}
	return nil
}

// CreateIndex registers def. An existing name fails with db.ErrIndexExists.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	cp := *def
	cp.Prefixes = append([]string(nil), def.Prefixes...)
	cp.Fields = append([]db.IndexField(nil), def.Fields...)
	s.indexes[def.Name] = &cp
	return nil
}

// DropIndex removes an index; documents stay.
func (s *Store) DropIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[name]; !ok {
		return db.ErrIndexNotFound
	}
	delete(s.indexes, name)
	return nil
}

// IndexExists reports whether name is registered.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[name]
	return ok, nil
}

// ListIndexes returns the registered index names, sorted.
func (s *Store) ListIndexes(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.indexes)), nil
}

// Search evaluates q.Query over the index's documents in key order.
// Without q.FieldTypes the index definition's types apply.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.indexes[q.IndexName]
	if !ok {
		return nil, db.ErrIndexNotFound
	}
	types := q.FieldTypes
	if types == nil {
		types = idx.FieldTypes()
	}
	if err := Check(q.Query, types); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	keys := make([]string, 0, len(s.docs))
	for k := range s.docs {
		if hasAnyPrefix(k, idx.Prefixes) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	res := &db.SearchResult{}
	for _, k := range keys {
		doc := s.docs[k]
		if !Match(q.Query, doc, types) {
			continue
		}
		res.Total++
		if len(res.Entries) < limit {
			res.Entries = append(res.Entries, db.SearchEntry{Key: k, Fields: project(doc, q.ReturnFields)})
		}
	}
	return res, nil
}

func hasAnyPrefix(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func project(doc map[string]string, fields []string) map[string]string {
	if len(fields) == 0 {
		return maps.Clone(doc)
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := doc[f]; ok {
			out[f] = v
		}
	}
	return out
}
