package sieve

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	documentrepo "github.com/kailas-cloud/sieve/internal/repository/document"
)

// IndexOption configures a TypedIndex.
type IndexOption func(*indexConfig)

type indexConfig struct {
	separator string
	limit     int
}

// WithSeparator sets the multi-value separator for Where. Default ",".
func WithSeparator(sep string) IndexOption {
	return func(c *indexConfig) { c.separator = sep }
}

// WithLimit sets the index's default page size.
func WithLimit(n int) IndexOption {
	return func(c *indexConfig) { c.limit = n }
}

// TypedIndex is a generic, schema-first index backed by a sieve Client.
// Schema is inferred from T's struct tags at construction time.
type TypedIndex[T any] struct {
	client *Client
	meta   *schemaMeta
	view   domview.View
}

// NewIndex registers a typed index on client. T must be a struct with sieve tags.
// A nil client yields an index that can build queries but not run them.
func NewIndex[T any](client *Client, name string, opts ...IndexOption) (*TypedIndex[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	var cfg indexConfig
	for _, o := range opts {
		o(&cfg)
	}
	def, err := meta.definition(name, cfg)
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	v, err := domview.New(def)
	if err != nil {
		return nil, fmt.Errorf("new index %q: %w", name, err)
	}
	if client != nil {
		if err := client.register(v); err != nil {
			return nil, err
		}
	}
	return &TypedIndex[T]{client: client, meta: meta, view: v}, nil
}

// Name returns the index name.
func (idx *TypedIndex[T]) Name() string { return idx.view.Name() }

// Ensure creates the backing index if it does not exist (idempotent).
// A struct without filter or nofilter fields fails here with ErrConfiguration.
func (idx *TypedIndex[T]) Ensure(ctx context.Context) error {
	if _, err := idx.client.schemas.Resolve(idx.view); err != nil {
		return fmt.Errorf("ensure %q: %w", idx.Name(), err)
	}
	if _, err := idx.client.indexes.Ensure(ctx, idx.view); err != nil {
		return fmt.Errorf("ensure %q: %w", idx.Name(), err)
	}
	return nil
}

// Put stores items, replacing stored fields with the same names.
func (idx *TypedIndex[T]) Put(ctx context.Context, items ...T) (int, error) {
	records := make([]documentrepo.Record, len(items))
	for i, item := range items {
		id, fields, err := idx.meta.toRecord(item)
		if err != nil {
			return 0, fmt.Errorf("put item %d: %w", i, err)
		}
		records[i] = documentrepo.Record{ID: id, Fields: fields}
	}
	n, err := idx.client.docs.Load(ctx, idx.view, records)
	if err != nil {
		return n, fmt.Errorf("put: %w", err)
	}
	return n, nil
}

// Delete removes items by ID.
func (idx *TypedIndex[T]) Delete(ctx context.Context, ids ...string) error {
	if err := idx.client.docs.Delete(ctx, idx.view, ids...); err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	return nil
}

// Query runs raw request parameters through the index's filters, exactly as
// the HTTP API does with a query string.
func (idx *TypedIndex[T]) Query(ctx context.Context, params map[string]string, limit int) (Page[T], error) {
	page, err := idx.client.search.Search(ctx, idx.Name(), filter.Params(params), limit)
	if err != nil {
		return Page[T]{}, fmt.Errorf("query: %w", err)
	}

	items := make([]T, 0, len(page.Results))
	for _, r := range page.Results {
		item, ok := idx.meta.fromRecord(r.ID(), r.Fields()).(T)
		if !ok {
			return Page[T]{}, fmt.Errorf("query: hit %s does not decode to %T", r.ID(), item)
		}
		items = append(items, item)
	}
	return Page[T]{Items: items, Total: page.Total, Query: page.Query.String()}, nil
}

// Search returns a fluent search builder for this index.
func (idx *TypedIndex[T]) Search() *SearchBuilder[T] {
	return &SearchBuilder[T]{idx: idx, params: map[string]string{}}
}
