package sieve

import (
	"context"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
)

// Page is one page of typed search results.
type Page[T any] struct {
	Items []T
	Total int
	Query string
}

// SearchBuilder is a fluent builder for typed search queries.
// It produces the same request parameters an HTTP caller would send.
type SearchBuilder[T any] struct {
	idx    *TypedIndex[T]
	params map[string]string
	limit  int
}

// Where matches any of values on the field (or alias) param.
// Repeated calls for the same param replace earlier values.
func (b *SearchBuilder[T]) Where(param string, values ...string) *SearchBuilder[T] {
	sep := b.idx.view.Options().Separator
	if sep == "" {
		sep = query.DefaultSeparator
	}
	b.params[param] = strings.Join(values, sep)
	return b
}

// Match adds search-as-you-type text for the autocomplete field.
func (b *SearchBuilder[T]) Match(text string) *SearchBuilder[T] {
	if f := b.idx.view.Options().AutocompleteField; f != "" {
		b.params[f] = text
	}
	return b
}

// Near sets the origin of a radius search.
func (b *SearchBuilder[T]) Near(lat, lon float64) *SearchBuilder[T] {
	b.params[filter.DefaultOriginParam] = strconv.FormatFloat(lat, 'f', -1, 64) + "," +
		strconv.FormatFloat(lon, 'f', -1, 64)
	return b
}

// Within bounds a Near search to radius in unit (m, km, mi, ft).
func (b *SearchBuilder[T]) Within(radius float64, unit string) *SearchBuilder[T] {
	b.params[unit] = strconv.FormatFloat(radius, 'f', -1, 64)
	return b
}

// Km bounds a Near search to radius kilometers.
func (b *SearchBuilder[T]) Km(radius float64) *SearchBuilder[T] {
	return b.Within(radius, "km")
}

// Limit sets the maximum number of results.
func (b *SearchBuilder[T]) Limit(n int) *SearchBuilder[T] {
	b.limit = n
	return b
}

// Params returns a copy of the request parameters built so far.
func (b *SearchBuilder[T]) Params() map[string]string {
	return maps.Clone(b.params)
}

// Explain returns the canonical form of the query Do would run.
func (b *SearchBuilder[T]) Explain(ctx context.Context) (string, error) {
	expr, err := b.idx.client.search.Explain(ctx, b.idx.Name(), filter.Params(b.params))
	if err != nil {
		return "", fmt.Errorf("explain: %w", err)
	}
	return expr.String(), nil
}

// Do executes the search and returns typed results.
func (b *SearchBuilder[T]) Do(ctx context.Context) (Page[T], error) {
	return b.idx.Query(ctx, b.params, b.limit)
}
