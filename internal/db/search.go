package db

import "github.com/kailas-cloud/sieve/internal/domain/search/query"

// SearchQuery is the input for a filtered search.
// FieldTypes tells the backend how each referenced field is indexed;
// a field missing from it is rejected with ErrInvalidQuery.
type SearchQuery struct {
	IndexName    string
	Query        query.Expression
	FieldTypes   map[string]IndexFieldType
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Fields map[string]string
}
