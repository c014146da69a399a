package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/result"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/repository/index"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search runs expr against the view's index and returns up to limit hits
// with every declared field, plus the total match count.
func (r *Repo) Search(
	ctx context.Context, v domview.View, expr query.Expression, limit int,
) ([]result.Result, int, error) {
	def, err := index.Definition(v)
	if err != nil {
		return nil, 0, err
	}

	returnFields := make([]string, 0, len(v.Fields()))
	for _, f := range v.Fields() {
		returnFields = append(returnFields, f.Name())
	}

	sr, err := r.store.Search(ctx, &db.SearchQuery{
		IndexName:    def.Name,
		Query:        expr,
		FieldTypes:   def.FieldTypes(),
		Limit:        limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("search %s: %w", v.Name(), err)
	}

	return parseResults(sr, v.KeyPrefix()), sr.Total, nil
}

// parseResults converts db.SearchResult into []result.Result, stripping the key prefix.
func parseResults(sr *db.SearchResult, prefix string) []result.Result {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	results := make([]result.Result, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)
		results = append(results, result.New(id, entry.Fields))
	}
	return results
}
