package search

import (
	"context"

	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/result"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
)

// Repository defines the storage contract for search operations.
type Repository interface {
	Search(
		ctx context.Context, v domview.View, expr query.Expression, limit int,
	) ([]result.Result, int, error)
}

// ViewReader looks up views by name.
type ViewReader interface {
	Get(name string) (domview.View, error)
}

// SchemaResolver resolves and caches the filterable schema of a view.
type SchemaResolver interface {
	Resolve(d schema.Declarer) (schema.Schema, error)
}
