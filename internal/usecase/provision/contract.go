package provision

import (
	"context"

	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/repository/document"
)

// IndexManager creates and drops the index behind a view.
type IndexManager interface {
	Ensure(ctx context.Context, v domview.View) (bool, error)
	Drop(ctx context.Context, v domview.View) error
}

// DocumentLoader writes fixture records under a view's key prefix.
type DocumentLoader interface {
	Load(ctx context.Context, v domview.View, records []document.Record) (int, error)
}

// SchemaResolver resolves and caches the filterable schema of a view.
type SchemaResolver interface {
	Resolve(d schema.Declarer) (schema.Schema, error)
}
