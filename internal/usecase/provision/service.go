package provision

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/repository/document"
)

// Report describes what Prepare did for one view.
type Report struct {
	View         string
	Filterable   []string
	IndexCreated bool
	Loaded       int
}

// Service readies views for serving.
type Service struct {
	indexes IndexManager
	docs    DocumentLoader
	schemas SchemaResolver
}

// New creates a provisioning service.
func New(indexes IndexManager, docs DocumentLoader, schemas SchemaResolver) *Service {
	return &Service{indexes: indexes, docs: docs, schemas: schemas}
}

// Prepare resolves the view's schema, creates its index if missing and loads
// records into it. A view that cannot resolve its schema fails here with a
// *domain.ConfigurationError before the backend is touched.
func (s *Service) Prepare(ctx context.Context, v domview.View, records []document.Record) (Report, error) {
	rep := Report{View: v.Name()}

	sc, err := s.schemas.Resolve(v)
	if err != nil {
		return rep, fmt.Errorf("resolve schema: %w", err)
	}
	rep.Filterable = sc.Fields()

	created, err := s.indexes.Ensure(ctx, v)
	if err != nil {
		return rep, fmt.Errorf("ensure index: %w", err)
	}
	rep.IndexCreated = created

	if len(records) > 0 {
		n, err := s.docs.Load(ctx, v, records)
		rep.Loaded = n
		if err != nil {
			return rep, fmt.Errorf("load fixtures: %w", err)
		}
	}

	logger.FromContext(ctx).Info("view ready",
		zap.String("view", v.Name()),
		zap.String("index", v.Index()),
		zap.Strings("filterable", rep.Filterable),
		zap.Bool("index_created", rep.IndexCreated),
		zap.Int("loaded", rep.Loaded),
	)
	return rep, nil
}

// Reindex drops the view's index and prepares it again.
func (s *Service) Reindex(ctx context.Context, v domview.View, records []document.Record) (Report, error) {
	if err := s.indexes.Drop(ctx, v); err != nil {
		return Report{View: v.Name()}, fmt.Errorf("drop index: %w", err)
	}
	return s.Prepare(ctx, v, records)
}
