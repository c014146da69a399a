package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/result"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/logger"
	"github.com/kailas-cloud/sieve/internal/metrics"
)

// DefaultLimit applies when neither the request nor the view sets one.
const DefaultLimit = 10

// Page is one page of search hits plus the query that produced them.
type Page struct {
	Results []result.Result
	Total   int
	Limit   int
	Query   query.Expression
}

// Service turns request parameters into filter queries and runs them.
type Service struct {
	repo         Repository
	views        ViewReader
	schemas      SchemaResolver
	defaultLimit int
}

// New creates a search service. defaultLimit <= 0 means DefaultLimit.
func New(repo Repository, views ViewReader, schemas SchemaResolver, defaultLimit int) *Service {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	return &Service{repo: repo, views: views, schemas: schemas, defaultLimit: defaultLimit}
}

// Explain builds the query for params without touching the backend.
func (s *Service) Explain(ctx context.Context, viewName string, params filter.Params) (query.Expression, error) {
	v, err := s.views.Get(viewName)
	if err != nil {
		return query.All(), fmt.Errorf("get view: %w", err)
	}
	return s.build(ctx, v, params)
}

// Search builds the query for params and runs it against the view's index.
// limit <= 0 falls back to the view limit, then to the service default;
// anything above domview.MaxLimit is capped.
func (s *Service) Search(
	ctx context.Context, viewName string, params filter.Params, limit int,
) (Page, error) {
	v, err := s.views.Get(viewName)
	if err != nil {
		return Page{}, fmt.Errorf("get view: %w", err)
	}

	expr, err := s.build(ctx, v, params)
	if err != nil {
		return Page{}, err
	}

	limit = s.effectiveLimit(v, limit)

	start := time.Now()
	results, total, err := s.repo.Search(ctx, v, expr, limit)
	metrics.SearchDuration.WithLabelValues(v.Name()).Observe(time.Since(start).Seconds())
	if err != nil {
		return Page{}, fmt.Errorf("search view %s: %w", v.Name(), err)
	}
	metrics.SearchHitsTotal.WithLabelValues(v.Name()).Add(float64(len(results)))

	return Page{Results: results, Total: total, Limit: limit, Query: expr}, nil
}

func (s *Service) effectiveLimit(v domview.View, limit int) int {
	if limit <= 0 {
		limit = v.Limit()
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}
	return min(limit, domview.MaxLimit)
}

func (s *Service) build(ctx context.Context, v domview.View, params filter.Params) (query.Expression, error) {
	log := logger.FromContext(ctx)
	strategy := strategyLabel(v.Strategies())

	expr, err := s.buildQuery(v, params)
	metrics.QueryBuildsTotal.WithLabelValues(v.Name(), strategy, outcome(err)).Inc()
	if err != nil {
		if errors.Is(err, domain.ErrConfiguration) {
			log.Error("view is misconfigured", zap.String("view", v.Name()), zap.Error(err))
		}
		return query.All(), err
	}

	log.Debug("query built",
		zap.String("view", v.Name()),
		zap.String("strategy", strategy),
		zap.Stringer("query", expr),
	)
	return expr, nil
}

func (s *Service) buildQuery(v domview.View, params filter.Params) (query.Expression, error) {
	sc, err := s.schemas.Resolve(v)
	if err != nil {
		return query.All(), fmt.Errorf("resolve schema: %w", err)
	}
	b, err := filter.New(sc, v.Options(), v.Strategies()...)
	if err != nil {
		return query.All(), fmt.Errorf("assemble filters: %w", err)
	}
	expr, err := b.Build(params)
	if err != nil {
		return query.All(), fmt.Errorf("build query: %w", err)
	}
	return expr, nil
}

func strategyLabel(strategies []filter.Strategy) string {
	if len(strategies) == 0 {
		return string(filter.StrategyBoolean)
	}
	names := make([]string, len(strategies))
	for i, st := range strategies {
		names[i] = string(st)
	}
	return strings.Join(names, "+")
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, domain.ErrParse):
		return metrics.ResultParseError
	case errors.Is(err, domain.ErrConfiguration):
		return metrics.ResultConfigError
	}
	return metrics.ResultError
}
