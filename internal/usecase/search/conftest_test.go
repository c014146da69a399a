package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/sieve/internal/db/memory"
	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/result"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
	searchrepo "github.com/kailas-cloud/sieve/internal/repository/search"
	viewrepo "github.com/kailas-cloud/sieve/internal/repository/view"
)

// mockRepo implements Repository for tests that do not need a backend.
type mockRepo struct {
	searchFn  func(ctx context.Context, v domview.View, expr query.Expression, limit int) ([]result.Result, int, error)
	lastLimit int
}

func (m *mockRepo) Search(
	ctx context.Context, v domview.View, expr query.Expression, limit int,
) ([]result.Result, int, error) {
	m.lastLimit = limit
	if m.searchFn != nil {
		return m.searchFn(ctx, v, expr, limit)
	}
	return nil, 0, nil
}

func demoFields(t *testing.T) []field.Field {
	t.Helper()
	specs := []struct {
		name string
		ft   field.Type
	}{
		{"text", field.Text},
		{"address", field.Text},
		{"city", field.Tag},
		{"zip_code", field.Tag},
		{"autocomplete", field.Text},
		{"coordinates", field.Geo},
	}
	out := make([]field.Field, 0, len(specs))
	for _, s := range specs {
		f, err := field.New(s.name, s.ft)
		if err != nil {
			t.Fatalf("field.New(%s): %v", s.name, err)
		}
		out = append(out, f)
	}
	return out
}

func mustView(t *testing.T, def domview.Definition) domview.View {
	t.Helper()
	def.Index = memory.DemoIndex
	def.KeyPrefix = memory.DemoPrefix
	def.Fields = demoFields(t)
	v, err := domview.New(def)
	if err != nil {
		t.Fatalf("view.New(%s): %v", def.Name, err)
	}
	return v
}

// demoViews returns three views over the demo index:
// "addresses" (boolean over zip code and address), "nearby" (every strategy)
// and "broken" (no include or exclude list).
func demoViews(t *testing.T) *viewrepo.Catalog {
	t.Helper()
	addresses := mustView(t, domview.Definition{
		Name:    "addresses",
		Source:  schema.Include("zip_code", "address"),
		Aliases: map[string]string{"q": "address"},
	})
	nearby := mustView(t, domview.Definition{
		Name:    "nearby",
		Source:  schema.Exclude("text"),
		Aliases: map[string]string{"q": "autocomplete"},
		Strategies: []filter.Strategy{
			filter.StrategyBoolean, filter.StrategyAutocomplete, filter.StrategyGeo,
		},
		Options: filter.Options{AutocompleteField: "autocomplete"},
		Limit:   3,
	})
	broken := mustView(t, domview.Definition{Name: "broken"})

	c, err := viewrepo.NewCatalog(addresses, nearby, broken)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

// newTestService wires the service to a seeded in-memory store.
func newTestService(t *testing.T) *Service {
	t.Helper()
	st := memory.NewStore()
	if err := memory.SeedDemo(context.Background(), st); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	return New(searchrepo.New(st), demoViews(t), schema.NewRegistry(), 0)
}
