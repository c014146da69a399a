package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/sieve/internal/db/memory"
	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
	searchrepo "github.com/kailas-cloud/sieve/internal/repository/search"
	viewrepo "github.com/kailas-cloud/sieve/internal/repository/view"
	healthuc "github.com/kailas-cloud/sieve/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sieve/internal/usecase/search"
)

func locationFields(t *testing.T) []field.Field {
	t.Helper()
	var out []field.Field
	for _, f := range []struct {
		name string
		ft   field.Type
	}{
		{"text", field.Text},
		{"address", field.Text},
		{"city", field.Tag},
		{"zip_code", field.Tag},
		{"autocomplete", field.Text},
		{"coordinates", field.Geo},
	} {
		fld, err := field.New(f.name, f.ft)
		if err != nil {
			t.Fatalf("field.New: %v", err)
		}
		out = append(out, fld)
	}
	return out
}

func numericZip(t *testing.T) field.Field {
	t.Helper()
	f, err := field.New("zip_code", field.Numeric)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func testCatalog(t *testing.T) *viewrepo.Catalog {
	t.Helper()
	defs := []domview.Definition{
		{
			Name:    "addresses",
			Source:  schema.Include("zip_code", "address"),
			Aliases: map[string]string{"q": "address"},
		},
		{
			Name:       "nearby",
			Source:     schema.Exclude("text"),
			Aliases:    map[string]string{"q": "autocomplete"},
			Strategies: []filter.Strategy{filter.StrategyBoolean, filter.StrategyAutocomplete, filter.StrategyGeo},
			Options:    filter.Options{AutocompleteField: "autocomplete"},
		},
		{Name: "broken"},
		{Name: "numbers", Source: schema.Include("zip_code"), Fields: []field.Field{numericZip(t)}},
		{Name: "orphan", Index: "ghost", Source: schema.Include("zip_code")},
	}
	views := make([]domview.View, 0, len(defs))
	for _, def := range defs {
		if def.Index == "" {
			def.Index = memory.DemoIndex
		}
		if def.Fields == nil {
			def.Fields = locationFields(t)
		}
		def.KeyPrefix = memory.DemoPrefix
		v, err := domview.New(def)
		if err != nil {
			t.Fatalf("view.New(%s): %v", def.Name, err)
		}
		views = append(views, v)
	}
	c, err := viewrepo.NewCatalog(views...)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

// newTestHandler serves the API over a seeded in-memory store.
func newTestHandler(t *testing.T, cfg RouterConfig) http.Handler {
	t.Helper()
	st := memory.NewStore()
	if err := memory.SeedDemo(context.Background(), st); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	catalog := testCatalog(t)
	search := searchuc.New(searchrepo.New(st), catalog, schema.NewRegistry(), 0)
	health := healthuc.New(st, catalog)
	return NewRouter(NewServer(search, health, catalog, zap.NewNop()), cfg, zap.NewNop())
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, http.NoBody)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
