package search

import (
	"context"
	"testing"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error)
}

func (m *mockStore) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testView(t *testing.T) domview.View {
	t.Helper()
	mk := func(name string, ft field.Type) field.Field {
		f, err := field.New(name, ft)
		if err != nil {
			t.Fatalf("field.New: %v", err)
		}
		return f
	}
	v, err := domview.New(domview.Definition{
		Name:      "locations",
		KeyPrefix: "loc:",
		Fields: []field.Field{
			mk("zip_code", field.Tag),
			mk("address", field.Text),
		},
		Source: schema.Include("zip_code", "address"),
	})
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return v
}
