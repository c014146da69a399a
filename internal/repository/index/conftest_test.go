package index

import (
	"context"
	"testing"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	createIndexFn func(ctx context.Context, def *db.IndexDefinition) error
	dropIndexFn   func(ctx context.Context, name string) error
	indexExistsFn func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropIndexFn != nil {
		return m.dropIndexFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
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
		Index:     "idx:locations",
		KeyPrefix: "loc:",
		Fields: []field.Field{
			mk("zip_code", field.Tag),
			mk("address", field.Text),
			mk("autocomplete", field.Text),
			mk("population", field.Numeric),
			mk("coordinates", field.Geo),
		},
		Source:  schema.Exclude("population"),
		Options: filter.DefaultOptions().WithAutocompleteField("autocomplete"),
	})
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return v
}
