package document

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
	putFn    func(ctx context.Context, docs []db.Document) error
	deleteFn func(ctx context.Context, keys ...string) error
}

func (m *mockStore) PutDocuments(ctx context.Context, docs []db.Document) error {
	if m.putFn != nil {
		return m.putFn(ctx, docs)
	}
	return nil
}

func (m *mockStore) DeleteDocuments(ctx context.Context, keys ...string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, keys...)
	}
	return nil
}

func testView(t *testing.T) domview.View {
	t.Helper()
	zip, err := field.New("zip_code", field.Tag)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	addr, err := field.New("address", field.Text)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	v, err := domview.New(domview.Definition{
		Name:      "locations",
		KeyPrefix: "loc:",
		Fields:    []field.Field{zip, addr},
		Source:    schema.Include("zip_code", "address"),
	})
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return v
}
