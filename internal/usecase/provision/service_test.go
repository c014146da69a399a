package provision

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
	"github.com/kailas-cloud/sieve/internal/repository/document"
)

// --- Mocks ---

type mockIndexes struct {
	created   bool
	ensureErr error
	dropErr   error
	ensured   int
	dropped   int
}

func (m *mockIndexes) Ensure(_ context.Context, _ domview.View) (bool, error) {
	m.ensured++
	return m.created, m.ensureErr
}

func (m *mockIndexes) Drop(_ context.Context, _ domview.View) error {
	m.dropped++
	return m.dropErr
}

type mockDocs struct {
	err     error
	records []document.Record
}

func (m *mockDocs) Load(_ context.Context, _ domview.View, records []document.Record) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.records = append(m.records, records...)
	return len(records), nil
}

func testView(t *testing.T, src schema.Source) domview.View {
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
		Source:    src,
	})
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	return v
}

// --- Tests ---

func TestPrepare(t *testing.T) {
	idx := &mockIndexes{created: true}
	docs := &mockDocs{}
	svc := New(idx, docs, schema.NewRegistry())

	records := []document.Record{
		{ID: "1", Fields: map[string]string{"zip_code": "0289"}},
		{ID: "2", Fields: map[string]string{"zip_code": "0204"}},
	}
	rep, err := svc.Prepare(context.Background(), testView(t, schema.Exclude("address")), records)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !rep.IndexCreated {
		t.Error("expected IndexCreated")
	}
	if rep.Loaded != 2 {
		t.Errorf("expected 2 loaded, got %d", rep.Loaded)
	}
	if len(rep.Filterable) != 1 || rep.Filterable[0] != "zip_code" {
		t.Errorf("expected [zip_code], got %v", rep.Filterable)
	}
}

func TestPrepare_NoRecords(t *testing.T) {
	idx := &mockIndexes{}
	docs := &mockDocs{err: errors.New("must not be called")}
	svc := New(idx, docs, schema.NewRegistry())

	rep, err := svc.Prepare(context.Background(), testView(t, schema.Include("zip_code")), nil)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if rep.Loaded != 0 || rep.IndexCreated {
		t.Errorf("unexpected report %+v", rep)
	}
	if idx.ensured != 1 {
		t.Errorf("expected 1 ensure, got %d", idx.ensured)
	}
}

func TestPrepare_MisconfiguredViewSkipsBackend(t *testing.T) {
	idx := &mockIndexes{}
	svc := New(idx, &mockDocs{}, schema.NewRegistry())

	_, err := svc.Prepare(context.Background(), testView(t, nil), nil)
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	var ce *domain.ConfigurationError
	if !errors.As(err, &ce) || ce.Entity != "locations" {
		t.Errorf("expected ConfigurationError for locations, got %v", err)
	}
	if idx.ensured != 0 {
		t.Error("index must not be touched")
	}
}

func TestPrepare_Errors(t *testing.T) {
	boom := errors.New("boom")

	svc := New(&mockIndexes{ensureErr: boom}, &mockDocs{}, schema.NewRegistry())
	if _, err := svc.Prepare(context.Background(), testView(t, schema.Include("zip_code")), nil); !errors.Is(err, boom) {
		t.Errorf("expected ensure error, got %v", err)
	}

	svc = New(&mockIndexes{}, &mockDocs{err: boom}, schema.NewRegistry())
	records := []document.Record{{ID: "1", Fields: map[string]string{"zip_code": "0289"}}}
	if _, err := svc.Prepare(context.Background(), testView(t, schema.Include("zip_code")), records); !errors.Is(err, boom) {
		t.Errorf("expected load error, got %v", err)
	}
}

func TestReindex(t *testing.T) {
	idx := &mockIndexes{created: true}
	svc := New(idx, &mockDocs{}, schema.NewRegistry())

	rep, err := svc.Reindex(context.Background(), testView(t, schema.Include("zip_code")), nil)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	if idx.dropped != 1 || idx.ensured != 1 || !rep.IndexCreated {
		t.Errorf("expected drop then create, got dropped=%d ensured=%d report=%+v", idx.dropped, idx.ensured, rep)
	}

	idx = &mockIndexes{dropErr: errors.New("down")}
	svc = New(idx, &mockDocs{}, schema.NewRegistry())
	if _, err := svc.Reindex(context.Background(), testView(t, schema.Include("zip_code")), nil); err == nil {
		t.Error("expected drop error")
	}
	if idx.ensured != 0 {
		t.Error("ensure must not run after a failed drop")
	}
}
