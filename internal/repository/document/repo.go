package document

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/sieve/internal/db"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
)

// store is the consumer interface for documents (ISP).
type store interface {
	PutDocuments(ctx context.Context, docs []db.Document) error
	DeleteDocuments(ctx context.Context, keys ...string) error
}

// Record is a document as loaded from a fixture file: an ID plus field values.
type Record struct {
	ID     string            `yaml:"id"`
	Fields map[string]string `yaml:"fields"`
}

// Repo writes documents under a view's key prefix.
type Repo struct {
	store     store
	batchSize int
}

// New creates a document repository writing in batches of batchSize (min 1).
func New(s store, batchSize int) *Repo {
	return &Repo{store: s, batchSize: max(1, batchSize)}
}

// Load stores records for v and returns how many were written.
// Fields the view does not declare are rejected before anything is written.
func (r *Repo) Load(ctx context.Context, v domview.View, records []Record) (int, error) {
	docs := make([]db.Document, 0, len(records))
	for _, rec := range records {
		if rec.ID == "" {
			return 0, fmt.Errorf("view %s: record id is required", v.Name())
		}
		for name := range rec.Fields {
			if _, ok := v.FieldByName(name); !ok {
				return 0, fmt.Errorf("view %s: record %s: unknown field %q", v.Name(), rec.ID, name)
			}
		}
		docs = append(docs, db.Document{Key: docKey(v, rec.ID), Fields: rec.Fields})
	}

	loaded := 0
	for start := 0; start < len(docs); start += r.batchSize {
		end := min(start+r.batchSize, len(docs))
		if err := r.store.PutDocuments(ctx, docs[start:end]); err != nil {
			return loaded, fmt.Errorf("load %s: %w", v.Name(), err)
		}
		loaded = end
	}
	return loaded, nil
}

// Delete removes documents of v by ID.
func (r *Repo) Delete(ctx context.Context, v domview.View, ids ...string) error {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(v, id)
	}
	if err := r.store.DeleteDocuments(ctx, keys...); err != nil {
		return fmt.Errorf("delete %s: %w", v.Name(), err)
	}
	return nil
}

func docKey(v domview.View, id string) string {
	return v.KeyPrefix() + id
}
