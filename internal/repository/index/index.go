package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/kailas-cloud/sieve/internal/db"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo manages the search indexes backing views.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Definition derives the FT index definition for a view.
// Autocomplete fields skip stemming so prefix queries see the raw words.
func Definition(v domview.View) (*db.IndexDefinition, error) {
	b := db.NewIndex(v.Index()).Prefix(v.KeyPrefix())
	ac := v.Options().AutocompleteField

	for _, f := range v.Fields() {
		t, err := FieldType(f.FieldType())
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", v.Name(), err)
		}
		if t == db.IndexFieldText && f.Name() == ac {
			b.Field(f.Name(), t, db.NoStem())
			continue
		}
		b.Field(f.Name(), t)
	}

	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("view %s: %w", v.Name(), err)
	}
	return def, nil
}

// FieldType maps a view field type to its index field type.
func FieldType(ft field.Type) (db.IndexFieldType, error) {
	switch ft {
	case field.Text:
		return db.IndexFieldText, nil
	case field.Tag:
		return db.IndexFieldTag, nil
	case field.Numeric:
		return db.IndexFieldNumeric, nil
	case field.Geo:
		return db.IndexFieldGeo, nil
	}
	return 0, fmt.Errorf("unknown field type: %s", ft)
}

// Ensure creates the view's index unless it exists. Returns true if created.
func (r *Repo) Ensure(ctx context.Context, v domview.View) (bool, error) {
	def, err := Definition(v)
	if err != nil {
		return false, err
	}

	exists, err := r.store.IndexExists(ctx, def.Name)
	if err != nil {
		return false, fmt.Errorf("index exists %s: %w", def.Name, err)
	}
	if exists {
		return false, nil
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost a race with another instance.
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", def.Name, err)
	}
	return true, nil
}

// Drop removes the view's index. A missing index is not an error.
func (r *Repo) Drop(ctx context.Context, v domview.View) error {
	if err := r.store.DropIndex(ctx, v.Index()); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return fmt.Errorf("drop index %s: %w", v.Index(), err)
	}
	return nil
}
