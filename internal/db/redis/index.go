package redis

import (
	"context"
	"slices"
	"strconv"

	"github.com/kailas-cloud/sieve/internal/db"
)

// CreateIndex runs FT.CREATE for def. An existing index fails with
// db.ErrIndexExists.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := createArgs(def)
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}

	if err := s.do(ctx, s.b().Arbitrary("FT.CREATE").Args(args...).Build()).Error(); err != nil {
		if serverErrContains(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex runs FT.DROPINDEX. The indexed hashes stay.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	if err := s.do(ctx, s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()).Error(); err != nil {
		if isMissingIndex(err) {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists probes the index with FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	if err := s.do(ctx, s.b().Arbitrary("FT.INFO").Args(name).Build()).Error(); err != nil {
		if isMissingIndex(err) {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// ListIndexes runs FT._LIST.
func (s *Store) ListIndexes(ctx context.Context) ([]string, error) {
	names, err := s.do(ctx, s.b().Arbitrary("FT._LIST").Build()).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpListIndexes, Err: err}
	}
	slices.Sort(names)
	return names, nil
}

// createArgs renders def as FT.CREATE arguments:
// name ON HASH [PREFIX n p...] SCHEMA field [AS alias] TYPE [options]...
func createArgs(def *db.IndexDefinition) ([]string, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	storage := def.StorageType
	if storage == "" {
		storage = db.StorageHash
	}
	args := []string{def.Name, "ON", string(storage)}
	if len(def.Prefixes) > 0 {
		args = append(args, "PREFIX", strconv.Itoa(len(def.Prefixes)))
		args = append(args, def.Prefixes...)
	}

	args = append(args, "SCHEMA")
	for i := range def.Fields {
		args = append(args, fieldArgs(&def.Fields[i])...)
	}
	return args, nil
}

// fieldArgs renders one SCHEMA entry. f must come from a validated definition.
func fieldArgs(f *db.IndexField) []string {
	args := []string{f.Name}
	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}
	args = append(args, f.Type.String())

	switch f.Type {
	case db.IndexFieldText:
		if f.TextNoStem {
			args = append(args, "NOSTEM")
		}
	case db.IndexFieldTag:
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
	case db.IndexFieldNumeric, db.IndexFieldGeo:
	}
	return args
}
