package redis

import (
	"context"
	"errors"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/sieve/internal/db"
)

// PutDocuments stores each document as a hash in a single DoMulti round-trip.
func (s *Store) PutDocuments(ctx context.Context, docs []db.Document) error {
	if len(docs) == 0 {
		return nil
	}

	cmds := make(rueidis.Commands, 0, len(docs))
	for _, d := range docs {
		if d.Key == "" {
			return &db.Error{Op: db.OpHSet, Err: errors.New("document key is required")}
		}
		if len(d.Fields) == 0 {
			return &db.Error{Op: db.OpHSet, Key: d.Key, Err: errors.New("no fields")}
		}
		cmd := s.b().Hset().Key(d.Key).FieldValue()
		for k, v := range d.Fields {
			cmd = cmd.FieldValue(k, v)
		}
		cmds = append(cmds, cmd.Build())
	}

	results := s.client.DoMulti(ctx, cmds...)
	for i, res := range results {
		if err := res.Error(); err != nil {
			return &db.Error{Op: db.OpHSet, Key: docs[i].Key, Err: err}
		}
	}
	return nil
}

// DeleteDocuments removes the given keys. Missing keys are not an error.
func (s *Store) DeleteDocuments(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	cmd := s.b().Del().Key(keys...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpDel, Err: err}
	}
	return nil
}
