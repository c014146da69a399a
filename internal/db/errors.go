package db

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by every backend.
var (
	ErrIndexNotFound     = errors.New("db: index not found")
	ErrIndexExists       = errors.New("db: index already exists")
	ErrInvalidQuery      = errors.New("db: invalid query")
	ErrSearchUnavailable = errors.New("db: search module unavailable")
)

// Operation names carried by *Error. They follow the Redis commands the
// redis backend issues; the memory backend reuses them.
const (
	OpCreateIndex = "FT.CREATE"
	OpDropIndex   = "FT.DROPINDEX"
	OpIndexInfo   = "FT.INFO"
	OpListIndexes = "FT._LIST"
	OpSearch      = "FT.SEARCH"
	OpDel         = "DEL"
	OpHSet        = "HSET"
)

// Error is a failed backend operation. Key names the document for
// per-document writes and is empty otherwise.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
