package db

import (
	"context"
	"time"
)

// Store is the facade every backend implements: redis for production, memory
// for tests and local runs.
//
//nolint:interfacebloat // facade -- consumers use narrow sub-interfaces
type Store interface {
	Pinger
	DocumentWriter
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Document is a flat field map stored under Key.
type Document struct {
	Key    string
	Fields map[string]string
}

// DocumentWriter loads and removes indexed documents.
type DocumentWriter interface {
	PutDocuments(ctx context.Context, docs []Document) error
	DeleteDocuments(ctx context.Context, keys ...string) error
}

// IndexManager provides FT index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	// ListIndexes returns the names of every index, sorted.
	ListIndexes(ctx context.Context) ([]string, error)
}

// Searcher executes query expressions against an index.
type Searcher interface {
	Search(ctx context.Context, q *SearchQuery) (*SearchResult, error)
}
