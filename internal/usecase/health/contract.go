package health

import (
	"context"

	domview "github.com/kailas-cloud/sieve/internal/domain/view"
)

// Backend is the slice of the store health needs.
type Backend interface {
	Ping(ctx context.Context) error
	ListIndexes(ctx context.Context) ([]string, error)
}

// ViewCatalog exposes the served views.
type ViewCatalog interface {
	All() []domview.View
}
