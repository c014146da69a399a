package view

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/sieve/internal/domain"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
)

// Catalog is an immutable name to view lookup, built once from configuration.
type Catalog struct {
	views map[string]domview.View
	names []string
}

// NewCatalog indexes views by name. Duplicate names are rejected.
func NewCatalog(views ...domview.View) (*Catalog, error) {
	c := &Catalog{views: make(map[string]domview.View, len(views))}
	for _, v := range views {
		if _, dup := c.views[v.Name()]; dup {
			return nil, fmt.Errorf("duplicate view name: %s", v.Name())
		}
		c.views[v.Name()] = v
		c.names = append(c.names, v.Name())
	}
	sort.Strings(c.names)
	return c, nil
}

// Get returns the named view or domain.ErrNotFound.
func (c *Catalog) Get(name string) (domview.View, error) {
	v, ok := c.views[name]
	if !ok {
		return domview.View{}, fmt.Errorf("view %q: %w", name, domain.ErrNotFound)
	}
	return v, nil
}

// Names returns the view names in sorted order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.names...)
}

// All returns the views in name order.
func (c *Catalog) All() []domview.View {
	out := make([]domview.View, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.views[n])
	}
	return out
}
