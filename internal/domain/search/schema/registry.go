package schema

import "sync"

// Registry caches resolved schemas per declaring entity name.
// Resolution is deterministic, so concurrent first lookups may both resolve
// and store; they store identical values. Failures are not cached.
type Registry struct {
	schemas sync.Map // name -> Schema
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Resolve returns the cached schema for d, resolving it on first use.
func (r *Registry) Resolve(d Declarer) (Schema, error) {
	if d == nil {
		return Resolve(d)
	}
	name := d.Declaration().Name
	if s, ok := r.schemas.Load(name); ok {
		return s.(Schema), nil //nolint:forcetypeassert // only Schema values are stored
	}
	s, err := Resolve(d)
	if err != nil {
		return Schema{}, err
	}
	actual, _ := r.schemas.LoadOrStore(name, s)
	return actual.(Schema), nil //nolint:forcetypeassert // only Schema values are stored
}

// Len returns the number of cached schemas.
func (r *Registry) Len() int {
	n := 0
	r.schemas.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
