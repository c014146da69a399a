package filter

import (
	"fmt"

	"github.com/kailas-cloud/sieve/internal/domain"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
)

// Strategy names a query-building strategy.
type Strategy string

// Supported strategies.
const (
	StrategyBoolean      Strategy = "boolean"
	StrategyAutocomplete Strategy = "autocomplete"
	StrategyGeo          Strategy = "geo"
)

// IsValid checks if the strategy is supported.
func (s Strategy) IsValid() bool {
	return s == StrategyBoolean || s == StrategyAutocomplete || s == StrategyGeo
}

// Builder turns request parameters into a query expression.
type Builder interface {
	Build(params Params) (query.Expression, error)
}

// BuilderFunc adapts a function to the Builder interface.
type BuilderFunc func(params Params) (query.Expression, error)

// Build calls f.
func (f BuilderFunc) Build(params Params) (query.Expression, error) { return f(params) }

// New assembles the builders for strategies over a resolved schema, AND-ed in
// the given order. No strategies means boolean. When boolean and autocomplete
// are both selected, the boolean builder leaves the autocomplete field alone.
// Misconfiguration fails with a *domain.ConfigurationError.
func New(sc schema.Schema, opts Options, strategies ...Strategy) (Builder, error) {
	if err := opts.Validate(); err != nil {
		return nil, domain.NewConfigurationError(sc.Name(), "%s", err.Error())
	}
	opts = opts.withDefaults()

	if len(strategies) == 0 {
		strategies = []Strategy{StrategyBoolean}
	}

	selected := make(map[Strategy]bool, len(strategies))
	ordered := make([]Strategy, 0, len(strategies))
	for _, s := range strategies {
		if !s.IsValid() {
			return nil, domain.NewConfigurationError(sc.Name(), "unknown filter strategy %q", s)
		}
		if !selected[s] {
			selected[s] = true
			ordered = append(ordered, s)
		}
	}

	acField := opts.AutocompleteField
	if acField == "" {
		acField = sc.Autocomplete()
	}

	builders := make([]Builder, 0, len(ordered))
	for _, s := range ordered {
		switch s {
		case StrategyBoolean:
			skip := ""
			if selected[StrategyAutocomplete] {
				skip = acField
			}
			builders = append(builders, booleanBuilder(sc, opts.Separator, skip))

		case StrategyAutocomplete:
			if acField == "" {
				return nil, domain.NewConfigurationError(sc.Name(), "autocomplete strategy requires an autocomplete field")
			}
			if !sc.Has(acField) {
				return nil, domain.NewConfigurationError(sc.Name(), "autocomplete field %q is not filterable", acField)
			}
			builders = append(builders, autocompleteBuilder(sc, acField))

		case StrategyGeo:
			if !sc.Has(opts.GeoField) {
				return nil, domain.NewConfigurationError(sc.Name(), "geo field %q is not filterable", opts.GeoField)
			}
			builders = append(builders, geoBuilder(opts))
		}
	}

	return Chain(builders...), nil
}

func booleanBuilder(sc schema.Schema, sep, skip string) Builder {
	return BuilderFunc(func(params Params) (query.Expression, error) {
		return booleanExcept(params, sc, sep, skip), nil
	})
}

// autocompleteBuilder feeds every parameter that resolves to field through
// Autocomplete and AND-s the results.
func autocompleteBuilder(sc schema.Schema, field string) Builder {
	return BuilderFunc(func(params Params) (query.Expression, error) {
		var parts []query.Expression
		for _, public := range sortedKeys(params) {
			if sc.ResolveAlias(public) == field {
				parts = append(parts, Autocomplete(params[public], field))
			}
		}
		return query.And(parts...), nil
	})
}

func geoBuilder(opts Options) Builder {
	return BuilderFunc(func(params Params) (query.Expression, error) {
		return Geo(params, opts)
	})
}

type chain []Builder

// Chain AND-combines the outputs of builders. The first error aborts the chain;
// no partial expression is returned with it.
func Chain(builders ...Builder) Builder {
	return chain(builders)
}

func (c chain) Build(params Params) (query.Expression, error) {
	parts := make([]query.Expression, 0, len(c))
	for _, b := range c {
		e, err := b.Build(params)
		if err != nil {
			return query.All(), err
		}
		parts = append(parts, e)
	}
	return query.And(parts...), nil
}

// ParseStrategies converts names into strategies.
func ParseStrategies(names []string) ([]Strategy, error) {
	out := make([]Strategy, 0, len(names))
	for _, n := range names {
		s := Strategy(n)
		if !s.IsValid() {
			return nil, fmt.Errorf("unknown filter strategy %q", n)
		}
		out = append(out, s)
	}
	return out, nil
}
