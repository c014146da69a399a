package filter

import (
	"fmt"
	"net/url"

	"github.com/kailas-cloud/sieve/internal/domain/geo"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
)

// Defaults for Options.
const (
	DefaultOriginParam = "from"
	DefaultGeoField    = "coordinates"
)

// UnitKey binds a radius request parameter to its distance unit.
type UnitKey struct {
	Param string
	Unit  geo.Unit
}

// DefaultUnitKeys returns one parameter per supported unit, named after it.
func DefaultUnitKeys() []UnitKey {
	units := geo.Units()
	keys := make([]UnitKey, len(units))
	for i, u := range units {
		keys[i] = UnitKey{Param: string(u), Unit: u}
	}
	return keys
}

// Options is the per-caller filter configuration. It is a value:
// the With* methods return modified copies and never touch the receiver.
type Options struct {
	// Separator splits multi-value parameters. Default ",".
	Separator string
	// AutocompleteField overrides the schema's autocomplete field.
	AutocompleteField string
	// OriginParam names the "lat,lon" origin parameter. Default "from".
	OriginParam string
	// GeoField is the location-bearing field. Default "coordinates".
	GeoField string
	// Units lists radius parameters in lookup order; the first present wins.
	Units []UnitKey
}

// DefaultOptions returns Options with every default applied.
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

// WithSeparator returns a copy using sep.
func (o Options) WithSeparator(sep string) Options {
	o.Separator = sep
	return o
}

// WithAutocompleteField returns a copy targeting field for autocomplete.
func (o Options) WithAutocompleteField(field string) Options {
	o.AutocompleteField = field
	return o
}

// WithOriginParam returns a copy reading the origin from param.
func (o Options) WithOriginParam(param string) Options {
	o.OriginParam = param
	return o
}

// WithGeoField returns a copy filtering on field.
func (o Options) WithGeoField(field string) Options {
	o.GeoField = field
	return o
}

// WithUnits returns a copy with the given radius parameters.
func (o Options) WithUnits(keys ...UnitKey) Options {
	o.Units = append([]UnitKey(nil), keys...)
	return o
}

func (o Options) withDefaults() Options {
	if o.Separator == "" {
		o.Separator = query.DefaultSeparator
	}
	if o.OriginParam == "" {
		o.OriginParam = DefaultOriginParam
	}
	if o.GeoField == "" {
		o.GeoField = DefaultGeoField
	}
	if len(o.Units) == 0 {
		o.Units = DefaultUnitKeys()
	}
	return o
}

// Validate checks the unit table and parameter names.
func (o Options) Validate() error {
	o = o.withDefaults()
	seen := map[string]bool{o.OriginParam: true}
	for _, k := range o.Units {
		if k.Param == "" {
			return fmt.Errorf("radius parameter name is required")
		}
		if !k.Unit.IsValid() {
			return fmt.Errorf("unsupported distance unit %q for parameter %q", k.Unit, k.Param)
		}
		if seen[k.Param] {
			return fmt.Errorf("duplicate geo parameter %q", k.Param)
		}
		seen[k.Param] = true
	}
	return nil
}

// Params is a flat request parameter map. Repeated keys are not supported;
// multiple values travel in one value joined by the separator.
type Params map[string]string

// ParamsFromValues keeps the first value of each key.
func ParamsFromValues(v url.Values) Params {
	p := make(Params, len(v))
	for k, vs := range v {
		if len(vs) > 0 {
			p[k] = vs[0]
		}
	}
	return p
}
