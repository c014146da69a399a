package config

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/sieve/internal/domain/geo"
	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
)

// Source returns the include or exclude list, or nil when neither is set.
func (v ViewConfig) Source() schema.Source {
	switch {
	case v.Include != nil:
		return schema.Include(v.Include...)
	case v.Exclude != nil:
		return schema.Exclude(v.Exclude...)
	}
	return nil
}

// FilterOptions converts the per-view filter settings.
func (v ViewConfig) FilterOptions() (filter.Options, error) {
	opts := filter.Options{
		Separator:         v.Separator,
		AutocompleteField: v.Autocomplete,
		OriginParam:       v.OriginParam,
		GeoField:          v.GeoField,
	}
	if len(v.Units) == 0 {
		return opts, nil
	}
	keys := make([]filter.UnitKey, 0, len(v.Units))
	for _, u := range v.Units {
		unit, ok := geo.ParseUnit(u.Unit)
		if !ok {
			return filter.Options{}, fmt.Errorf("units: unsupported distance unit %q", u.Unit)
		}
		param := u.Param
		if param == "" {
			param = string(unit)
		}
		keys = append(keys, filter.UnitKey{Param: param, Unit: unit})
	}
	return opts.WithUnits(keys...), nil
}

// View builds the domain view. A view with neither include nor exclude is
// built anyway and surfaces as a configuration error once its schema resolves.
func (v ViewConfig) View() (domview.View, error) {
	fields := make([]field.Field, 0, len(v.Fields))
	for _, fc := range v.Fields {
		f, err := field.New(fc.Name, field.Type(strings.ToLower(fc.Type)))
		if err != nil {
			return domview.View{}, fmt.Errorf("views.%s: %w", v.Name, err)
		}
		fields = append(fields, f)
	}

	strategies, err := filter.ParseStrategies(v.Strategies)
	if err != nil {
		return domview.View{}, fmt.Errorf("views.%s: %w", v.Name, err)
	}

	opts, err := v.FilterOptions()
	if err != nil {
		return domview.View{}, fmt.Errorf("views.%s: %w", v.Name, err)
	}

	view, err := domview.New(domview.Definition{
		Name:       v.Name,
		Index:      v.Index,
		KeyPrefix:  v.KeyPrefix,
		Fields:     fields,
		Source:     v.Source(),
		Aliases:    v.Aliases,
		Strategies: strategies,
		Options:    opts,
		Limit:      v.Limit,
	})
	if err != nil {
		return domview.View{}, fmt.Errorf("build view: %w", err)
	}
	return view, nil
}

// BuildViews builds every configured view in declaration order.
func (c *Config) BuildViews() ([]domview.View, error) {
	out := make([]domview.View, 0, len(c.Views))
	for _, vc := range c.Views {
		v, err := vc.View()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
