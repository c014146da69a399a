package sieve

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kailas-cloud/sieve/internal/domain/geo"
	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
)

const tagKey = "sieve"

// Point is a geographic coordinate. Geo fields must have this type.
type Point = geo.Point

// schemaMeta holds parsed struct tag metadata, cached per TypedIndex.
//
// Tag grammar: `sieve:"name,kind[,option...]"` where kind is id, text, tag,
// numeric or geo and options are filter, nofilter, autocomplete and alias=NAME.
// Fields marked filter form an include list, fields marked nofilter an exclude
// list; a struct mixing both is rejected, and a struct using neither declares
// no filterable fields at all.
type schemaMeta struct {
	typ   reflect.Type
	ptr   bool // T is *typ
	idIdx int

	fields  []fieldMapping
	include []string
	exclude []string
	aliases map[string]string

	autocomplete string
	geoField     string
}

type fieldMapping struct {
	structIdx int
	name      string
	kind      field.Type
}

// parseSchema reflects on T and extracts sieve struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return nil, fmt.Errorf("sieve: type parameter must be a struct")
	}
	ptr := t.Kind() == reflect.Pointer
	if ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("sieve: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, ptr: ptr, idIdx: -1, aliases: map[string]string{}}
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := meta.applyTag(i, f, tag); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("sieve: no field with `sieve:\"...,id\"` tag in %s", t)
	}
	if meta.include != nil && meta.exclude != nil {
		return nil, fmt.Errorf("sieve: %s mixes filter and nofilter fields", t)
	}
	return meta, nil
}

func (m *schemaMeta) applyTag(idx int, f reflect.StructField, tag string) error {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 || parts[0] == "" {
		return fmt.Errorf("sieve: field %s: tag must be \"name,kind\"", f.Name)
	}
	name, kind := parts[0], parts[1]

	if kind == "id" {
		if m.idIdx != -1 {
			return fmt.Errorf("sieve: duplicate id tag on field %s", f.Name)
		}
		if f.Type.Kind() != reflect.String {
			return fmt.Errorf("sieve: id field %s must be a string", f.Name)
		}
		m.idIdx = idx
		return nil
	}

	ft := field.Type(kind)
	if !ft.IsValid() {
		return fmt.Errorf("sieve: unknown kind %q on field %s", kind, f.Name)
	}
	if err := checkGoType(ft, f); err != nil {
		return err
	}
	m.fields = append(m.fields, fieldMapping{structIdx: idx, name: name, kind: ft})

	for _, opt := range parts[2:] {
		switch {
		case opt == "filter":
			m.include = append(m.include, name)
		case opt == "nofilter":
			m.exclude = append(m.exclude, name)
		case opt == "autocomplete":
			if ft != field.Text {
				return fmt.Errorf("sieve: autocomplete field %s must be text", f.Name)
			}
			m.autocomplete = name
		case strings.HasPrefix(opt, "alias="):
			m.aliases[strings.TrimPrefix(opt, "alias=")] = name
		default:
			return fmt.Errorf("sieve: unknown option %q on field %s", opt, f.Name)
		}
	}
	if ft == field.Geo {
		if m.geoField != "" {
			return fmt.Errorf("sieve: duplicate geo field %s", f.Name)
		}
		m.geoField = name
	}
	return nil
}

var pointType = reflect.TypeOf(geo.Point{})

func checkGoType(ft field.Type, f reflect.StructField) error {
	k := f.Type.Kind()
	ok := false
	switch ft {
	case field.Text:
		ok = k == reflect.String
	case field.Tag:
		ok = k == reflect.String || (k == reflect.Slice && f.Type.Elem().Kind() == reflect.String)
	case field.Numeric:
		ok = isNumber(k)
	case field.Geo:
		ok = f.Type == pointType
	}
	if !ok {
		return fmt.Errorf("sieve: field %s of type %s cannot hold %s values", f.Name, f.Type, ft)
	}
	return nil
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// definition builds the view definition for an index called name.
func (m *schemaMeta) definition(name string, cfg indexConfig) (domview.Definition, error) {
	fields := make([]field.Field, 0, len(m.fields))
	for _, fm := range m.fields {
		f, err := field.New(fm.name, fm.kind)
		if err != nil {
			return domview.Definition{}, fmt.Errorf("sieve: %w", err)
		}
		fields = append(fields, f)
	}

	var src schema.Source
	switch {
	case m.include != nil:
		src = schema.Include(m.include...)
	case m.exclude != nil:
		src = schema.Exclude(m.exclude...)
	}

	strategies := []filter.Strategy{filter.StrategyBoolean}
	if m.autocomplete != "" {
		strategies = append(strategies, filter.StrategyAutocomplete)
	}
	if m.geoField != "" {
		strategies = append(strategies, filter.StrategyGeo)
	}

	opts := filter.Options{
		Separator:         cfg.separator,
		AutocompleteField: m.autocomplete,
		GeoField:          m.geoField,
	}

	return domview.Definition{
		Name:       name,
		KeyPrefix:  name + ":",
		Fields:     fields,
		Source:     src,
		Aliases:    m.aliases,
		Strategies: strategies,
		Options:    opts,
		Limit:      cfg.limit,
	}, nil
}

// toRecord flattens item into its ID and stored field values.
func (m *schemaMeta) toRecord(item any) (string, map[string]string, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, errors.New("sieve: nil item")
		}
		v = v.Elem()
	}

	id := v.Field(m.idIdx).String()
	out := make(map[string]string, len(m.fields))
	for _, fm := range m.fields {
		fv := v.Field(fm.structIdx)
		switch fm.kind {
		case field.Text:
			out[fm.name] = fv.String()
		case field.Tag:
			if fv.Kind() == reflect.Slice {
				vals := make([]string, fv.Len())
				for i := range vals {
					vals[i] = fv.Index(i).String()
				}
				out[fm.name] = strings.Join(vals, ",")
			} else {
				out[fm.name] = fv.String()
			}
		case field.Numeric:
			out[fm.name] = strconv.FormatFloat(toFloat64(fv), 'f', -1, 64)
		case field.Geo:
			p := fv.Interface().(geo.Point) //nolint:forcetypeassert // checked by checkGoType
			out[fm.name] = strconv.FormatFloat(p.Lon, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
		}
	}
	return id, out, nil
}

// fromRecord rebuilds a T from stored values, a pointer when T is one.
// Values that do not parse are left zero.
func (m *schemaMeta) fromRecord(id string, fields map[string]string) any {
	v := reflect.New(m.typ).Elem()
	v.Field(m.idIdx).SetString(id)

	for _, fm := range m.fields {
		raw, ok := fields[fm.name]
		if !ok {
			continue
		}
		fv := v.Field(fm.structIdx)
		switch fm.kind {
		case field.Text:
			fv.SetString(raw)
		case field.Tag:
			if fv.Kind() == reflect.Slice {
				if raw == "" {
					continue
				}
				parts := strings.Split(raw, ",")
				s := reflect.MakeSlice(fv.Type(), len(parts), len(parts))
				for i, p := range parts {
					s.Index(i).SetString(p)
				}
				fv.Set(s)
			} else {
				fv.SetString(raw)
			}
		case field.Numeric:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				setFloat(fv, f)
			}
		case field.Geo:
			if p, err := geo.ParseLonLat(raw); err == nil {
				fv.Set(reflect.ValueOf(p))
			}
		}
	}
	if m.ptr {
		return v.Addr().Interface()
	}
	return v.Interface()
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	default:
		return 0
	}
}

func setFloat(v reflect.Value, f float64) {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		v.SetFloat(f)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v.SetInt(int64(f))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v.SetUint(uint64(f))
	}
}
