package view

import (
	"fmt"
	"maps"
	"regexp"

	"github.com/kailas-cloud/sieve/internal/domain/search/filter"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
	"github.com/kailas-cloud/sieve/internal/domain/view/field"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxLimit caps the number of hits a view may return per request.
const MaxLimit = 1000

// Definition carries the raw declaration of a view, as read from configuration.
type Definition struct {
	Name       string
	Index      string
	KeyPrefix  string
	Fields     []field.Field
	Source     schema.Source
	Aliases    map[string]string
	Strategies []filter.Strategy
	Options    filter.Options
	Limit      int
}

// View binds a search index to its filterable field declaration and the
// strategies that turn request parameters into a query (immutable value object).
type View struct {
	name       string
	index      string
	keyPrefix  string
	fields     []field.Field
	source     schema.Source
	aliases    map[string]string
	strategies []filter.Strategy
	options    filter.Options
	limit      int
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("view name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("view name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("view name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

func validateFields(fields []field.Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("at least one field is required")
	}
	if len(fields) > 64 {
		return fmt.Errorf("too many fields (max 64)")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return fmt.Errorf("duplicate field name: %s", f.Name())
		}
		seen[f.Name()] = true
	}
	return nil
}

// New validates and creates a View.
// Index defaults to the view name, Limit to 0 (the caller's default applies).
// A missing Source is accepted here: the view then fails schema resolution on
// every request instead of at load time.
func New(def Definition) (View, error) {
	if err := validateName(def.Name); err != nil {
		return View{}, err
	}
	if err := validateFields(def.Fields); err != nil {
		return View{}, fmt.Errorf("view %s: %w", def.Name, err)
	}
	for _, s := range def.Strategies {
		if !s.IsValid() {
			return View{}, fmt.Errorf("view %s: unknown filter strategy %q", def.Name, s)
		}
	}
	if err := def.Options.Validate(); err != nil {
		return View{}, fmt.Errorf("view %s: %w", def.Name, err)
	}
	if def.Limit < 0 || def.Limit > MaxLimit {
		return View{}, fmt.Errorf("view %s: limit must be between 0 and %d", def.Name, MaxLimit)
	}

	index := def.Index
	if index == "" {
		index = def.Name
	}

	return View{
		name:       def.Name,
		index:      index,
		keyPrefix:  def.KeyPrefix,
		fields:     append([]field.Field(nil), def.Fields...),
		source:     def.Source,
		aliases:    maps.Clone(def.Aliases),
		strategies: append([]filter.Strategy(nil), def.Strategies...),
		options:    def.Options,
		limit:      def.Limit,
	}, nil
}

// Name returns the view name.
func (v View) Name() string { return v.name }

// Index returns the backing search index name.
func (v View) Index() string { return v.index }

// KeyPrefix returns the key prefix of indexed documents.
func (v View) KeyPrefix() string { return v.keyPrefix }

// Fields returns the indexed field definitions.
func (v View) Fields() []field.Field { return v.fields }

// Strategies returns the configured filter strategies; empty means boolean.
func (v View) Strategies() []filter.Strategy { return v.strategies }

// Options returns the filter options.
func (v View) Options() filter.Options { return v.options }

// Limit returns the per-view hit limit, 0 when unset.
func (v View) Limit() int { return v.limit }

// FieldByName looks up a field by name.
func (v View) FieldByName(name string) (field.Field, bool) {
	for _, f := range v.fields {
		if f.Name() == name {
			return f, true
		}
	}
	return field.Field{}, false
}

// FieldTypes maps every field name to its type.
func (v View) FieldTypes() map[string]field.Type {
	m := make(map[string]field.Type, len(v.fields))
	for _, f := range v.fields {
		m[f.Name()] = f.FieldType()
	}
	return m
}

// Declaration implements schema.Declarer.
func (v View) Declaration() schema.Declaration {
	names := make([]string, len(v.fields))
	for i, f := range v.fields {
		names[i] = f.Name()
	}
	return schema.Declaration{
		Name:         v.name,
		Fields:       names,
		Source:       v.source,
		Aliases:      v.aliases,
		Autocomplete: v.options.AutocompleteField,
	}
}
