package db

import "strings"

// FieldOption tunes one index field.
type FieldOption func(*IndexField)

// NoStem disables stemming on a TEXT field so prefix queries see raw words.
func NoStem() FieldOption {
	return func(f *IndexField) { f.TextNoStem = true }
}

// Separator sets the TAG separator for multi-valued tags (default ",").
func Separator(sep string) FieldOption {
	return func(f *IndexField) { f.TagSeparator = sep }
}

// CaseSensitive keeps TAG values case-sensitive.
func CaseSensitive() FieldOption {
	return func(f *IndexField) { f.TagCaseSensitive = true }
}

// As exposes the field under alias in queries.
func As(alias string) FieldOption {
	return func(f *IndexField) { f.Alias = alias }
}

// IndexBuilder is a fluent builder for FT index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building a HASH index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, StorageType: StorageHash}}
}

// Prefix adds key prefixes; empty ones are ignored.
func (b *IndexBuilder) Prefix(prefixes ...string) *IndexBuilder {
	for _, p := range prefixes {
		if p != "" {
			b.def.Prefixes = append(b.def.Prefixes, p)
		}
	}
	return b
}

// Field adds a field of the given type.
func (b *IndexBuilder) Field(name string, t IndexFieldType, opts ...FieldOption) *IndexBuilder {
	f := IndexField{Name: name, Type: t}
	for _, o := range opts {
		o(&f)
	}
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Numeric adds a NUMERIC field.
func (b *IndexBuilder) Numeric(name string) *IndexBuilder { return b.Field(name, IndexFieldNumeric) }

// Tag adds a TAG field.
func (b *IndexBuilder) Tag(name string, opts ...FieldOption) *IndexBuilder {
	return b.Field(name, IndexFieldTag, opts...)
}

// Text adds a TEXT field.
func (b *IndexBuilder) Text(name string, opts ...FieldOption) *IndexBuilder {
	return b.Field(name, IndexFieldText, opts...)
}

// TextNoStem adds an unstemmed TEXT field, the shape autocomplete fields need.
func (b *IndexBuilder) TextNoStem(name string) *IndexBuilder { return b.Text(name, NoStem()) }

// Geo adds a GEO field holding "lon,lat" values.
func (b *IndexBuilder) Geo(name string) *IndexBuilder { return b.Field(name, IndexFieldGeo) }

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}

// MustBuild calls Build and panics on error. For static definitions only.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String renders a readable summary of the definition, FT.CREATE style.
func (idx *IndexDefinition) String() string {
	var sb strings.Builder
	sb.WriteString("FT.CREATE ")
	sb.WriteString(idx.Name)
	if idx.StorageType != "" {
		sb.WriteString(" ON " + string(idx.StorageType))
	}
	if len(idx.Prefixes) > 0 {
		sb.WriteString(" PREFIX " + strings.Join(idx.Prefixes, " "))
	}
	sb.WriteString(" SCHEMA")
	for i := range idx.Fields {
		f := &idx.Fields[i]
		sb.WriteString(" " + f.Name)
		if f.Alias != "" {
			sb.WriteString(" AS " + f.Alias)
		}
		sb.WriteString(" " + f.Type.String())
	}
	return sb.String()
}
