package field

import "fmt"

// Type is the indexing type of a field.
type Type string

// Field type constants.
const (
	// Text is a full-text field: exact terms match as phrases.
	Text Type = "text"
	// Tag is a tag (exact match) field.
	Tag     Type = "tag"
	Numeric Type = "numeric"
	// Geo holds a "lon,lat" location.
	Geo Type = "geo"
)

// IsValid checks if the field type is supported.
func (t Type) IsValid() bool {
	switch t {
	case Text, Tag, Numeric, Geo:
		return true
	}
	return false
}

var reservedFieldNames = map[string]bool{
	"id": true, "__key": true,
}

// Field is an immutable value object describing an indexed view field.
type Field struct {
	name      string
	fieldType Type
}

// New validates and creates a Field.
// Name must be non-empty, max 64 chars, and not reserved.
func New(name string, ft Type) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > 64 {
		return Field{}, fmt.Errorf("field name %q too long (max 64)", name)
	}
	if reservedFieldNames[name] {
		return Field{}, fmt.Errorf("field name %q is reserved", name)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	return Field{name: name, fieldType: ft}, nil
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// FieldType returns the field's indexing type.
func (f Field) FieldType() Type { return f.fieldType }
