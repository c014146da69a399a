package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/sieve/internal/domain"
)

// Source selects filterable fields: either an include list or an exclude list.
// It is sealed; use Include or Exclude.
type Source interface {
	resolve(all []string) ([]string, error)
}

type included []string

type excluded []string

// Include makes only the listed fields filterable, in the listed order.
func Include(fields ...string) Source { return included(fields) }

// Exclude makes every declared field filterable except the listed ones.
func Exclude(fields ...string) Source { return excluded(fields) }

func (s included) resolve(all []string) ([]string, error) {
	known := toSet(all)
	out := make([]string, 0, len(s))
	seen := make(map[string]bool, len(s))
	for _, f := range s {
		if f == "" {
			return nil, errors.New("empty field name in include list")
		}
		if len(all) > 0 && !known[f] {
			return nil, fmt.Errorf("included field %q is not declared", f)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}

func (s excluded) resolve(all []string) ([]string, error) {
	skip := toSet(s)
	out := make([]string, 0, len(all))
	for _, f := range all {
		if !skip[f] {
			out = append(out, f)
		}
	}
	return out, nil
}

// Declaration is the field metadata a declaring entity exposes.
type Declaration struct {
	// Name identifies the entity; used as the cache key and in errors.
	Name string
	// Fields is the entity's full field set.
	Fields []string
	// Source is the include or exclude list. Nil means misconfigured.
	Source Source
	// Aliases maps public parameter names to internal field names.
	Aliases map[string]string
	// Autocomplete is the field that accepts tokenized partial matches.
	Autocomplete string
}

// Declarer is implemented by anything that declares filterable fields.
type Declarer interface {
	Declaration() Declaration
}

// Schema is the resolved, immutable set of filterable fields.
type Schema struct {
	name         string
	fields       []string
	members      map[string]bool
	aliases      map[string]string
	autocomplete string
}

// Resolve builds a Schema from the entity's declaration.
// Returns a *domain.ConfigurationError when the entity declares neither
// an include list nor an exclude list.
func Resolve(d Declarer) (Schema, error) {
	if d == nil {
		return Schema{}, domain.NewConfigurationError("", "declaring entity is nil")
	}
	decl := d.Declaration()
	if decl.Source == nil {
		return Schema{}, domain.NewConfigurationError(decl.Name,
			"declaring entity must define either an include or an exclude field list")
	}

	fields, err := decl.Source.resolve(decl.Fields)
	if err != nil {
		return Schema{}, domain.NewConfigurationError(decl.Name, "%s", err.Error())
	}

	members := toSet(fields)
	if decl.Autocomplete != "" && !members[decl.Autocomplete] {
		return Schema{}, domain.NewConfigurationError(decl.Name,
			"autocomplete field %q is not filterable", decl.Autocomplete)
	}

	aliases := make(map[string]string, len(decl.Aliases))
	for public, internal := range decl.Aliases {
		if public == "" || internal == "" {
			return Schema{}, domain.NewConfigurationError(decl.Name, "alias %q -> %q is empty", public, internal)
		}
		aliases[public] = internal
	}

	return Schema{
		name:         decl.Name,
		fields:       fields,
		members:      members,
		aliases:      aliases,
		autocomplete: decl.Autocomplete,
	}, nil
}

// Name returns the declaring entity name.
func (s Schema) Name() string { return s.name }

// Fields returns the filterable fields in declaration order.
func (s Schema) Fields() []string { return slices.Clone(s.fields) }

// Has reports whether field is filterable.
func (s Schema) Has(field string) bool { return s.members[field] }

// Autocomplete returns the declared autocomplete field, if any.
func (s Schema) Autocomplete() string { return s.autocomplete }

// ResolveAlias maps a public parameter name to its internal field name.
// Names without an alias are returned unchanged.
func (s Schema) ResolveAlias(public string) string {
	return ResolveAlias(public, s.aliases)
}

// ResolveAlias maps public through aliases, falling back to public itself.
func ResolveAlias(public string, aliases map[string]string) string {
	if internal, ok := aliases[public]; ok {
		return internal
	}
	return public
}

func toSet(fields []string) map[string]bool {
	m := make(map[string]bool, len(fields))
	for _, f := range fields {
		m[f] = true
	}
	return m
}
