package query

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kailas-cloud/sieve/internal/domain/geo"
)

// Kind is the node type of an Expression.
type Kind int

const (
	// KindAll matches every document (identity).
	KindAll Kind = iota
	// KindAnd requires all children to match.
	KindAnd
	// KindOr requires at least one child to match.
	KindOr
	// KindTerm is a field/term leaf.
	KindTerm
	// KindWithin is a distance-from-origin leaf.
	KindWithin
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindAnd:
		return "and"
	case KindOr:
		return "or"
	case KindTerm:
		return "term"
	case KindWithin:
		return "within"
	default:
		return "unknown"
	}
}

// Match selects how a term leaf compares against a field.
type Match int

const (
	// Exact matches the whole term.
	Exact Match = iota
	// Partial matches fields containing a word that starts with the term.
	Partial
)

// Expression is an immutable boolean query tree handed to a search backend.
// The zero value is the identity expression.
type Expression struct {
	kind     Kind
	children []Expression
	field    string
	term     string
	match    Match
	origin   geo.Point
	radius   geo.Radius
}

// All returns the identity expression.
func All() Expression { return Expression{} }

// NewTerm creates an exact-match leaf.
func NewTerm(field, term string) (Expression, error) {
	return newTerm(field, term, Exact)
}

// NewPartial creates a partial-match leaf.
func NewPartial(field, term string) (Expression, error) {
	return newTerm(field, term, Partial)
}

func newTerm(field, term string, m Match) (Expression, error) {
	if field == "" {
		return Expression{}, fmt.Errorf("field is required")
	}
	if term == "" {
		return Expression{}, fmt.Errorf("term is required for field %q", field)
	}
	return Expression{kind: KindTerm, field: field, term: term, match: m}, nil
}

// NewWithin creates a "distance from origin <= radius" leaf.
func NewWithin(field string, origin geo.Point, radius geo.Radius) (Expression, error) {
	if field == "" {
		return Expression{}, fmt.Errorf("field is required")
	}
	if !geo.ValidateCoordinates(origin.Lat, origin.Lon) {
		return Expression{}, fmt.Errorf("origin out of range: %s", origin)
	}
	if !radius.Unit.IsValid() {
		return Expression{}, fmt.Errorf("unsupported distance unit %q", radius.Unit)
	}
	if radius.Value < 0 {
		return Expression{}, fmt.Errorf("radius must not be negative")
	}
	return Expression{kind: KindWithin, field: field, origin: origin, radius: radius}, nil
}

// And combines children so that all must match.
// Identity children are dropped; nested ANDs are flattened.
func And(children ...Expression) Expression {
	return combine(KindAnd, children)
}

// Or combines children so that at least one must match.
// An identity child makes the whole group the identity.
func Or(children ...Expression) Expression {
	for _, c := range children {
		if c.kind == KindAll {
			return All()
		}
	}
	return combine(KindOr, children)
}

func combine(kind Kind, children []Expression) Expression {
	out := make([]Expression, 0, len(children))
	for _, c := range children {
		switch c.kind {
		case KindAll:
			continue
		case kind:
			out = append(out, c.children...)
		default:
			out = append(out, c)
		}
	}
	switch len(out) {
	case 0:
		return All()
	case 1:
		return out[0]
	}
	return Expression{kind: kind, children: out}
}

// Kind returns the node type.
func (e Expression) Kind() Kind { return e.kind }

// IsAll reports whether the expression matches everything.
func (e Expression) IsAll() bool { return e.kind == KindAll }

// Children returns the operands of an AND/OR node.
func (e Expression) Children() []Expression { return e.children }

// Field returns the target field of a leaf.
func (e Expression) Field() string { return e.field }

// Term returns the term of a KindTerm leaf.
func (e Expression) Term() string { return e.term }

// Match returns the match kind of a KindTerm leaf.
func (e Expression) Match() Match { return e.match }

// Origin returns the origin of a KindWithin leaf.
func (e Expression) Origin() geo.Point { return e.origin }

// Radius returns the radius of a KindWithin leaf.
func (e Expression) Radius() geo.Radius { return e.radius }

// Leaves returns all leaf nodes in depth-first order.
func (e Expression) Leaves() []Expression {
	var out []Expression
	e.walk(func(leaf Expression) { out = append(out, leaf) })
	return out
}

// Fields returns the distinct fields referenced by leaves, in first-seen order.
func (e Expression) Fields() []string {
	seen := make(map[string]bool)
	var out []string
	e.walk(func(leaf Expression) {
		if !seen[leaf.field] {
			seen[leaf.field] = true
			out = append(out, leaf.field)
		}
	})
	return out
}

func (e Expression) walk(fn func(Expression)) {
	switch e.kind {
	case KindAnd, KindOr:
		for _, c := range e.children {
			c.walk(fn)
		}
	case KindTerm, KindWithin:
		fn(e)
	}
}

// String renders the canonical engine-agnostic form, e.g.
// (zip_code:0289 OR zip_code:0204) AND address:"Andersenhagen 8".
func (e Expression) String() string {
	switch e.kind {
	case KindAll:
		return "*"
	case KindTerm:
		s := e.field + ":" + quoteTerm(e.term)
		if e.match == Partial {
			s += "*"
		}
		return s
	case KindWithin:
		return fmt.Sprintf("%s:within(%s,%s)", e.field, e.origin, e.radius)
	case KindAnd:
		return e.join(" AND ")
	case KindOr:
		return e.join(" OR ")
	}
	return ""
}

func (e Expression) join(sep string) string {
	parts := make([]string, len(e.children))
	for i, c := range e.children {
		s := c.String()
		if c.kind == KindAnd || c.kind == KindOr {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, sep)
}

func quoteTerm(term string) string {
	if strings.IndexFunc(term, needsQuote) < 0 {
		return term
	}
	return strconv.Quote(term)
}

func needsQuote(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(`"():*\`, r)
}
