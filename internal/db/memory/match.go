package memory

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain/geo"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
)

// Check reports whether every leaf of e can be evaluated against the given
// field types. It fails with db.ErrInvalidQuery under the same conditions as
// the Redis renderer.
func Check(e query.Expression, types map[string]db.IndexFieldType) error {
	for _, leaf := range e.Leaves() {
		t, ok := types[leaf.Field()]
		if !ok {
			return fmt.Errorf("%w: field %q is not indexed", db.ErrInvalidQuery, leaf.Field())
		}
		switch leaf.Kind() {
		case query.KindWithin:
			if t != db.IndexFieldGeo {
				return fmt.Errorf("%w: radius filter on %s field %q", db.ErrInvalidQuery, t, leaf.Field())
			}
		case query.KindTerm:
			switch t {
			case db.IndexFieldTag, db.IndexFieldText:
			case db.IndexFieldNumeric:
				if leaf.Match() == query.Partial {
					return fmt.Errorf("%w: partial match on numeric field %q", db.ErrInvalidQuery, leaf.Field())
				}
				if _, err := strconv.ParseFloat(strings.TrimSpace(leaf.Term()), 64); err != nil {
					return fmt.Errorf("%w: field %q expects a number, got %q", db.ErrInvalidQuery, leaf.Field(), leaf.Term())
				}
			default:
				return fmt.Errorf("%w: term match on %s field %q", db.ErrInvalidQuery, t, leaf.Field())
			}
		}
	}
	return nil
}

// Match evaluates e against one document. Call Check first: leaves the field
// types cannot serve never match.
//
// Tag terms compare case-insensitively against each separator-delimited tag.
// Exact text terms match as a case-insensitive phrase over word tokens. Partial
// terms match any word (or tag) starting with the term. Radius filters compare
// the haversine distance to a "lon,lat" field value.
func Match(e query.Expression, doc map[string]string, types map[string]db.IndexFieldType) bool {
	switch e.Kind() {
	case query.KindAll:
		return true
	case query.KindAnd:
		for _, c := range e.Children() {
			if !Match(c, doc, types) {
				return false
			}
		}
		return true
	case query.KindOr:
		for _, c := range e.Children() {
			if Match(c, doc, types) {
				return true
			}
		}
		return false
	case query.KindTerm:
		v, ok := doc[e.Field()]
		if !ok {
			return false
		}
		return matchTerm(e, v, types[e.Field()])
	case query.KindWithin:
		v, ok := doc[e.Field()]
		if !ok {
			return false
		}
		p, err := geo.ParseLonLat(v)
		if err != nil {
			return false
		}
		return geo.Distance(e.Origin(), p) <= e.Radius().Meters()
	}
	return false
}

func matchTerm(e query.Expression, value string, t db.IndexFieldType) bool {
	term := e.Term()
	partial := e.Match() == query.Partial

	switch t {
	case db.IndexFieldTag:
		for _, tag := range strings.Split(value, ",") {
			tag = strings.TrimSpace(tag)
			if partial && hasPrefixFold(tag, term) || !partial && strings.EqualFold(tag, term) {
				return true
			}
		}
		return false

	case db.IndexFieldText:
		doc := words(value)
		if partial {
			prefix := strings.ToLower(term)
			for _, w := range doc {
				if strings.HasPrefix(w, prefix) {
					return true
				}
			}
			return false
		}
		return containsPhrase(doc, words(term))

	case db.IndexFieldNumeric:
		want, err := strconv.ParseFloat(strings.TrimSpace(term), 64)
		if err != nil {
			return false
		}
		got, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && got == want
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}

// words lowercases s and splits it on anything that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func containsPhrase(doc, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(doc) {
		return false
	}
	for i := 0; i+len(phrase) <= len(doc); i++ {
		match := true
		for j, w := range phrase {
			if doc[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
