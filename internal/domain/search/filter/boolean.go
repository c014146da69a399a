package filter

import (
	"sort"

	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
)

// Boolean builds the field filter: terms of one field are OR-ed, fields are AND-ed.
// Parameters that resolve outside the schema are ignored. Fields appear in
// schema order; public names aliasing the same field share one OR-group.
func Boolean(params Params, sc schema.Schema, sep string) query.Expression {
	return booleanExcept(params, sc, sep, "")
}

func booleanExcept(params Params, sc schema.Schema, sep, skip string) query.Expression {
	terms := make(map[string][]string)
	for _, public := range sortedKeys(params) {
		field := sc.ResolveAlias(public)
		if field == skip || !sc.Has(field) {
			continue
		}
		terms[field] = append(terms[field], query.Split(params[public], sep)...)
	}

	groups := make([]query.Expression, 0, len(terms))
	for _, field := range sc.Fields() {
		leaves := make([]query.Expression, 0, len(terms[field]))
		for _, t := range terms[field] {
			leaf, err := query.NewTerm(field, t)
			if err != nil {
				continue
			}
			leaves = append(leaves, leaf)
		}
		if len(leaves) > 0 {
			groups = append(groups, query.Or(leaves...))
		}
	}
	return query.And(groups...)
}

func sortedKeys(params Params) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
