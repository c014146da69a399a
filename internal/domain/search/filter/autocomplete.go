package filter

import (
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
)

// Autocomplete AND-combines one partial match per whitespace token of raw.
// Blank input yields the identity.
func Autocomplete(raw, field string) query.Expression {
	tokens := query.Tokenize(raw)
	leaves := make([]query.Expression, 0, len(tokens))
	for _, tok := range tokens {
		leaf, err := query.NewPartial(field, tok)
		if err != nil {
			continue
		}
		leaves = append(leaves, leaf)
	}
	return query.And(leaves...)
}
