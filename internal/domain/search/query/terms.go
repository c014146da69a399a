package query

import "strings"

// DefaultSeparator splits multi-value filter parameters.
const DefaultSeparator = ","

// Split splits raw on the literal separator and drops empty terms.
// Terms are not trimmed. An empty sep means DefaultSeparator.
func Split(raw, sep string) []string {
	if raw == "" {
		return nil
	}
	if sep == "" {
		sep = DefaultSeparator
	}
	parts := strings.Split(raw, sep)
	terms := parts[:0]
	for _, p := range parts {
		if p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}

// Tokenize splits raw on runs of whitespace.
func Tokenize(raw string) []string {
	return strings.Fields(raw)
}
