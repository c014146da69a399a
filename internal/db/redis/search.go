package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
)

// DefaultLimit matches the FT.SEARCH default page size.
const DefaultLimit = 10

// Search renders q.Query to RediSearch syntax and runs it via FT.SEARCH.
func (s *Store) Search(ctx context.Context, q *db.SearchQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	queryStr, err := Render(q.Query, q.FieldTypes)
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	args := []string{q.IndexName, queryStr, "LIMIT", "0", strconv.Itoa(limit)}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	args = append(args, "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isMissingIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseListResult(raw)
}

// --- Result parsing ---

func parseListResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, min(int(total), len(raw)/2))
	// 2-stride: [total, key1, fields1, key2, fields2, ...]
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

// --- Query rendering ---

// Render translates an expression into an FT.SEARCH (DIALECT 2) query string.
// types tells how each referenced field is indexed; unknown fields and
// predicates the field type cannot serve fail with db.ErrInvalidQuery.
func Render(e query.Expression, types map[string]db.IndexFieldType) (string, error) {
	switch e.Kind() {
	case query.KindAll:
		return "*", nil
	case query.KindTerm:
		return renderTerm(e, types)
	case query.KindWithin:
		return renderWithin(e, types)
	case query.KindAnd:
		return renderGroup(e, types, " ")
	case query.KindOr:
		s, err := renderGroup(e, types, " | ")
		if err != nil {
			return "", err
		}
		return "(" + s + ")", nil
	}
	return "", fmt.Errorf("%w: unsupported expression kind %s", db.ErrInvalidQuery, e.Kind())
}

func renderGroup(e query.Expression, types map[string]db.IndexFieldType, sep string) (string, error) {
	children := e.Children()
	parts := make([]string, 0, len(children))
	for _, c := range children {
		s, err := Render(c, types)
		if err != nil {
			return "", err
		}
		// OR renders its own parentheses.
		if c.Kind() == query.KindAnd {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, sep), nil
}

func fieldType(field string, types map[string]db.IndexFieldType) (db.IndexFieldType, error) {
	t, ok := types[field]
	if !ok {
		return 0, fmt.Errorf("%w: field %q is not indexed", db.ErrInvalidQuery, field)
	}
	return t, nil
}

func renderTerm(e query.Expression, types map[string]db.IndexFieldType) (string, error) {
	t, err := fieldType(e.Field(), types)
	if err != nil {
		return "", err
	}
	partial := e.Match() == query.Partial

	switch t {
	case db.IndexFieldTag:
		v := tagEscaper.Replace(e.Term())
		if partial {
			v += "*"
		}
		return fmt.Sprintf("@%s:{%s}", e.Field(), v), nil

	case db.IndexFieldText:
		if partial {
			return fmt.Sprintf("@%s:%s*", e.Field(), escapeQuery(e.Term())), nil
		}
		return fmt.Sprintf("@%s:\"%s\"", e.Field(), phraseEscaper.Replace(e.Term())), nil

	case db.IndexFieldNumeric:
		if partial {
			return "", fmt.Errorf("%w: partial match on numeric field %q", db.ErrInvalidQuery, e.Field())
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(e.Term()), 64)
		if err != nil {
			return "", fmt.Errorf("%w: field %q expects a number, got %q", db.ErrInvalidQuery, e.Field(), e.Term())
		}
		v := formatFloat(n)
		return fmt.Sprintf("@%s:[%s %s]", e.Field(), v, v), nil
	}

	return "", fmt.Errorf("%w: term match on %s field %q", db.ErrInvalidQuery, t, e.Field())
}

func renderWithin(e query.Expression, types map[string]db.IndexFieldType) (string, error) {
	t, err := fieldType(e.Field(), types)
	if err != nil {
		return "", err
	}
	if t != db.IndexFieldGeo {
		return "", fmt.Errorf("%w: radius filter on %s field %q", db.ErrInvalidQuery, t, e.Field())
	}
	o, r := e.Origin(), e.Radius()
	return fmt.Sprintf("@%s:[%s %s %s %s]",
		e.Field(), formatFloat(o.Lon), formatFloat(o.Lat), formatFloat(r.Value), r.Unit), nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// --- Query helpers ---

var tagEscaper = strings.NewReplacer(
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"|", "\\|",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"\\", "\\\\",
	" ", "\\ ",
)

// phraseEscaper protects the quote and escape characters inside "..." phrases.
var phraseEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
	`,`, `\,`,
	`.`, `\.`,
	`/`, `\/`,
	` `, `\ `,
)
