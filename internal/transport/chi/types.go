package chi

import (
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/result"
	domview "github.com/kailas-cloud/sieve/internal/domain/view"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// Error codes returned by the API.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeViewNotFound     ErrorCode = "view_not_found"
	CodeParseError       ErrorCode = "parse_error"
	CodeInvalidQuery     ErrorCode = "invalid_query"
	CodeMisconfigured    ErrorCode = "improperly_configured"
	CodeIndexUnavailable ErrorCode = "index_unavailable"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Param   string    `json:"param,omitempty"`
}

// FieldResponse describes one view field.
type FieldResponse struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ViewResponse describes a view.
type ViewResponse struct {
	Name       string          `json:"name"`
	Index      string          `json:"index"`
	Fields     []FieldResponse `json:"fields"`
	Strategies []string        `json:"strategies,omitempty"`
	Limit      int             `json:"limit,omitempty"`
}

// ViewListResponse lists the served views.
type ViewListResponse struct {
	Items []ViewResponse `json:"items"`
}

// ExpressionResponse is the JSON tree of a query expression.
type ExpressionResponse struct {
	Kind     string               `json:"kind"`
	Field    string               `json:"field,omitempty"`
	Term     string               `json:"term,omitempty"`
	Partial  bool                 `json:"partial,omitempty"`
	Origin   *PointResponse       `json:"origin,omitempty"`
	Radius   string               `json:"radius,omitempty"`
	Children []ExpressionResponse `json:"children,omitempty"`
}

// PointResponse is a geographic coordinate.
type PointResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// QueryResponse is the body of the explain endpoint.
type QueryResponse struct {
	View       string             `json:"view"`
	Query      string             `json:"query"`
	Expression ExpressionResponse `json:"expression"`
}

// SearchItem is one hit.
type SearchItem struct {
	ID     string            `json:"id"`
	Fields map[string]string `json:"fields"`
}

// SearchResponse is the body of the search endpoint.
type SearchResponse struct {
	View  string       `json:"view"`
	Query string       `json:"query"`
	Total int          `json:"total"`
	Limit int          `json:"limit"`
	Items []SearchItem `json:"items"`
}

// HealthResponse reports service health.
type HealthResponse struct {
	Status         string            `json:"status"`
	Version        string            `json:"version"`
	Checks         map[string]string `json:"checks"`
	Views          int               `json:"views"`
	MissingIndexes []string          `json:"missing_indexes,omitempty"`
}

func viewToResponse(v domview.View) ViewResponse {
	fields := make([]FieldResponse, len(v.Fields()))
	for i, f := range v.Fields() {
		fields[i] = FieldResponse{Name: f.Name(), Type: string(f.FieldType())}
	}
	var strategies []string
	for _, s := range v.Strategies() {
		strategies = append(strategies, string(s))
	}
	return ViewResponse{
		Name:       v.Name(),
		Index:      v.Index(),
		Fields:     fields,
		Strategies: strategies,
		Limit:      v.Limit(),
	}
}

func expressionToResponse(e query.Expression) ExpressionResponse {
	out := ExpressionResponse{Kind: e.Kind().String()}
	switch e.Kind() {
	case query.KindTerm:
		out.Field = e.Field()
		out.Term = e.Term()
		out.Partial = e.Match() == query.Partial
	case query.KindWithin:
		out.Field = e.Field()
		o := e.Origin()
		out.Origin = &PointResponse{Lat: o.Lat, Lon: o.Lon}
		out.Radius = e.Radius().String()
	case query.KindAnd, query.KindOr:
		out.Children = make([]ExpressionResponse, len(e.Children()))
		for i, c := range e.Children() {
			out.Children[i] = expressionToResponse(c)
		}
	}
	return out
}

func resultsToItems(results []result.Result) []SearchItem {
	items := make([]SearchItem, len(results))
	for i, r := range results {
		items[i] = SearchItem{ID: r.ID(), Fields: r.Fields()}
	}
	return items
}
