package filter

import (
	"context"
	"testing"

	"github.com/kailas-cloud/sieve/internal/db"
	"github.com/kailas-cloud/sieve/internal/db/memory"
	"github.com/kailas-cloud/sieve/internal/domain/search/query"
	"github.com/kailas-cloud/sieve/internal/domain/search/schema"
)

// demoStore returns a memory store holding the demo locations.
func demoStore(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	if err := memory.SeedDemo(context.Background(), s); err != nil {
		t.Fatalf("SeedDemo: %v", err)
	}
	return s
}

func count(t *testing.T, s *memory.Store, e query.Expression) int {
	t.Helper()
	res, err := s.Search(context.Background(), &db.SearchQuery{
		IndexName: memory.DemoIndex,
		Query:     e,
		Limit:     1000,
	})
	if err != nil {
		t.Fatalf("Search(%s): %v", e, err)
	}
	return res.Total
}

func build(t *testing.T, b Builder, p Params) query.Expression {
	t.Helper()
	e, err := b.Build(p)
	if err != nil {
		t.Fatalf("Build(%v): %v", p, err)
	}
	return e
}

var demoSize = len(memory.DemoDocuments())

func TestProperties_Boolean(t *testing.T) {
	s := demoStore(t)
	b, err := New(addressSchema(t), DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		name   string
		params Params
		want   int
	}{
		{"no filters", Params{}, demoSize},
		{"single field", Params{"zip_code": "0289"}, 3},
		{"aliased field", Params{"q": "Gundersenholtet 68"}, 1},
		{"or within field", Params{"zip_code": "0289,0204"}, 5},
		{"and across fields", Params{"zip_code": "0289", "address": "Andersenhagen 8"}, 1},
		{"or within and across", Params{
			"zip_code": "0289,0204",
			"address":  "Andersenhagen 8,Fredriksenskogen 04",
		}, 2},
		{"field outside schema", Params{"city": "Oslo"}, demoSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := count(t, s, build(t, b, tt.params)); got != tt.want {
				t.Errorf("count = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestProperties_CustomSeparator(t *testing.T) {
	s := demoStore(t)
	b, err := New(addressSchema(t), DefaultOptions().WithSeparator(";"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := count(t, s, build(t, b, Params{"zip_code": "0289;0204"})); got != 5 {
		t.Errorf("count = %d, want 5", got)
	}
}

func TestProperties_OrWidensAndNarrows(t *testing.T) {
	s := demoStore(t)
	sc := addressSchema(t)

	one := count(t, s, Boolean(Params{"zip_code": "0289"}, sc, ","))
	two := count(t, s, Boolean(Params{"zip_code": "0289,0204"}, sc, ","))
	three := count(t, s, Boolean(Params{"zip_code": "0289,0204,0150"}, sc, ","))
	if one > two || two > three {
		t.Errorf("adding OR terms must not shrink the result: %d, %d, %d", one, two, three)
	}

	and := count(t, s, Boolean(Params{"zip_code": "0289,0204", "address": "Andersenhagen 8"}, sc, ","))
	if and > two {
		t.Errorf("adding an AND field must not grow the result: %d > %d", and, two)
	}
}

func TestProperties_ExcludedFieldIgnored(t *testing.T) {
	s := demoStore(t)
	sc := mustSchema(t, schema.Declaration{
		Name:   "locations",
		Fields: []string{"text", "address", "city", "zip_code", "autocomplete", "coordinates"},
		Source: schema.Exclude("city"),
	})
	b, err := New(sc, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := count(t, s, build(t, b, Params{"city": "Oslo"})); got != demoSize {
		t.Errorf("count = %d, want full set %d", got, demoSize)
	}
}

func TestProperties_Autocomplete(t *testing.T) {
	s := demoStore(t)
	b, err := New(fullSchema(t), DefaultOptions(), StrategyAutocomplete)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		params Params
		want   int
	}{
		{Params{"autocomplete": "gate"}, 3},
		{Params{"autocomplete": "waldemar gate"}, 2},
		{Params{"q": "waldemar gate"}, 2},
		{Params{"autocomplete": "   "}, demoSize},
	}
	for _, tt := range tests {
		if got := count(t, s, build(t, b, tt.params)); got != tt.want {
			t.Errorf("%v: count = %d, want %d", tt.params, got, tt.want)
		}
	}
}

func TestProperties_Geo(t *testing.T) {
	s := demoStore(t)
	b, err := New(fullSchema(t), DefaultOptions(), StrategyGeo)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := count(t, s, build(t, b, Params{"from": "59.923396,10.739370", "km": "1"})); got != 4 {
		t.Errorf("within 1km: count = %d, want 4", got)
	}
	if got := count(t, s, build(t, b, Params{"from": "59.923396,10.739370", "m": "1000"})); got != 4 {
		t.Errorf("within 1000m: count = %d, want 4", got)
	}
	if got := count(t, s, build(t, b, Params{"from": "59.923396,10.739370"})); got != demoSize {
		t.Errorf("no unit: count = %d, want full set %d", got, demoSize)
	}
}
