package query

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/sieve/internal/domain/geo"
)

func mustTerm(t *testing.T, field, term string) Expression {
	t.Helper()
	e, err := NewTerm(field, term)
	if err != nil {
		t.Fatalf("NewTerm: %v", err)
	}
	return e
}

func mustPartial(t *testing.T, field, term string) Expression {
	t.Helper()
	e, err := NewPartial(field, term)
	if err != nil {
		t.Fatalf("NewPartial: %v", err)
	}
	return e
}

func TestAll_ZeroValue(t *testing.T) {
	var e Expression
	if !e.IsAll() {
		t.Fatal("zero value must be the identity")
	}
	if e.String() != "*" {
		t.Errorf("String() = %q, want *", e.String())
	}
	if len(e.Leaves()) != 0 {
		t.Error("identity has no leaves")
	}
}

func TestNewTerm_Validation(t *testing.T) {
	if _, err := NewTerm("", "x"); err == nil {
		t.Error("expected error for empty field")
	}
	_, err := NewTerm("zip_code", "")
	if err == nil {
		t.Fatal("expected error for empty term")
	}
	if !strings.Contains(err.Error(), "zip_code") {
		t.Errorf("error = %q", err)
	}
}

func TestNewWithin_Validation(t *testing.T) {
	origin := geo.Point{Lat: 59.923396, Lon: 10.739370}
	tests := []struct {
		name   string
		field  string
		origin geo.Point
		radius geo.Radius
	}{
		{"empty field", "", origin, geo.Radius{Value: 1, Unit: geo.Kilometers}},
		{"bad unit", "coordinates", origin, geo.Radius{Value: 1, Unit: "yd"}},
		{"negative", "coordinates", origin, geo.Radius{Value: -1, Unit: geo.Kilometers}},
		{"origin out of range", "coordinates", geo.Point{Lat: 100}, geo.Radius{Value: 1, Unit: geo.Meters}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWithin(tt.field, tt.origin, tt.radius); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOr_SingleChildCollapses(t *testing.T) {
	leaf := mustTerm(t, "address", "Gundersenholtet 68")
	e := Or(leaf)
	if e.Kind() != KindTerm {
		t.Fatalf("kind = %s, want term", e.Kind())
	}
	if e.String() != `address:"Gundersenholtet 68"` {
		t.Errorf("String() = %q", e.String())
	}
}

func TestAnd_DropsIdentity(t *testing.T) {
	leaf := mustTerm(t, "zip_code", "0289")
	e := And(All(), leaf, All())
	if e.Kind() != KindTerm {
		t.Fatalf("kind = %s, want term", e.Kind())
	}
	if !And().IsAll() || !And(All(), All()).IsAll() {
		t.Error("AND of identities must be the identity")
	}
}

func TestOr_IdentityAbsorbs(t *testing.T) {
	e := Or(mustTerm(t, "zip_code", "0289"), All())
	if !e.IsAll() {
		t.Fatalf("OR with identity = %s, want *", e)
	}
	if !Or().IsAll() {
		t.Error("empty OR must be the identity")
	}
}

func TestAnd_Flattens(t *testing.T) {
	a := mustTerm(t, "f", "a")
	b := mustTerm(t, "f", "b")
	c := mustTerm(t, "g", "c")
	e := And(And(a, b), c)
	if e.Kind() != KindAnd {
		t.Fatalf("kind = %s", e.Kind())
	}
	if len(e.Children()) != 3 {
		t.Fatalf("children = %d, want 3", len(e.Children()))
	}
}

func TestString_OrGroupsInsideAnd(t *testing.T) {
	e := And(
		Or(mustTerm(t, "zip_code", "0289"), mustTerm(t, "zip_code", "0204")),
		Or(mustTerm(t, "address", "Andersenhagen 8"), mustTerm(t, "address", "Fredriksenskogen 04")),
	)
	want := `(zip_code:0289 OR zip_code:0204) AND (address:"Andersenhagen 8" OR address:"Fredriksenskogen 04")`
	if e.String() != want {
		t.Errorf("String() =\n%s\nwant\n%s", e.String(), want)
	}
}

func TestString_Partial(t *testing.T) {
	e := And(mustPartial(t, "autocomplete", "waldemar"), mustPartial(t, "autocomplete", "gate"))
	if e.String() != "autocomplete:waldemar* AND autocomplete:gate*" {
		t.Errorf("String() = %q", e.String())
	}
}

func TestString_Within(t *testing.T) {
	e, err := NewWithin("coordinates",
		geo.Point{Lat: 59.923396, Lon: 10.739370},
		geo.Radius{Value: 1, Unit: geo.Kilometers})
	if err != nil {
		t.Fatalf("NewWithin: %v", err)
	}
	if e.String() != "coordinates:within(59.923396,10.73937,1km)" {
		t.Errorf("String() = %q", e.String())
	}
	if e.Radius().Meters() != 1000 {
		t.Errorf("radius = %g m", e.Radius().Meters())
	}
}

func TestString_QuotesSyntax(t *testing.T) {
	tests := []struct {
		term string
		want string
	}{
		{"plain", "f:plain"},
		{"two words", `f:"two words"`},
		{`say "hi"`, `f:"say \"hi\""`},
		{"a:b", `f:"a:b"`},
		{"Løkka", "f:Løkka"},
	}
	for _, tt := range tests {
		if got := mustTerm(t, "f", tt.term).String(); got != tt.want {
			t.Errorf("term %q rendered %q, want %q", tt.term, got, tt.want)
		}
	}
}

func TestFieldsAndLeaves(t *testing.T) {
	e := And(
		Or(mustTerm(t, "zip_code", "0289"), mustTerm(t, "zip_code", "0204")),
		mustTerm(t, "address", "x"),
	)
	fields := e.Fields()
	if len(fields) != 2 || fields[0] != "zip_code" || fields[1] != "address" {
		t.Errorf("Fields() = %v", fields)
	}
	if len(e.Leaves()) != 3 {
		t.Errorf("Leaves() = %d, want 3", len(e.Leaves()))
	}
}
