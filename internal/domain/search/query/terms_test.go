package query

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		sep  string
		want []string
	}{
		{"single", "0289", ",", []string{"0289"}},
		{"two", "0289,0204", ",", []string{"0289", "0204"}},
		{"three", "a,b,c", ",", []string{"a", "b", "c"}},
		{"default separator", "0289,0204", "", []string{"0289", "0204"}},
		{"custom separator", "0289;0204", ";", []string{"0289", "0204"}},
		{"empty terms dropped", ",a,,b,", ",", []string{"a", "b"}},
		{"no trimming", " a , b", ",", []string{" a ", " b"}},
		{"multi char separator", "a||b", "||", []string{"a", "b"}},
		{"keeps inner spaces", "Andersenhagen 8,Fredriksenskogen 04", ",",
			[]string{"Andersenhagen 8", "Fredriksenskogen 04"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.raw, tt.sep)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split(%q, %q) = %q, want %q", tt.raw, tt.sep, got, tt.want)
			}
		})
	}
}

func TestSplit_Empty(t *testing.T) {
	if got := Split("", ","); len(got) != 0 {
		t.Errorf("Split(\"\") = %q, want empty", got)
	}
	if got := Split(",,,", ","); len(got) != 0 {
		t.Errorf("Split(\",,,\") = %q, want empty", got)
	}
}

func TestSplit_SeparatorIsLiteral(t *testing.T) {
	raw := "a,b;c"
	comma := Split(raw, ",")
	semi := Split(raw, ";")
	if len(comma) != 2 || len(semi) != 2 {
		t.Fatalf("comma=%q semi=%q", comma, semi)
	}
	if comma[1] != "b;c" || semi[0] != "a,b" {
		t.Errorf("comma=%q semi=%q", comma, semi)
	}

	raw = "a,b,c;d"
	if len(Split(raw, ",")) == len(Split(raw, ";")) {
		t.Error("changing the separator must change the term count")
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"waldemar gate", []string{"waldemar", "gate"}},
		{"  waldemar \t\n gate  ", []string{"waldemar", "gate"}},
		{"gate", []string{"gate"}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		got := Tokenize(tt.raw)
		if len(got) != len(tt.want) {
			t.Errorf("Tokenize(%q) = %q, want %q", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("Tokenize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		}
	}
}
