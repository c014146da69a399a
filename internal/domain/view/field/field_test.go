package field

import (
	"strings"
	"testing"
)

func TestNew_Valid(t *testing.T) {
	tests := []struct {
		name string
		ft   Type
	}{
		{"address", Text},
		{"zip_code", Tag},
		{"population", Numeric},
		{"coordinates", Geo},
		{strings.Repeat("x", 64), Tag},
	}

	for _, tt := range tests {
		f, err := New(tt.name, tt.ft)
		if err != nil {
			t.Errorf("New(%q, %q) unexpected error: %v", tt.name, tt.ft, err)
			continue
		}
		if f.Name() != tt.name {
			t.Errorf("Name() = %q, want %q", f.Name(), tt.name)
		}
		if f.FieldType() != tt.ft {
			t.Errorf("FieldType() = %q, want %q", f.FieldType(), tt.ft)
		}
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		ft      Type
		wantErr string
	}{
		{"empty name", "", Tag, "required"},
		{"too long", strings.Repeat("x", 65), Tag, "too long"},
		{"reserved id", "id", Tag, "reserved"},
		{"reserved key", "__key", Text, "reserved"},
		{"bad type", "address", "vector", "invalid field type"},
		{"empty type", "address", "", "invalid field type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.field, tt.ft)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err, tt.wantErr)
			}
		})
	}
}
