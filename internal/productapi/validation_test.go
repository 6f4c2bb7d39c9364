package productapi

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "12.50", want: "12.5"},
		{in: " 3 ", want: "3"},
		{in: "$4.99", want: "4.99"},
		{in: "0", want: "0"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1,50", wantErr: true},
		{in: "-1", want: "-1"},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.wantErr {
			if !IsValidationError(err) {
				t.Errorf("ParsePrice(%q) error = %v, want validation error", tt.in, err)
			}
			if ValidationField(err) != "price" {
				t.Errorf("ParsePrice(%q) field = %q, want price", tt.in, ValidationField(err))
			}
			continue
		}
		if err != nil {
			t.Errorf("ParsePrice(%q) unexpected error = %v", tt.in, err)
			continue
		}
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("ParsePrice(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestParseDraft_KeepsTextAsTyped(t *testing.T) {
	draft, err := ParseDraft("  Lamp ", "warm light\n", " 19.90 ")
	if err != nil {
		t.Fatalf("ParseDraft() error = %v", err)
	}
	want := Draft{Name: "  Lamp ", Description: "warm light\n", Price: decimal.RequireFromString("19.9")}
	if !draft.Equal(want) {
		t.Errorf("ParseDraft() = %+v, want %+v", draft, want)
	}
}

func TestParseDraft_FirstFailingField(t *testing.T) {
	tests := []struct {
		name, description, price string
		wantField                string
	}{
		{"", "", "", "name"},
		{"   ", "desc", "1", "name"},
		{strings.Repeat("n", MaxNameLength+1), "", "1", ""},
		{"Lamp", strings.Repeat("d", MaxDescriptionLength+1), "1", ""},
		{"Lamp", "", "-5", ""},
		{"Lamp", "", "", "price"},
		{"Lamp", "", "ten", "price"},
	}

	for _, tt := range tests {
		_, err := ParseDraft(tt.name, tt.description, tt.price)
		if got := ValidationField(err); got != tt.wantField {
			t.Errorf("ParseDraft(%.10q, %.10q, %q) field = %q, want %q", tt.name, tt.description, tt.price, got, tt.wantField)
		}
	}
}

func TestDraft_Validate(t *testing.T) {
	if err := (Draft{Name: strings.Repeat("n", MaxNameLength+1), Price: decimal.NewFromInt(1)}).Validate(); ValidationField(err) != "name" {
		t.Errorf("Validate() long name error = %v", err)
	}
	if err := (Draft{Name: "ok", Description: strings.Repeat("d", MaxDescriptionLength+1), Price: decimal.NewFromInt(1)}).Validate(); ValidationField(err) != "description" {
		t.Errorf("Validate() long description error = %v", err)
	}
	if err := (Draft{Name: "ok", Price: decimal.NewFromInt(1)}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (Draft{Name: "ok", Price: decimal.NewFromInt(-1)}).Validate(); !IsValidationError(err) {
		t.Errorf("Validate() negative price error = %v", err)
	}
	if err := (Draft{Price: decimal.NewFromInt(1)}).Validate(); ValidationField(err) != "name" {
		t.Errorf("Validate() missing name error = %v", err)
	}
}

func TestDraft_EqualUsesDecimalEquality(t *testing.T) {
	a := Draft{Name: "Mug", Price: decimal.RequireFromString("12.5")}
	b := Draft{Name: "Mug", Price: decimal.RequireFromString("12.50")}
	if !a.Equal(b) {
		t.Error("12.5 and 12.50 should be equal prices")
	}
	b.Description = "x"
	if a.Equal(b) {
		t.Error("drafts with different descriptions should differ")
	}
}

func TestFormatters(t *testing.T) {
	p := Product{ID: 3, Name: "Mug", Price: decimal.RequireFromString("12.5")}

	if got := p.FormatCompact(); got != "Mug - $12.50" {
		t.Errorf("FormatCompact() = %q", got)
	}
	if got := p.String(); got != "#3 Mug - $12.50" {
		t.Errorf("String() = %q", got)
	}
	if got := p.FormatDetailed(); !strings.Contains(got, "(none)") || !strings.Contains(got, "Product #3") {
		t.Errorf("FormatDetailed() = %q", got)
	}

	delta := FormatDelta(p, Draft{Name: "Mug", Description: "big", Price: decimal.RequireFromString("13")})
	if len(delta) != 2 {
		t.Fatalf("FormatDelta() = %v, want 2 changes", delta)
	}
	if delta[1] != "price: $12.50 → $13.00" {
		t.Errorf("FormatDelta()[1] = %q", delta[1])
	}
}
