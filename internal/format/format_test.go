package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"12.5", "R$ 12,50"},
		{"999.999", "R$ 1.000,00"},
		{"1234.56", "R$ 1.234,56"},
		{"1234567.8", "R$ 1.234.567,80"},
		{"-150.5", "-R$ 150,50"},
	}
	for _, tt := range tests {
		if got := Currency(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("Currency(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptionalCurrency(t *testing.T) {
	if got := OptionalCurrency(decimal.NullDecimal{}); got != "" {
		t.Fatalf("unset = %q", got)
	}
	if got := OptionalCurrency(decimal.NewNullDecimal(decimal.NewFromInt(3))); got != "R$ 3,00" {
		t.Fatalf("set = %q", got)
	}
}

func TestStatus(t *testing.T) {
	tests := map[string]string{
		"active":   "Ativo",
		"INACTIVE": "Inativo",
		"pending":  "pending",
		"":         "",
	}
	for in, want := range tests {
		if got := Status(in); got != want {
			t.Errorf("Status(%q) = %q, want %q", in, got, want)
		}
	}
	if Active(true) != "Ativo" || Active(false) != "Inativo" {
		t.Fatalf("Active labels")
	}
	if YesNo(true) != "Sim" || YesNo(false) != "Não" {
		t.Fatalf("YesNo labels")
	}
}
