// Package format renders backend values for display in pt-BR.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency renders d as Brazilian reais, e.g. "R$ 1.234,56".
func Currency(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}
	return sign + "R$ " + grouped.String() + "," + frac
}

// OptionalCurrency renders an unset value as an empty string.
func OptionalCurrency(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return Currency(d.Decimal)
}

// Status translates "active"/"inactive" to their labels; other values are
// returned unchanged.
func Status(value string) string {
	switch strings.ToLower(value) {
	case "active":
		return "Ativo"
	case "inactive":
		return "Inativo"
	}
	return value
}

// Active renders a boolean activity flag.
func Active(active bool) string {
	if active {
		return "Ativo"
	}
	return "Inativo"
}

// YesNo renders a boolean as "Sim"/"Não".
func YesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
