package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
)

// Field names a line-item field. Values match the backend field names.
type Field string

const (
	FieldProduct           Field = "produto"
	FieldQuantity          Field = "quantidade"
	FieldUnitPurchaseValue Field = "valor_compra_unitario"
	FieldCashSaleValue     Field = "valor_venda_vista"
	FieldTermSaleValue     Field = "valor_venda_prazo"
)

// Fields lists the editable line-item fields in display order.
var Fields = []Field{FieldProduct, FieldQuantity, FieldUnitPurchaseValue, FieldCashSaleValue, FieldTermSaleValue}

// HeaderField names a scalar field of the stock entry.
type HeaderField string

const (
	HeaderSupplier           HeaderField = "fornecedor"
	HeaderPurchaseDate       HeaderField = "data_compra"
	HeaderTotalPurchaseValue HeaderField = "valor_compra_total"
	HeaderFreightValue       HeaderField = "valor_frete"
)

// HeaderFields lists the header fields in display order. All are required.
var HeaderFields = []HeaderField{HeaderSupplier, HeaderPurchaseDate, HeaderTotalPurchaseValue, HeaderFreightValue}

// RowKey addresses a row for the lifetime of one editor. Keys come from a
// per-editor counter, are never reused and never leave the editor.
type RowKey uint64

func (k RowKey) String() string { return strconv.FormatUint(uint64(k), 10) }

// ParseRowKey parses the textual form produced by RowKey.String.
func ParseRowKey(s string) (RowKey, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("%w: row key %q", ErrRowNotFound, s)
	}
	return RowKey(v), nil
}

// Row is one line item under edit.
type Row struct {
	Key                RowKey
	ServerID           *int64
	Product            int64 // 0 means no product selected
	Quantity           int
	UnitPurchaseValue  decimal.Decimal
	CashSaleValue      decimal.NullDecimal
	TermSaleValue      decimal.NullDecimal
	ApportionedFreight decimal.NullDecimal // read-only, filled by the backend
}

// Complete reports whether the row will be part of the submitted payload.
func (r Row) Complete() bool {
	return r.Product != 0 && r.Quantity > 0
}

// Value renders one field as the text a form would display.
func (r Row) Value(field Field) string {
	switch field {
	case FieldProduct:
		if r.Product == 0 {
			return ""
		}
		return strconv.FormatInt(r.Product, 10)
	case FieldQuantity:
		return strconv.Itoa(r.Quantity)
	case FieldUnitPurchaseValue:
		return r.UnitPurchaseValue.String()
	case FieldCashSaleValue:
		return nullString(r.CashSaleValue)
	case FieldTermSaleValue:
		return nullString(r.TermSaleValue)
	}
	return ""
}

func (r Row) withField(field Field, value string) (Row, error) {
	switch field {
	case FieldProduct:
		id, err := parseID(value)
		if err != nil {
			return r, invalid(string(field), value)
		}
		r.Product = id
	case FieldQuantity:
		qty, err := parseQuantity(value)
		if err != nil {
			return r, invalid(string(field), value)
		}
		r.Quantity = qty
	case FieldUnitPurchaseValue:
		d, err := parseDecimal(value)
		if err != nil {
			return r, invalid(string(field), value)
		}
		r.UnitPurchaseValue = d.Decimal
	case FieldCashSaleValue:
		d, err := parseDecimal(value)
		if err != nil {
			return r, invalid(string(field), value)
		}
		r.CashSaleValue = d
	case FieldTermSaleValue:
		d, err := parseDecimal(value)
		if err != nil {
			return r, invalid(string(field), value)
		}
		r.TermSaleValue = d
	default:
		return r, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return r, nil
}

func (r Row) payload() models.EntryItemPayload {
	return models.EntryItemPayload{
		ID:                r.ServerID,
		Product:           r.Product,
		Quantity:          r.Quantity,
		UnitPurchaseValue: r.UnitPurchaseValue,
		CashSaleValue:     r.CashSaleValue,
		TermSaleValue:     r.TermSaleValue,
	}
}

// Header holds the scalar fields of the stock entry.
type Header struct {
	Supplier           string
	PurchaseDate       models.Date
	TotalPurchaseValue decimal.NullDecimal
	FreightValue       decimal.NullDecimal
}

// Value renders one header field as form text.
func (h Header) Value(field HeaderField) string {
	switch field {
	case HeaderSupplier:
		return h.Supplier
	case HeaderPurchaseDate:
		return h.PurchaseDate.String()
	case HeaderTotalPurchaseValue:
		return nullString(h.TotalPurchaseValue)
	case HeaderFreightValue:
		return nullString(h.FreightValue)
	}
	return ""
}

func (h Header) withField(field HeaderField, value string) (Header, error) {
	switch field {
	case HeaderSupplier:
		h.Supplier = strings.TrimSpace(value)
	case HeaderPurchaseDate:
		d, err := models.ParseDate(strings.TrimSpace(value))
		if err != nil {
			return h, invalid(string(field), value)
		}
		h.PurchaseDate = d
	case HeaderTotalPurchaseValue:
		d, err := parseDecimal(value)
		if err != nil {
			return h, invalid(string(field), value)
		}
		h.TotalPurchaseValue = d
	case HeaderFreightValue:
		d, err := parseDecimal(value)
		if err != nil {
			return h, invalid(string(field), value)
		}
		h.FreightValue = d
	default:
		return h, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return h, nil
}

func (h Header) missing() []HeaderField {
	var out []HeaderField
	if h.Supplier == "" {
		out = append(out, HeaderSupplier)
	}
	if h.PurchaseDate.IsZero() {
		out = append(out, HeaderPurchaseDate)
	}
	if !h.TotalPurchaseValue.Valid {
		out = append(out, HeaderTotalPurchaseValue)
	}
	if !h.FreightValue.Valid {
		out = append(out, HeaderFreightValue)
	}
	return out
}

func invalid(field, value string) error {
	return fmt.Errorf("%w: %s=%q", ErrInvalidValue, field, value)
}

func parseID(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("bad id %q", value)
	}
	return id, nil
}

func parseQuantity(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// parseDecimal accepts "12.5", "12,5" and "1.234,56"; empty text clears.
func parseDecimal(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	if strings.Contains(value, ",") {
		value = strings.ReplaceAll(value, ".", "")
		value = strings.Replace(value, ",", ".", 1)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
