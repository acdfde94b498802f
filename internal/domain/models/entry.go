package models

import "github.com/shopspring/decimal"

// StockEntry is a stock-entry receipt as returned by the backend.
type StockEntry struct {
	ID                 int64           `json:"id"`
	Supplier           string          `json:"fornecedor"`
	PurchaseDate       Date            `json:"data_compra"`
	TotalPurchaseValue decimal.Decimal `json:"valor_compra_total"`
	FreightValue       decimal.Decimal `json:"valor_frete"`
	Items              []EntryItem     `json:"itens"`
}

// EntryItem is one persisted line of a stock entry.
type EntryItem struct {
	ID                 *int64              `json:"id,omitempty"`
	Product            int64               `json:"produto"`
	Quantity           int                 `json:"quantidade"`
	UnitPurchaseValue  decimal.Decimal     `json:"valor_compra_unitario"`
	CashSaleValue      decimal.NullDecimal `json:"valor_venda_vista"`
	TermSaleValue      decimal.NullDecimal `json:"valor_venda_prazo"`
	ApportionedFreight decimal.NullDecimal `json:"valor_frete_rateado"` // computed by the backend
}

// EntryPayload is the body sent on entry creation and update.
type EntryPayload struct {
	Supplier           string             `json:"fornecedor"`
	PurchaseDate       Date               `json:"data_compra"`
	TotalPurchaseValue decimal.Decimal    `json:"valor_compra_total"`
	FreightValue       decimal.Decimal    `json:"valor_frete"`
	Items              []EntryItemPayload `json:"itens"`
}

// EntryItemPayload is the writable shape of an entry line.
type EntryItemPayload struct {
	ID                *int64              `json:"id,omitempty"`
	Product           int64               `json:"produto"`
	Quantity          int                 `json:"quantidade"`
	UnitPurchaseValue decimal.Decimal     `json:"valor_compra_unitario"`
	CashSaleValue     decimal.NullDecimal `json:"valor_venda_vista"`
	TermSaleValue     decimal.NullDecimal `json:"valor_venda_prazo"`
}
