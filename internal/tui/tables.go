package tui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/editor"
	"github.com/mamadbah2/estoque-admin/internal/format"
)

func table(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// EntriesTable prints the stock-entry list.
func EntriesTable(w io.Writer, entries []models.StockEntry) error {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			fmt.Sprint(e.ID), e.Supplier, e.PurchaseDate.String(),
			format.Currency(e.TotalPurchaseValue), format.Currency(e.FreightValue),
		})
	}
	return table(w, []string{"ID", "FORNECEDOR", "DATA DA COMPRA", "VALOR TOTAL", "FRETE"}, rows)
}

// ProductsTable prints the product list.
func ProductsTable(w io.Writer, products []models.Product) error {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			fmt.Sprint(p.ID), p.Name, p.Code, string(p.Company), string(p.ProductType),
			format.YesNo(p.Perishable), p.ExpiryDate.String(), format.Status(p.Status),
		})
	}
	return table(w, []string{"ID", "NOME", "CÓDIGO", "EMPRESA", "TIPO", "PERECÍVEL", "VALIDADE", "STATUS"}, rows)
}

// CompaniesTable prints the company list.
func CompaniesTable(w io.Writer, companies []models.Company) error {
	rows := make([][]string, 0, len(companies))
	for _, c := range companies {
		created := ""
		if c.CreatedAt != nil {
			created = c.CreatedAt.Format(models.DateLayout)
		}
		rows = append(rows, []string{fmt.Sprint(c.ID), c.Name, c.CNPJ, format.Active(c.IsActive), created})
	}
	return table(w, []string{"ID", "NOME", "CNPJ", "STATUS", "CRIADA EM"}, rows)
}

// ProductTypesTable prints the product type list.
func ProductTypesTable(w io.Writer, types []models.ProductType) error {
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{fmt.Sprint(t.ID), t.Name})
	}
	return table(w, []string{"ID", "NOME"}, rows)
}

// EntryDetail prints one entry with its items.
func EntryDetail(w io.Writer, entry models.StockEntry, labels map[int64]string) error {
	fmt.Fprintf(w, "Entrada #%d\n", entry.ID)
	fmt.Fprintf(w, "Fornecedor:     %s\n", entry.Supplier)
	fmt.Fprintf(w, "Data da compra: %s\n", entry.PurchaseDate)
	fmt.Fprintf(w, "Valor total:    %s\n", format.Currency(entry.TotalPurchaseValue))
	fmt.Fprintf(w, "Frete:          %s\n\n", format.Currency(entry.FreightValue))

	rows := make([][]string, 0, len(entry.Items))
	for _, item := range entry.Items {
		rows = append(rows, []string{
			productName(labels, item.Product), fmt.Sprint(item.Quantity),
			format.Currency(item.UnitPurchaseValue), format.OptionalCurrency(item.CashSaleValue),
			format.OptionalCurrency(item.TermSaleValue), format.OptionalCurrency(item.ApportionedFreight),
		})
	}
	return table(w, []string{"PRODUTO", "QTD", "UNITÁRIO", "À VISTA", "A PRAZO", "FRETE RATEADO"}, rows)
}

// editorView renders the form state shown between actions.
func editorView(snap editor.Snapshot, labels map[int64]string) string {
	var b strings.Builder
	h := snap.Header
	fmt.Fprintf(&b, "Fornecedor: %s | Data: %s | Total: %s | Frete: %s\n",
		orDash(h.Supplier), orDash(h.PurchaseDate.String()),
		orDash(format.OptionalCurrency(h.TotalPurchaseValue)), orDash(format.OptionalCurrency(h.FreightValue)))

	rows := make([][]string, 0, len(snap.Rows))
	for i, row := range snap.Rows {
		product := "-"
		if row.Product != 0 {
			product = productName(labels, row.Product)
		}
		mark := ""
		if !row.Complete() {
			mark = "incompleto"
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1), product, fmt.Sprint(row.Quantity),
			format.Currency(row.UnitPurchaseValue), format.OptionalCurrency(row.CashSaleValue),
			format.OptionalCurrency(row.TermSaleValue), mark,
		})
	}
	_ = table(&b, []string{"#", "PRODUTO", "QTD", "UNITÁRIO", "À VISTA", "A PRAZO", ""}, rows)
	return strings.TrimRight(b.String(), "\n")
}

func productName(labels map[int64]string, id int64) string {
	if label, ok := labels[id]; ok {
		return label
	}
	return fmt.Sprintf("#%d", id)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
