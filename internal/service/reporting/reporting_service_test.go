package reporting

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/metrics"
)

type stubSource struct {
	entries  []models.StockEntry
	details  map[int64]models.StockEntry
	products []models.Product
	listErr  error
	fetched  []int64
}

func (s *stubSource) ListEntries(context.Context, string) ([]models.StockEntry, error) {
	return s.entries, s.listErr
}

func (s *stubSource) GetEntry(_ context.Context, id int64) (models.StockEntry, error) {
	s.fetched = append(s.fetched, id)
	return s.details[id], nil
}

func (s *stubSource) ListProducts(context.Context, string) ([]models.Product, error) {
	return s.products, nil
}

type captureWriter struct {
	rows [][]interface{}
	err  error
}

func (w *captureWriter) WriteRows(_ context.Context, rows [][]interface{}) error {
	w.rows = rows
	return w.err
}

func TestBuildRowsFlattensItems(t *testing.T) {
	date, _ := models.ParseDate("2024-03-10")
	source := &stubSource{
		entries: []models.StockEntry{
			{
				ID: 1, Supplier: "Sul", PurchaseDate: date,
				TotalPurchaseValue: decimal.RequireFromString("150.5"),
				FreightValue:       decimal.RequireFromString("12"),
				Items: []models.EntryItem{
					{Product: 7, Quantity: 3, UnitPurchaseValue: decimal.RequireFromString("10"), CashSaleValue: decimal.NewNullDecimal(decimal.RequireFromString("14.9"))},
					{Product: 9, Quantity: 1, UnitPurchaseValue: decimal.RequireFromString("2.5")},
				},
			},
			{ID: 2, Supplier: "Norte", PurchaseDate: date},
		},
		details:  map[int64]models.StockEntry{2: {ID: 2, Supplier: "Norte", PurchaseDate: date, Items: []models.EntryItem{}}},
		products: []models.Product{{ID: 7, Name: "Arroz", Code: "ARZ"}},
	}
	svc := NewService(source, nil, nil)

	rows, err := svc.BuildRows(context.Background())
	if err != nil {
		t.Fatalf("build rows: %v", err)
	}

	want := [][]interface{}{
		Header,
		{int64(1), "Sul", "2024-03-10", 150.5, 12.0, "Arroz (ARZ)", 3, 10.0, 14.9, "", ""},
		{int64(1), "Sul", "2024-03-10", 150.5, 12.0, "9", 1, 2.5, "", "", ""},
		{int64(2), "Norte", "2024-03-10", 0.0, 0.0, "", "", "", "", "", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{2}, source.fetched); diff != "" {
		t.Fatalf("fetched mismatch (-want +got):\n%s", diff)
	}
}

func TestExportWritesAndCounts(t *testing.T) {
	source := &stubSource{entries: []models.StockEntry{{ID: 1, Supplier: "Sul", Items: []models.EntryItem{{Product: 7, Quantity: 1}}}}}
	m := metrics.New()
	svc := NewService(source, m, nil)
	writer := &captureWriter{}

	n, err := svc.Export(context.Background(), TargetXLSX, writer)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 1 || len(writer.rows) != 2 {
		t.Fatalf("exported %d rows, writer got %d", n, len(writer.rows))
	}
}

func TestExportPropagatesFailures(t *testing.T) {
	svc := NewService(&stubSource{listErr: errors.New("down")}, nil, nil)
	if _, err := svc.Export(context.Background(), TargetSheets, &captureWriter{}); err == nil {
		t.Fatalf("expected list failure")
	}

	svc = NewService(&stubSource{}, nil, nil)
	if _, err := svc.Export(context.Background(), TargetSheets, &captureWriter{err: errors.New("quota")}); err == nil {
		t.Fatalf("expected write failure")
	}
}
