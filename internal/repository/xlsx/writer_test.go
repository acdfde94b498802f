package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestWriteRowsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entradas.xlsx")
	w := NewWriter(path, "", nil)

	rows := [][]interface{}{
		{"Entrada", "Fornecedor", "Valor total"},
		{int64(1), "Sul", 150.5},
		{int64(2), "Norte", 0.0},
	}
	if err := w.WriteRows(context.Background(), rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(DefaultSheet)
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	want := [][]string{
		{"Entrada", "Fornecedor", "Valor total"},
		{"1", "Sul", "150.5"},
		{"2", "Norte", "0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}
