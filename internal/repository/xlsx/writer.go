package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// DefaultSheet is the worksheet name used for entry exports.
const DefaultSheet = "Entradas"

// Writer stores exported rows in an .xlsx workbook on disk.
type Writer struct {
	path   string
	sheet  string
	logger *zap.Logger
}

// NewWriter creates a writer for path. An empty sheet uses DefaultSheet.
func NewWriter(path, sheet string, logger *zap.Logger) *Writer {
	if sheet == "" {
		sheet = DefaultSheet
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{path: path, sheet: sheet, logger: logger}
}

// WriteRows writes rows to a new workbook, the first row in bold, and saves
// it over any existing file.
func (w *Writer) WriteRows(_ context.Context, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", w.sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(w.sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("create header style: %w", err)
		}
		last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return fmt.Errorf("header range: %w", err)
		}
		if err := f.SetCellStyle(w.sheet, "A1", last, style); err != nil {
			return fmt.Errorf("style header: %w", err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	w.logger.Debug("workbook saved", zap.String("path", w.path), zap.Int("rows", len(rows)))
	return nil
}
