package reporting

import (
	"context"
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/metrics"
)

// Export targets.
const (
	TargetSheets = "sheets"
	TargetXLSX   = "xlsx"
)

// Header is the first exported row.
var Header = []interface{}{
	"Entrada", "Fornecedor", "Data da compra", "Valor total", "Frete",
	"Produto", "Quantidade", "Valor unitário", "Venda à vista", "Venda a prazo", "Frete rateado",
}

// EntrySource reads the entries to export.
type EntrySource interface {
	ListEntries(ctx context.Context, search string) ([]models.StockEntry, error)
	GetEntry(ctx context.Context, id int64) (models.StockEntry, error)
	ListProducts(ctx context.Context, search string) ([]models.Product, error)
}

// RowWriter stores exported rows, replacing any previous export.
type RowWriter interface {
	WriteRows(ctx context.Context, rows [][]interface{}) error
}

// Service flattens stock entries into one row per item.
type Service struct {
	source  EntrySource
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(source EntrySource, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, metrics: m, logger: logger}
}

// Export builds the rows and hands them to w. It returns the number of data
// rows written.
func (s *Service) Export(ctx context.Context, target string, w RowWriter) (int, error) {
	rows, err := s.BuildRows(ctx)
	if err == nil {
		err = w.WriteRows(ctx, rows)
		if err != nil {
			err = fmt.Errorf("write %s export: %w", target, err)
		}
	}
	s.metrics.Export(target, err)
	if err != nil {
		s.logger.Error("Entry export failed", zap.String("target", target), zap.Error(err))
		return 0, err
	}

	s.logger.Info("Entries exported", zap.String("target", target), zap.Int("rows", len(rows)-1))
	return len(rows) - 1, nil
}

// BuildRows returns the header followed by one row per entry item. Entries
// without items still produce one row. The list endpoint may omit nested
// items, in which case the entry is fetched individually.
func (s *Service) BuildRows(ctx context.Context) ([][]interface{}, error) {
	entries, err := s.source.ListEntries(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	labels := map[int64]string{}
	products, err := s.source.ListProducts(ctx, "")
	if err != nil {
		s.logger.Warn("Exporting without product names", zap.Error(err))
	}
	for _, p := range products {
		labels[p.ID] = p.Label()
	}

	rows := [][]interface{}{Header}
	for _, entry := range entries {
		if entry.Items == nil {
			detail, err := s.source.GetEntry(ctx, entry.ID)
			if err != nil {
				return nil, fmt.Errorf("load entry %d: %w", entry.ID, err)
			}
			entry = detail
		}

		head := []interface{}{
			entry.ID,
			entry.Supplier,
			entry.PurchaseDate.String(),
			money(entry.TotalPurchaseValue),
			money(entry.FreightValue),
		}
		if len(entry.Items) == 0 {
			rows = append(rows, pad(head))
			continue
		}
		for _, item := range entry.Items {
			row := append(append([]interface{}{}, head...),
				productLabel(labels, item.Product),
				item.Quantity,
				money(item.UnitPurchaseValue),
				optionalMoney(item.CashSaleValue),
				optionalMoney(item.TermSaleValue),
				optionalMoney(item.ApportionedFreight),
			)
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func pad(row []interface{}) []interface{} {
	for len(row) < len(Header) {
		row = append(row, "")
	}
	return row
}

func productLabel(labels map[int64]string, id int64) string {
	if label, ok := labels[id]; ok {
		return label
	}
	return strconv.FormatInt(id, 10)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optionalMoney(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return ""
	}
	return money(d.Decimal)
}
