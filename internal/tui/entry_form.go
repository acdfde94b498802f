package tui

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/editor"
	"github.com/mamadbah2/estoque-admin/pkg/clients/estoque"
)

// ErrRecordUnavailable is returned when the entry to edit could not be
// loaded; the caller goes back to the list.
var ErrRecordUnavailable = errors.New("tui: record unavailable")

const (
	actionHeader = iota
	actionAddRow
	actionEditRow
	actionRemoveRow
	actionSave
	actionCancel
)

var entryActions = []string{
	"Editar cabeçalho",
	"Adicionar item",
	"Editar item",
	"Remover item",
	"Salvar",
	"Cancelar",
}

var headerLabels = map[editor.HeaderField]string{
	editor.HeaderSupplier:           "Fornecedor",
	editor.HeaderPurchaseDate:       "Data da compra (AAAA-MM-DD)",
	editor.HeaderTotalPurchaseValue: "Valor total da compra",
	editor.HeaderFreightValue:       "Valor do frete",
}

var fieldLabels = map[editor.Field]string{
	editor.FieldProduct:           "Produto",
	editor.FieldQuantity:          "Quantidade",
	editor.FieldUnitPurchaseValue: "Valor de compra unitário",
	editor.FieldCashSaleValue:     "Valor de venda à vista (opcional)",
	editor.FieldTermSaleValue:     "Valor de venda a prazo (opcional)",
}

// EntryForm drives the stock-entry editor from the terminal.
type EntryForm struct {
	driver PromptDriver
	logger *zap.Logger
}

// NewEntryForm creates the entry form flow.
func NewEntryForm(driver PromptDriver, logger *zap.Logger) *EntryForm {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EntryForm{driver: driver, logger: logger}
}

// Run edits entry id (0 creates one) until it is saved or cancelled.
func (f *EntryForm) Run(ctx context.Context, backend editor.Backend, id int64) (editor.SubmitResult, error) {
	ed := editor.New(backend, id, editor.WithLogger(f.logger))
	defer ed.Close()

	if err := ed.Load(ctx); err != nil {
		if editor.IsCritical(err) {
			_ = f.driver.Info(ctx, "Erro ao carregar a entrada. O registro pode não existir.")
			return editor.SubmitResult{}, fmt.Errorf("%w: %w", ErrRecordUnavailable, err)
		}
		_ = f.driver.Info(ctx, "Aviso: não foi possível carregar a lista de produtos.")
	}

	for {
		snap := ed.Snapshot()
		labels := productLabels(snap)
		if err := f.driver.Info(ctx, editorView(snap, labels)); err != nil {
			return editor.SubmitResult{}, err
		}

		choice, err := f.driver.Select(ctx, SelectConfig{Message: "Ação", Options: entryActions})
		if err != nil {
			return editor.SubmitResult{}, err
		}

		switch choice {
		case actionHeader:
			err = f.editHeader(ctx, ed)
		case actionAddRow:
			var key editor.RowKey
			if key, err = ed.AddRow(); err == nil {
				err = f.editRow(ctx, ed, key)
			}
		case actionEditRow:
			var key editor.RowKey
			var ok bool
			if key, ok, err = f.pickRow(ctx, ed, "Item a editar"); err == nil && ok {
				err = f.editRow(ctx, ed, key)
			}
		case actionRemoveRow:
			var key editor.RowKey
			var ok bool
			if key, ok, err = f.pickRow(ctx, ed, "Item a remover"); err == nil && ok {
				err = ed.RemoveRow(key)
			}
		case actionSave:
			result, saved, saveErr := f.save(ctx, ed)
			if saveErr != nil {
				return editor.SubmitResult{}, saveErr
			}
			if saved {
				return result, nil
			}
		case actionCancel:
			return editor.SubmitResult{}, ErrAborted
		}
		if err != nil {
			return editor.SubmitResult{}, err
		}
	}
}

func (f *EntryForm) editHeader(ctx context.Context, ed *editor.Editor) error {
	for _, field := range editor.HeaderFields {
		for {
			value, err := f.driver.Input(ctx, InputConfig{
				Message: headerLabels[field],
				Default: ed.Snapshot().Header.Value(field),
			})
			if err != nil {
				return err
			}
			err = ed.SetHeader(field, value)
			if err == nil {
				break
			}
			if !errors.Is(err, editor.ErrInvalidValue) {
				return err
			}
			if err := f.driver.Info(ctx, "Valor inválido, tente novamente."); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *EntryForm) editRow(ctx context.Context, ed *editor.Editor, key editor.RowKey) error {
	snap := ed.Snapshot()
	for _, field := range editor.Fields {
		if field == editor.FieldProduct && len(snap.Products) > 0 {
			if err := f.pickProduct(ctx, ed, key, snap); err != nil {
				return err
			}
			continue
		}
		for {
			row, ok := ed.Row(key)
			if !ok {
				return fmt.Errorf("%w: %s", editor.ErrRowNotFound, key)
			}
			value, err := f.driver.Input(ctx, InputConfig{Message: fieldLabels[field], Default: row.Value(field)})
			if err != nil {
				return err
			}
			err = ed.ChangeField(key, field, value)
			if err == nil {
				break
			}
			if !errors.Is(err, editor.ErrInvalidValue) {
				return err
			}
			if err := f.driver.Info(ctx, "Valor inválido, tente novamente."); err != nil {
				return err
			}
		}
	}
	return nil
}

func (f *EntryForm) pickProduct(ctx context.Context, ed *editor.Editor, key editor.RowKey, snap editor.Snapshot) error {
	row, _ := ed.Row(key)
	options := make([]string, len(snap.Products))
	current := 0
	for i, p := range snap.Products {
		options[i] = p.Label()
		if p.ID == row.Product {
			current = i
		}
	}
	idx, err := f.driver.Select(ctx, SelectConfig{Message: "Produto", Options: options, DefaultIndex: current, PageSize: 10})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(snap.Products) {
		return nil
	}
	return ed.ChangeField(key, editor.FieldProduct, fmt.Sprint(snap.Products[idx].ID))
}

func (f *EntryForm) pickRow(ctx context.Context, ed *editor.Editor, message string) (editor.RowKey, bool, error) {
	snap := ed.Snapshot()
	if len(snap.Rows) == 0 {
		return 0, false, f.driver.Info(ctx, "Nenhum item.")
	}
	labels := productLabels(snap)
	options := make([]string, len(snap.Rows))
	for i, row := range snap.Rows {
		name := "-"
		if row.Product != 0 {
			name = productName(labels, row.Product)
		}
		options[i] = fmt.Sprintf("%d. %s x%d", i+1, name, row.Quantity)
	}
	idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: options})
	if err != nil {
		return 0, false, err
	}
	if idx < 0 || idx >= len(snap.Rows) {
		return 0, false, nil
	}
	return snap.Rows[idx].Key, true, nil
}

// save submits the editor. It reports saved=false with a nil error when the
// user must fix the form and try again.
func (f *EntryForm) save(ctx context.Context, ed *editor.Editor) (editor.SubmitResult, bool, error) {
	result, err := ed.Submit(ctx)
	var validationErr *editor.ValidationError
	var submitErr *editor.SubmitError
	switch {
	case err == nil:
	case errors.As(err, &validationErr):
		return result, false, f.driver.Info(ctx, "Preencha os campos obrigatórios: "+joinHeader(validationErr.Fields))
	case errors.As(err, &submitErr):
		return result, false, f.driver.Info(ctx, "Erro ao salvar: "+SubmitMessage(submitErr.Err))
	default:
		return result, false, err
	}

	if n := len(result.Dropped); n > 0 {
		if err := f.driver.Info(ctx, fmt.Sprintf("Aviso: %d item(ns) incompleto(s) não foram enviados.", n)); err != nil {
			return result, true, err
		}
	}
	return result, true, f.driver.Info(ctx, fmt.Sprintf("Entrada #%d salva.", result.Entry.ID))
}

// SubmitMessage is the server's detail, else its raw error body, else a
// generic text.
func SubmitMessage(err error) string {
	var apiErr *estoque.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return "verifique os dados e tente novamente."
}

func productLabels(snap editor.Snapshot) map[int64]string {
	labels := make(map[int64]string, len(snap.Products))
	for _, p := range snap.Products {
		labels[p.ID] = p.Label()
	}
	return labels
}

func joinHeader(fields []editor.HeaderField) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ", "
		}
		out += headerLabels[f]
	}
	return out
}
