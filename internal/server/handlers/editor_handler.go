package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/editor"
	"github.com/mamadbah2/estoque-admin/internal/service/editing"
	"github.com/mamadbah2/estoque-admin/pkg/clients/estoque"
)

// Sessions is the editor session store the handler drives.
type Sessions interface {
	Open(ctx context.Context, token string, entryID int64) (string, *editor.Editor, error)
	Get(id string) (*editor.Editor, error)
	Submit(ctx context.Context, id string) (editor.SubmitResult, error)
	Close(id string) error
}

// EditorHandler exposes editor sessions over HTTP.
type EditorHandler struct {
	sessions Sessions
	logger   *zap.Logger
}

// NewEditorHandler constructs the HTTP handler adapter.
func NewEditorHandler(sessions Sessions, logger *zap.Logger) *EditorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditorHandler{sessions: sessions, logger: logger}
}

type openRequest struct {
	ID int64 `json:"id"`
}

type fieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type productOption struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

type rowView struct {
	Key                string              `json:"key"`
	ID                 *int64              `json:"id,omitempty"`
	Product            int64               `json:"produto"`
	Quantity           int                 `json:"quantidade"`
	UnitPurchaseValue  decimal.Decimal     `json:"valor_compra_unitario"`
	CashSaleValue      decimal.NullDecimal `json:"valor_venda_vista"`
	TermSaleValue      decimal.NullDecimal `json:"valor_venda_prazo"`
	ApportionedFreight decimal.NullDecimal `json:"valor_frete_rateado"`
	Complete           bool                `json:"completo"`
}

// SessionView is the JSON rendering of an editor session.
type SessionView struct {
	SessionID      string            `json:"session_id"`
	EntryID        int64             `json:"entry_id"`
	State          string            `json:"state"`
	Header         map[string]string `json:"header"`
	Rows           []rowView         `json:"rows"`
	Products       []productOption   `json:"products"`
	LastError      string            `json:"last_error,omitempty"`
	ReferenceError string            `json:"reference_error,omitempty"`
}

type submitResponse struct {
	Entry       models.StockEntry `json:"entry"`
	DroppedRows []string          `json:"dropped_rows"`
	Created     bool              `json:"created"`
}

func newSessionView(id string, snap editor.Snapshot) SessionView {
	view := SessionView{
		SessionID: id,
		EntryID:   snap.ID,
		State:     snap.State.String(),
		Header:    make(map[string]string, len(editor.HeaderFields)),
		Rows:      make([]rowView, 0, len(snap.Rows)),
		Products:  make([]productOption, 0, len(snap.Products)),
	}
	for _, field := range editor.HeaderFields {
		view.Header[string(field)] = snap.Header.Value(field)
	}
	for _, row := range snap.Rows {
		view.Rows = append(view.Rows, rowView{
			Key:                row.Key.String(),
			ID:                 row.ServerID,
			Product:            row.Product,
			Quantity:           row.Quantity,
			UnitPurchaseValue:  row.UnitPurchaseValue,
			CashSaleValue:      row.CashSaleValue,
			TermSaleValue:      row.TermSaleValue,
			ApportionedFreight: row.ApportionedFreight,
			Complete:           row.Complete(),
		})
	}
	for _, p := range snap.Products {
		view.Products = append(view.Products, productOption{ID: p.ID, Label: p.Label()})
	}
	if snap.LastError != nil {
		view.LastError = snap.LastError.Error()
	}
	if snap.ReferenceError != nil {
		view.ReferenceError = snap.ReferenceError.Error()
	}
	return view
}

// Open starts an editor session for the entry in the body, or a new entry.
func (h *EditorHandler) Open(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
		return
	}

	var req openRequest
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			h.logger.Warn("invalid open payload", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	if req.ID < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	id, ed, err := h.sessions.Open(c.Request.Context(), token, req.ID)
	if err != nil {
		h.logger.Warn("failed opening editor session", zap.Int64("entry_id", req.ID), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionView(id, ed.Snapshot()))
}

// View renders the session.
func (h *EditorHandler) View(c *gin.Context) {
	h.withEditor(c, func(*editor.Editor) error { return nil })
}

// SetHeader changes one header field.
func (h *EditorHandler) SetHeader(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.withEditor(c, func(ed *editor.Editor) error {
		return ed.SetHeader(editor.HeaderField(req.Field), req.Value)
	})
}

// AddRow appends an empty row.
func (h *EditorHandler) AddRow(c *gin.Context) {
	ed, ok := h.editor(c)
	if !ok {
		return
	}
	if _, err := ed.AddRow(); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionView(c.Param("sid"), ed.Snapshot()))
}

// ChangeRow changes one field of the row addressed by :key.
func (h *EditorHandler) ChangeRow(c *gin.Context) {
	var req fieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.withEditor(c, func(ed *editor.Editor) error {
		key, err := editor.ParseRowKey(c.Param("key"))
		if err != nil {
			return err
		}
		return ed.ChangeField(key, editor.Field(req.Field), req.Value)
	})
}

// RemoveRow deletes the row addressed by :key. Unknown keys are ignored.
func (h *EditorHandler) RemoveRow(c *gin.Context) {
	h.withEditor(c, func(ed *editor.Editor) error {
		key, err := editor.ParseRowKey(c.Param("key"))
		if err != nil {
			return err
		}
		return ed.RemoveRow(key)
	})
}

// Submit sends the entry to the backend. On success the session is closed.
func (h *EditorHandler) Submit(c *gin.Context) {
	sid := c.Param("sid")
	result, err := h.sessions.Submit(c.Request.Context(), sid)
	if err != nil {
		h.logger.Warn("editor submit failed", zap.String("session_id", sid), zap.Error(err))
		h.writeError(c, err)
		return
	}

	dropped := make([]string, len(result.Dropped))
	for i, key := range result.Dropped {
		dropped[i] = key.String()
	}
	c.JSON(http.StatusOK, submitResponse{Entry: result.Entry, DroppedRows: dropped, Created: result.Created})
}

// Discard closes the session without submitting.
func (h *EditorHandler) Discard(c *gin.Context) {
	if err := h.sessions.Close(c.Param("sid")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EditorHandler) editor(c *gin.Context) (*editor.Editor, bool) {
	ed, err := h.sessions.Get(c.Param("sid"))
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}
	return ed, true
}

func (h *EditorHandler) withEditor(c *gin.Context, apply func(*editor.Editor) error) {
	ed, ok := h.editor(c)
	if !ok {
		return
	}
	if err := apply(ed); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionView(c.Param("sid"), ed.Snapshot()))
}

func (h *EditorHandler) writeError(c *gin.Context, err error) {
	var validationErr *editor.ValidationError
	var submitErr *editor.SubmitError
	var apiErr *estoque.APIError

	switch {
	case errors.Is(err, editing.ErrSessionNotFound), errors.Is(err, editor.ErrRowNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrInvalidValue), errors.Is(err, editor.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, editor.ErrBusy), errors.Is(err, editor.ErrNotReady), errors.Is(err, editor.ErrNotEditable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		fields := make([]string, len(validationErr.Fields))
		for i, f := range validationErr.Fields {
			fields[i] = string(f)
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "required fields missing", "fields": fields})
	case editor.IsCritical(err) && estoque.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
	case errors.As(err, &apiErr):
		status := http.StatusBadGateway
		if errors.As(err, &submitErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": apiErr.Message(), "status": apiErr.StatusCode, "fields": apiErr.Fields})
	case errors.As(err, &submitErr), editor.IsCritical(err):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		h.logger.Error("unexpected editor error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
