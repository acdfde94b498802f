// Package editor holds the in-memory stock-entry form: a header plus an
// ordered collection of line items addressed by client-local keys, flattened
// into one nested payload on submit.
package editor

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
)

// State is the lifecycle position of an editor.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateSucceeded
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateAborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateAborted
}

// Backend is the slice of the REST API the editor needs.
type Backend interface {
	ListProducts(ctx context.Context, search string) ([]models.Product, error)
	GetEntry(ctx context.Context, id int64) (models.StockEntry, error)
	CreateEntry(ctx context.Context, payload models.EntryPayload) (models.StockEntry, error)
	UpdateEntry(ctx context.Context, id int64, payload models.EntryPayload) (models.StockEntry, error)
}

// Option configures an Editor.
type Option func(*Editor)

// WithLogger sets the editor logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSeedRow controls whether a create-mode editor starts with one empty row
// once loading finishes. Enabled by default.
func WithSeedRow(enabled bool) Option {
	return func(e *Editor) { e.seedRow = enabled }
}

// SubmitResult describes a successful submission.
type SubmitResult struct {
	Entry   models.StockEntry
	Payload models.EntryPayload
	Dropped []RowKey
	Created bool
}

// Snapshot is a copy of the editor state, safe to read without locking.
type Snapshot struct {
	ID             int64
	State          State
	Header         Header
	Rows           []Row
	Products       []models.Product
	LastError      error
	ReferenceError error
}

// Editor owns one stock entry under edit. All methods are safe for concurrent
// use; backend calls run without holding the lock.
type Editor struct {
	backend Backend
	logger  *zap.Logger
	seedRow bool

	mu       sync.Mutex
	id       int64
	state    State
	closed   bool
	seeded   bool
	header   Header
	rows     []Row
	nextKey  RowKey
	products []models.Product
	refErr   error
	lastErr  error

	refGen    uint64
	recordGen uint64
	pending   int
}

// New creates an editor for the entry id, or for a new entry when id is 0.
// The editor starts in StateLoading with no rows.
func New(backend Backend, id int64, opts ...Option) *Editor {
	e := &Editor{
		backend: backend,
		logger:  zap.NewNop(),
		seedRow: true,
		id:      id,
		state:   StateLoading,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load fetches the product options and, for an existing entry, the entry
// itself. A critical error means the entry could not be loaded and the editor
// is aborted; a non-critical one leaves the product options empty.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	id := e.id
	e.mu.Unlock()

	refErr := e.LoadReferenceData(ctx)
	if id != 0 {
		if err := e.LoadExistingRecord(ctx, id); err != nil {
			return err
		}
	}
	return refErr
}

// LoadReferenceData fetches the product options for the line-item selector.
func (e *Editor) LoadReferenceData(ctx context.Context) error {
	e.mu.Lock()
	if err := e.mutableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.refGen++
	gen := e.refGen
	e.beginLocked()
	e.mu.Unlock()

	products, err := e.backend.ListProducts(ctx, "")

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.finishLocked()
	if e.closed || gen != e.refGen {
		e.logger.Debug("Discarding stale product options", zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		e.products = nil
		e.refErr = &LoadError{Resource: "products", Err: err}
		e.logger.Warn("Failed to load product options", zap.Error(err))
		return e.refErr
	}
	e.products = products
	e.refErr = nil
	return nil
}

// LoadExistingRecord fetches the entry with its items and replaces the header
// and rows. Every row gets a fresh key; server item ids are kept as data.
// A failure aborts the editor.
func (e *Editor) LoadExistingRecord(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: entry id %d", ErrInvalidValue, id)
	}

	e.mu.Lock()
	if err := e.mutableLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.recordGen++
	gen := e.recordGen
	e.beginLocked()
	e.mu.Unlock()

	entry, err := e.backend.GetEntry(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.finishLocked()
	if e.closed || gen != e.recordGen {
		e.logger.Debug("Discarding stale entry load", zap.Int64("entry_id", id), zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		e.state = StateAborted
		e.lastErr = &LoadError{Critical: true, Resource: fmt.Sprintf("entry %d", id), Err: err}
		e.logger.Error("Failed to load entry", zap.Int64("entry_id", id), zap.Error(err))
		return e.lastErr
	}

	e.id = id
	e.header = Header{
		Supplier:           entry.Supplier,
		PurchaseDate:       entry.PurchaseDate,
		TotalPurchaseValue: decimal.NewNullDecimal(entry.TotalPurchaseValue),
		FreightValue:       decimal.NewNullDecimal(entry.FreightValue),
	}
	rows := make([]Row, 0, len(entry.Items))
	for _, item := range entry.Items {
		rows = append(rows, Row{
			Key:                e.newKeyLocked(),
			ServerID:           item.ID,
			Product:            item.Product,
			Quantity:           item.Quantity,
			UnitPurchaseValue:  item.UnitPurchaseValue,
			CashSaleValue:      item.CashSaleValue,
			TermSaleValue:      item.TermSaleValue,
			ApportionedFreight: item.ApportionedFreight,
		})
	}
	e.rows = rows
	e.logger.Debug("Entry loaded", zap.Int64("entry_id", id), zap.Int("items", len(rows)))
	return nil
}

// AddRow appends an empty row and returns its key.
func (e *Editor) AddRow() (RowKey, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return 0, err
	}
	row := Row{Key: e.newKeyLocked()}
	e.rows = append(e.rows, row)
	return row.Key, nil
}

// RemoveRow removes the row with key. Unknown keys are ignored.
func (e *Editor) RemoveRow(key RowKey) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}
	i := e.indexLocked(key)
	if i < 0 {
		return nil
	}
	e.rows = append(e.rows[:i:i], e.rows[i+1:]...)
	return nil
}

// ChangeField sets one field of one row from its text form.
func (e *Editor) ChangeField(key RowKey, field Field, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}
	i := e.indexLocked(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRowNotFound, key)
	}
	row, err := e.rows[i].withField(field, value)
	if err != nil {
		return err
	}
	e.rows[i] = row
	return nil
}

// SetHeader sets one header field from its text form.
func (e *Editor) SetHeader(field HeaderField, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.mutableLocked(); err != nil {
		return err
	}
	header, err := e.header.withField(field, value)
	if err != nil {
		return err
	}
	e.header = header
	return nil
}

// Payload serializes the current state. Incomplete rows are left out and
// their keys returned.
func (e *Editor) Payload() (models.EntryPayload, []RowKey) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.payloadLocked()
}

func (e *Editor) payloadLocked() (models.EntryPayload, []RowKey) {
	payload := models.EntryPayload{
		Supplier:           e.header.Supplier,
		PurchaseDate:       e.header.PurchaseDate,
		TotalPurchaseValue: e.header.TotalPurchaseValue.Decimal,
		FreightValue:       e.header.FreightValue.Decimal,
		Items:              make([]models.EntryItemPayload, 0, len(e.rows)),
	}
	var dropped []RowKey
	for _, row := range e.rows {
		if !row.Complete() {
			dropped = append(dropped, row.Key)
			continue
		}
		payload.Items = append(payload.Items, row.payload())
	}
	return payload, dropped
}

// Submit validates the header, sends the payload and, on success, discards
// the local state. On failure the rows stay intact and the error is kept as
// LastError.
func (e *Editor) Submit(ctx context.Context) (SubmitResult, error) {
	e.mu.Lock()
	if err := e.submittableLocked(); err != nil {
		e.mu.Unlock()
		return SubmitResult{}, err
	}
	if missing := e.header.missing(); len(missing) > 0 {
		err := &ValidationError{Fields: missing}
		e.lastErr = err
		e.mu.Unlock()
		return SubmitResult{}, err
	}
	payload, dropped := e.payloadLocked()
	id := e.id
	e.state = StateSubmitting
	e.lastErr = nil
	e.mu.Unlock()

	if len(dropped) > 0 {
		e.logger.Warn("Dropping incomplete rows", zap.Int("dropped", len(dropped)))
	}

	var (
		saved models.StockEntry
		err   error
	)
	if id == 0 {
		saved, err = e.backend.CreateEntry(ctx, payload)
	} else {
		saved, err = e.backend.UpdateEntry(ctx, id, payload)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		if !e.closed {
			e.state = StateReady
		}
		e.lastErr = &SubmitError{Err: err}
		e.logger.Warn("Entry submission rejected", zap.Int64("entry_id", id), zap.Error(err))
		return SubmitResult{}, e.lastErr
	}

	e.state = StateSucceeded
	e.id = saved.ID
	e.header = Header{}
	e.rows = nil
	e.logger.Info("Entry submitted",
		zap.Int64("entry_id", saved.ID),
		zap.Int("items", len(payload.Items)),
		zap.Int("dropped", len(dropped)),
	)
	return SubmitResult{Entry: saved, Payload: payload, Dropped: dropped, Created: id == 0}, nil
}

// Close discards the editor. Loads still in flight are ignored when they
// resolve and every later mutation fails with ErrNotEditable.
func (e *Editor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.refGen++
	e.recordGen++
}

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Snapshot{
		ID:             e.id,
		State:          e.state,
		Header:         e.header,
		Rows:           append([]Row(nil), e.rows...),
		Products:       append([]models.Product(nil), e.products...),
		LastError:      e.lastErr,
		ReferenceError: e.refErr,
	}
}

// Rows returns a copy of the rows in order.
func (e *Editor) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Row(nil), e.rows...)
}

// Row returns the row with key.
func (e *Editor) Row(key RowKey) (Row, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexLocked(key); i >= 0 {
		return e.rows[i], true
	}
	return Row{}, false
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// ID is the entry id, 0 until a new entry was created.
func (e *Editor) ID() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.id
}

// LastError is the most recent submit or critical load failure.
func (e *Editor) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// ReferenceError is the product options failure, if any.
func (e *Editor) ReferenceError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refErr
}

// Closed reports whether Close was called.
func (e *Editor) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Editor) beginLocked() {
	e.pending++
	if e.state == StateReady {
		e.state = StateLoading
	}
}

func (e *Editor) finishLocked() {
	e.pending--
	if e.pending > 0 || e.closed || e.state != StateLoading {
		return
	}
	e.state = StateReady
	if e.id == 0 && e.seedRow && !e.seeded && len(e.rows) == 0 {
		e.rows = append(e.rows, Row{Key: e.newKeyLocked()})
	}
	e.seeded = true
}

func (e *Editor) newKeyLocked() RowKey {
	e.nextKey++
	return e.nextKey
}

func (e *Editor) indexLocked(key RowKey) int {
	for i := range e.rows {
		if e.rows[i].Key == key {
			return i
		}
	}
	return -1
}

func (e *Editor) mutableLocked() error {
	if e.closed || e.state.Terminal() {
		return ErrNotEditable
	}
	if e.state == StateSubmitting {
		return ErrBusy
	}
	return nil
}

func (e *Editor) submittableLocked() error {
	if err := e.mutableLocked(); err != nil {
		return err
	}
	if e.state == StateLoading {
		return ErrNotReady
	}
	return nil
}
