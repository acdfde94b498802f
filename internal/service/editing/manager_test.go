package editing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/editor"
	"github.com/mamadbah2/estoque-admin/internal/metrics"
)

type stubBackend struct {
	token     string
	entries   map[int64]models.StockEntry
	submitErr error
}

func (s *stubBackend) ListProducts(context.Context, string) ([]models.Product, error) {
	return []models.Product{{ID: 7, Name: "Arroz"}}, nil
}

func (s *stubBackend) GetEntry(_ context.Context, id int64) (models.StockEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return models.StockEntry{}, errors.New("not found")
	}
	return entry, nil
}

func (s *stubBackend) CreateEntry(_ context.Context, p models.EntryPayload) (models.StockEntry, error) {
	if s.submitErr != nil {
		return models.StockEntry{}, s.submitErr
	}
	return models.StockEntry{ID: 55, Supplier: p.Supplier}, nil
}

func (s *stubBackend) UpdateEntry(_ context.Context, id int64, p models.EntryPayload) (models.StockEntry, error) {
	return models.StockEntry{ID: id, Supplier: p.Supplier}, nil
}

type memoryRecorder struct {
	mu      sync.Mutex
	records []models.SubmissionRecord
}

func (r *memoryRecorder) Record(_ context.Context, record models.SubmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

func newManager(backend *stubBackend, recorder Recorder) (*Manager, *[]string) {
	var tokens []string
	factory := func(token string) editor.Backend {
		tokens = append(tokens, token)
		return backend
	}
	return NewManager(factory, recorder, metrics.New(), time.Minute, nil), &tokens
}

func fill(t *testing.T, ed *editor.Editor) {
	t.Helper()
	for field, value := range map[editor.HeaderField]string{
		editor.HeaderSupplier:           "Sul",
		editor.HeaderPurchaseDate:       "2024-05-01",
		editor.HeaderTotalPurchaseValue: "30",
		editor.HeaderFreightValue:       "0",
	} {
		if err := ed.SetHeader(field, value); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
}

func TestOpenSubmitRecordsAndCloses(t *testing.T) {
	recorder := &memoryRecorder{}
	m, tokens := newManager(&stubBackend{}, recorder)

	id, ed, err := m.Open(context.Background(), "tok", 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if (*tokens)[0] != "tok" {
		t.Fatalf("backend built with token %q", (*tokens)[0])
	}
	if m.Len() != 1 {
		t.Fatalf("sessions = %d", m.Len())
	}

	fill(t, ed)
	key := ed.Rows()[0].Key
	_ = ed.ChangeField(key, editor.FieldProduct, "7")
	_ = ed.ChangeField(key, editor.FieldQuantity, "3")
	_, _ = ed.AddRow()

	result, err := m.Submit(context.Background(), id)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Entry.ID != 55 {
		t.Fatalf("entry id = %d", result.Entry.ID)
	}
	if m.Len() != 0 {
		t.Fatalf("session must be closed after success")
	}
	if _, err := m.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("get after submit: %v", err)
	}

	if len(recorder.records) != 1 {
		t.Fatalf("records = %d", len(recorder.records))
	}
	rec := recorder.records[0]
	if rec.EntryID != 55 || rec.Action != models.ActionCreate || rec.DroppedRows != 1 {
		t.Fatalf("record = %+v", rec)
	}
	if !rec.Payload.TotalPurchaseValue.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("recorded payload = %+v", rec.Payload)
	}
}

func TestRejectedSubmitKeepsSession(t *testing.T) {
	recorder := &memoryRecorder{}
	m, _ := newManager(&stubBackend{submitErr: errors.New("rejected")}, recorder)

	id, ed, err := m.Open(context.Background(), "", 0)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	fill(t, ed)

	if _, err := m.Submit(context.Background(), id); err == nil {
		t.Fatalf("expected submit error")
	}
	if _, err := m.Get(id); err != nil {
		t.Fatalf("session must survive a rejected submit: %v", err)
	}
	if len(recorder.records) != 0 {
		t.Fatalf("rejected submissions are not recorded")
	}
}

func TestOpenUnloadableEntryKeepsNoSession(t *testing.T) {
	m, _ := newManager(&stubBackend{}, nil)

	_, _, err := m.Open(context.Background(), "tok", 404)
	if !editor.IsCritical(err) {
		t.Fatalf("expected critical error, got %v", err)
	}
	if m.Len() != 0 {
		t.Fatalf("sessions = %d", m.Len())
	}
}

func TestOpenExistingEntryUsesUpdate(t *testing.T) {
	date, _ := models.ParseDate("2024-05-01")
	backend := &stubBackend{entries: map[int64]models.StockEntry{8: {
		ID:           8,
		Supplier:     "Norte",
		PurchaseDate: date,
		Items:        []models.EntryItem{{Product: 7, Quantity: 1}},
	}}}
	recorder := &memoryRecorder{}
	m, _ := newManager(backend, recorder)

	id, ed, err := m.Open(context.Background(), "tok", 8)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if len(ed.Rows()) != 1 {
		t.Fatalf("rows = %d", len(ed.Rows()))
	}
	if _, err := m.Submit(context.Background(), id); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if recorder.records[0].Action != models.ActionUpdate || recorder.records[0].EntryID != 8 {
		t.Fatalf("record = %+v", recorder.records[0])
	}
}

func TestCloseAndSweep(t *testing.T) {
	m, _ := newManager(&stubBackend{}, nil)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	first, ed, _ := m.Open(context.Background(), "", 0)
	second, _, _ := m.Open(context.Background(), "", 0)

	if err := m.Close(first); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !ed.Closed() {
		t.Fatalf("closing a session must close its editor")
	}
	if err := m.Close(first); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("double close: %v", err)
	}

	now = now.Add(30 * time.Second)
	if n := m.Sweep(); n != 0 {
		t.Fatalf("swept %d sessions too early", n)
	}
	now = now.Add(2 * time.Minute)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("swept %d, want 1", n)
	}
	if _, err := m.Get(second); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expired session still reachable: %v", err)
	}
}
