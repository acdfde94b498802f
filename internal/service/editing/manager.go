package editing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/domain/models"
	"github.com/mamadbah2/estoque-admin/internal/editor"
	"github.com/mamadbah2/estoque-admin/internal/metrics"
)

// ErrSessionNotFound is returned for unknown or expired editor sessions.
var ErrSessionNotFound = errors.New("editing: session not found")

// BackendFactory builds the backend an editor session talks to, authenticated
// with the caller's token.
type BackendFactory func(token string) editor.Backend

// Recorder keeps an audit trail of successful submissions.
type Recorder interface {
	Record(ctx context.Context, record models.SubmissionRecord) error
}

type session struct {
	editor   *editor.Editor
	lastUsed time.Time
}

// Manager holds the open editor sessions of the gateway.
type Manager struct {
	factory  BackendFactory
	recorder Recorder
	metrics  *metrics.Metrics
	ttl      time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*session
}

// NewManager creates a session manager. recorder and m may be nil.
func NewManager(factory BackendFactory, recorder Recorder, m *metrics.Metrics, ttl time.Duration, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		factory:  factory,
		recorder: recorder,
		metrics:  m,
		ttl:      ttl,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Open creates and loads an editor for entryID (0 for a new entry). When the
// entry cannot be loaded no session is kept and the critical error returned.
// A reference-data failure still opens the session; it is reported through
// the editor's ReferenceError.
func (m *Manager) Open(ctx context.Context, token string, entryID int64) (string, *editor.Editor, error) {
	ed := editor.New(m.factory(token), entryID, editor.WithLogger(m.logger.Named("editor")))
	if err := ed.Load(ctx); err != nil && editor.IsCritical(err) {
		ed.Close()
		return "", nil, err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &session{editor: ed, lastUsed: m.now()}
	m.mu.Unlock()
	m.metrics.SessionOpened()

	m.logger.Info("Editor session opened", zap.String("session_id", id), zap.Int64("entry_id", entryID))
	return id, ed, nil
}

// Get returns the editor of a session and marks it as used.
func (m *Manager) Get(id string) (*editor.Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.lastUsed = m.now()
	return s.editor, nil
}

// Submit submits the session's editor. A successful submission closes the
// session and is recorded; a rejected one leaves it open for another attempt.
func (m *Manager) Submit(ctx context.Context, id string) (editor.SubmitResult, error) {
	ed, err := m.Get(id)
	if err != nil {
		return editor.SubmitResult{}, err
	}

	action := models.ActionUpdate
	if ed.ID() == 0 {
		action = models.ActionCreate
	}

	result, err := ed.Submit(ctx)
	var submitErr *editor.SubmitError
	if err == nil || errors.As(err, &submitErr) {
		m.metrics.Submission(action, err)
	}
	if err != nil {
		return editor.SubmitResult{}, err
	}

	m.record(ctx, action, result)
	m.remove(id)
	return result, nil
}

// Close discards a session.
func (m *Manager) Close(id string) error {
	if !m.remove(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.logger.Info("Editor session closed", zap.String("session_id", id))
	return nil
}

// Len is the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than the TTL and returns how many.
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*session
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.editor.Close()
		m.metrics.SessionClosed()
	}
	if len(expired) > 0 {
		m.logger.Info("Expired idle editor sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}

func (m *Manager) remove(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	s.editor.Close()
	m.metrics.SessionClosed()
	return true
}

func (m *Manager) record(ctx context.Context, action string, result editor.SubmitResult) {
	if m.recorder == nil {
		return
	}
	record := models.SubmissionRecord{
		EntryID:     result.Entry.ID,
		Action:      action,
		Payload:     result.Payload,
		DroppedRows: len(result.Dropped),
		SubmittedAt: m.now().UTC(),
	}
	if err := m.recorder.Record(ctx, record); err != nil {
		m.logger.Error("Failed to record submission", zap.Int64("entry_id", record.EntryID), zap.Error(err))
	}
}
