package recon

import (
	"context"
	"errors"
	"sync"

	"github.com/cleared-dev/books/internal/model"
)

var (
	// ErrNotFound means the session or item does not exist (or was deleted).
	ErrNotFound = errors.New("reconciliation not found")
	// ErrConflict means the session is completed or was modified since the
	// caller's expected version. Refetch before retrying.
	ErrConflict = errors.New("reconciliation conflict")
)

// ToggleCommand sets one item's reconciled flag.
type ToggleCommand struct {
	SessionID       string
	ItemID          string
	Reconciled      bool
	ExpectedVersion int64 // 0 skips the version check
}

// Store persists reconciliation sessions. SetReconciled is the only
// item-level write and must be applied atomically.
type Store interface {
	Create(ctx context.Context, s *model.ReconciliationSession) error
	Get(ctx context.Context, id string) (*model.ReconciliationSession, error)
	List(ctx context.Context) ([]*model.ReconciliationSession, error)
	SetReconciled(ctx context.Context, cmd ToggleCommand) (*model.ReconciliationSession, error)
	Complete(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in memory behind one mutex.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*model.ReconciliationSession
	order    []string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.ReconciliationSession)}
}

func (m *MemoryStore) Create(_ context.Context, s *model.ReconciliationSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; ok {
		return ErrConflict
	}
	m.sessions[s.ID] = clone(s)
	m.order = append(m.order, s.ID)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*model.ReconciliationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s), nil
}

func (m *MemoryStore) List(_ context.Context) ([]*model.ReconciliationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.ReconciliationSession, 0, len(m.order))
	for _, id := range m.order {
		if s, ok := m.sessions[id]; ok {
			out = append(out, clone(s))
		}
	}
	return out, nil
}

func (m *MemoryStore) SetReconciled(_ context.Context, cmd ToggleCommand) (*model.ReconciliationSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[cmd.SessionID]
	if !ok {
		return nil, ErrNotFound
	}
	if s.Status != model.SessionInProgress {
		return nil, ErrConflict
	}
	if cmd.ExpectedVersion != 0 && cmd.ExpectedVersion != s.Version {
		return nil, ErrConflict
	}
	it, ok := s.Item(cmd.ItemID)
	if !ok {
		return nil, ErrNotFound
	}
	if it.IsReconciled != cmd.Reconciled {
		it.IsReconciled = cmd.Reconciled
		s.Version++
	}
	return clone(s), nil
}

func (m *MemoryStore) Complete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	if s.Status == model.SessionCompleted {
		return ErrConflict
	}
	s.Status = model.SessionCompleted
	s.Version++
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func clone(s *model.ReconciliationSession) *model.ReconciliationSession {
	c := *s
	c.Items = append([]model.ReconciliationItem(nil), s.Items...)
	return &c
}
