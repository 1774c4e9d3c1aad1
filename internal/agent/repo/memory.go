package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/swasthya-bot/server/internal/agent/model"
)

// MemorySessionStore keeps sessions in process memory. Sessions are lost on
// restart.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string][]model.Turn
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string][]model.Turn)}
}

func (m *MemorySessionStore) Append(_ context.Context, sessionID string, maxTurns int, turns ...model.Turn) error {
	if len(turns) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := append(m.sessions[sessionID], turns...)
	if maxTurns > 0 && len(s) > maxTurns {
		// copy so the dropped prefix is released
		s = append([]model.Turn(nil), s[len(s)-maxTurns:]...)
	}
	m.sessions[sessionID] = s
	return nil
}

func (m *MemorySessionStore) Load(_ context.Context, sessionID string) ([]model.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]model.Turn{}, m.sessions[sessionID]...), nil
}

func (m *MemorySessionStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.sessions, sessionID)
	m.mu.Unlock()
	return nil
}

// MemorySubscriberStore keeps the subscriber list in process memory.
type MemorySubscriberStore struct {
	mu   sync.RWMutex
	list []string
}

func NewMemorySubscriberStore(initial ...string) *MemorySubscriberStore {
	return &MemorySubscriberStore{list: append([]string(nil), initial...)}
}

func (m *MemorySubscriberStore) Load(context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.list...), nil
}

func (m *MemorySubscriberStore) Add(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slices.Contains(m.list, id) {
		return false, nil
	}
	m.list = append(m.list, id)
	return true, nil
}

var (
	_ model.SessionStore    = (*MemorySessionStore)(nil)
	_ model.SubscriberStore = (*MemorySubscriberStore)(nil)
)
