package session

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"dicebound/internal/engine"
)

var ErrNotFound = errors.New("session not found")

// Manager manages every live session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	cfg   engine.Config
	items *engine.ItemRegistry
	seed  uint64 // 0 draws a fresh seed per session
	count uint64
}

func NewManager(cfg engine.Config, items *engine.ItemRegistry, seed uint64) *Manager {
	if items == nil {
		items = engine.NewItemRegistry()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		items:    items,
		seed:     seed,
	}
}

// Create starts a new run at the main menu.
func (m *Manager) Create() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seed, err := m.nextSeed()
	if err != nil {
		return nil, err
	}
	s := newSession(uuid.NewString(), engine.NewMachine(m.cfg, m.items, engine.NewSource(seed)))
	m.sessions[s.ID] = s
	return s, nil
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Remove drops a session. Unknown ids are ignored.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Expire removes every session idle since before cutoff unless keep
// reports it is still in use. It returns the removed ids.
func (m *Manager) Expire(cutoff time.Time, keep func(*Session) bool) []string {
	m.mu.Lock()
	var idle []*Session
	for _, s := range m.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
		}
	}
	m.mu.Unlock()

	var removed []string
	for _, s := range idle {
		if keep != nil && keep(s) {
			continue
		}
		m.Remove(s.ID)
		removed = append(removed, s.ID)
	}
	return removed
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) Items() *engine.ItemRegistry { return m.items }

// nextSeed derives a per-session seed. A fixed base seed makes the n-th
// session reproducible.
func (m *Manager) nextSeed() (uint64, error) {
	m.count++
	if m.seed != 0 {
		return m.seed + m.count - 1, nil
	}
	return NewSeed()
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
