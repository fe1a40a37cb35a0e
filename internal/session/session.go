// Package session keeps the runs hosted by the server. Each session owns
// one engine.Machine and serialises invocations against it.
package session

import (
	"fmt"
	"sync"
	"time"

	"dicebound/internal/engine"
)

// Session is one run of the game.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	machine    *engine.Machine
	lastActive time.Time
}

func newSession(id string, m *engine.Machine) *Session {
	now := time.Now()
	return &Session{ID: id, CreatedAt: now, machine: m, lastActive: now}
}

// LastActive is the time of the last invocation, or creation.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Invoke runs inv and returns the emitted events with the resulting view.
// On error the view reflects the unchanged state.
func (s *Session) Invoke(inv engine.Invocation) ([]engine.Event, engine.StateView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	events, err := s.machine.Invoke(inv)
	return events, s.machine.View(), err
}

// View renders the current state.
func (s *Session) View() engine.StateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.View()
}

// Stage returns the active stage.
func (s *Session) Stage() engine.Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Stage()
}

// Advice runs the advisor against the active round.
func (s *Session) Advice() (engine.Advice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ag, ok := s.machine.Snapshot().Stage.(*engine.ActiveGame)
	if !ok {
		return engine.Advice{}, fmt.Errorf("%w: no round in stage %s", engine.ErrInvalidOperation, s.machine.Stage())
	}
	return engine.MostValuableDice(&ag.Round), nil
}
