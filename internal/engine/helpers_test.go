package engine_test

import (
	"errors"
	"testing"

	"dicebound/internal/engine"
	"dicebound/internal/engine/items"
)

// scriptedSource replays queued values and returns 0 once empty.
type scriptedSource struct {
	queue []int
}

func (s *scriptedSource) push(vals ...int) { s.queue = append(s.queue, vals...) }

func (s *scriptedSource) IntN(n int) int {
	if len(s.queue) == 0 {
		return 0
	}
	v := s.queue[0]
	s.queue = s.queue[1:]
	return v % n
}

func newTestMachine(t *testing.T) (*engine.Machine, *scriptedSource) {
	t.Helper()
	cfg := engine.DefaultConfig()
	cfg.DevMode = true
	src := &scriptedSource{}
	return engine.NewMachine(cfg, items.NewRegistry(), src), src
}

func mustInvoke(t *testing.T, m *engine.Machine, inv engine.Invocation) []engine.Event {
	t.Helper()
	events, err := m.Invoke(inv)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", inv.Kind(), err)
	}
	return events
}

func expectErr(t *testing.T, m *engine.Machine, inv engine.Invocation, want error) {
	t.Helper()
	_, err := m.Invoke(inv)
	if !errors.Is(err, want) {
		t.Fatalf("%s: got error %v, want %v", inv.Kind(), err, want)
	}
}

// startRound moves a fresh machine into an active round with the given loadout.
func startRound(t *testing.T, m *engine.Machine, loadout engine.LoadoutID) *engine.Round {
	t.Helper()
	mustInvoke(t, m, engine.BeginGame{})
	mustInvoke(t, m, engine.SelectLoadout{Loadout: loadout})
	return currentRound(t, m)
}

func currentRound(t *testing.T, m *engine.Machine) *engine.Round {
	t.Helper()
	ag, ok := m.Snapshot().Stage.(*engine.ActiveGame)
	if !ok {
		t.Fatalf("expected ActiveGame stage, got %s", m.Stage())
	}
	return &ag.Round
}

func currentShop(t *testing.T, m *engine.Machine) *engine.Shop {
	t.Helper()
	s, ok := m.Snapshot().Stage.(*engine.Shop)
	if !ok {
		t.Fatalf("expected Shop stage, got %s", m.Stage())
	}
	return s
}

// selectHand selects the first five dice.
func selectHand(t *testing.T, m *engine.Machine) {
	t.Helper()
	for i := range engine.HandSize {
		mustInvoke(t, m, engine.ToggleDice{Index: i})
	}
}

// winRound scores the first slot high enough to clear the target.
func winRound(t *testing.T, m *engine.Machine) {
	t.Helper()
	r := currentRound(t, m)
	selectHand(t, m)
	mustInvoke(t, m, engine.UpdateScoreCardValue{Index: 0, Value: r.TargetScore})
	if m.Stage() != engine.StageGameWon {
		t.Fatalf("expected GameWon after clearing target, got %s", m.Stage())
	}
}

func hasEvent(events []engine.Event, typ engine.EventType) bool {
	for _, ev := range events {
		if ev.Type == typ {
			return true
		}
	}
	return false
}
