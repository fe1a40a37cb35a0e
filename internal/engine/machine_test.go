package engine_test

import (
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	"dicebound/internal/engine"
	"dicebound/internal/engine/items"
)

func TestNewMachine(t *testing.T) {
	m, _ := newTestMachine(t)
	if m.Stage() != engine.StageMainMenu {
		t.Fatalf("expected MainMenu stage, got %s", m.Stage())
	}
	p := m.Snapshot().Player
	if p.DiceCount != 5 || p.BaseRerolls != 3 || p.Currency != 0 {
		t.Errorf("unexpected starting player: %+v", p)
	}
}

func TestBeginGame(t *testing.T) {
	m, _ := newTestMachine(t)
	events := mustInvoke(t, m, engine.BeginGame{})
	if m.Stage() != engine.StageLoadoutSelect {
		t.Fatalf("expected LoadoutSelect, got %s", m.Stage())
	}
	if !hasEvent(events, engine.EventStageChange) {
		t.Error("expected stage_change event")
	}
}

func TestBeginGameSkipsLoadoutSelect(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.SkipLoadoutSelect = true
	cfg.DefaultLoadout = engine.LoadoutOneMoreRoll
	m := engine.NewMachine(cfg, items.NewRegistry(), &scriptedSource{})

	mustInvoke(t, m, engine.BeginGame{})
	r := currentRound(t, m)
	if len(r.Slots) != 10 {
		t.Errorf("expected 10 slots from one_more_roll, got %d", len(r.Slots))
	}
	if r.Rerolls != 10 {
		t.Errorf("expected 10 rerolls left after the opening roll, got %d", r.Rerolls)
	}
}

func TestIllegalTransitionLeavesStateUntouched(t *testing.T) {
	m, _ := newTestMachine(t)
	before := m.Snapshot()

	illegal := []engine.Invocation{
		engine.RollDice{},
		engine.SelectLoadout{Loadout: engine.LoadoutNewbie},
		engine.Continue{},
		engine.ExitShop{},
		engine.BuyItem{Index: 0},
		engine.UpdateScoreCardValue{Index: 0, Value: 10},
	}
	for _, inv := range illegal {
		expectErr(t, m, inv, engine.ErrIllegalTransition)
	}
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Error("rejected invocations changed state")
	}
}

func TestSelectLoadout(t *testing.T) {
	m, _ := newTestMachine(t)
	mustInvoke(t, m, engine.BeginGame{})
	expectErr(t, m, engine.SelectLoadout{Loadout: "nope"}, engine.ErrInvalidOperation)

	events := mustInvoke(t, m, engine.SelectLoadout{Loadout: engine.LoadoutLeaveItToFate})
	r := currentRound(t, m)
	if len(r.Dice) != 10 {
		t.Errorf("expected 10 dice, got %d", len(r.Dice))
	}
	for i, d := range r.Dice {
		if d < 1 || d > 6 {
			t.Errorf("die %d = %d, want rolled value", i, d)
		}
	}
	if r.Rerolls != 0 {
		t.Errorf("expected 0 rerolls left, got %d", r.Rerolls)
	}
	if r.TargetScore != 100 {
		t.Errorf("target score: got %d, want 100", r.TargetScore)
	}
	if !hasEvent(events, engine.EventLoadoutSelected) || !hasEvent(events, engine.EventDiceRolled) {
		t.Error("expected loadout_selected and dice_rolled events")
	}
}

func TestRollDice(t *testing.T) {
	m, src := newTestMachine(t)
	r := startRound(t, m, engine.LoadoutNewbie)
	if r.Rerolls != 3 {
		t.Fatalf("expected 3 rerolls after opening roll, got %d", r.Rerolls)
	}

	// Only the selected die changes.
	mustInvoke(t, m, engine.ToggleDice{Index: 2})
	src.push(5)
	mustInvoke(t, m, engine.RollDice{})
	r = currentRound(t, m)
	if r.Dice[2] != 6 {
		t.Errorf("selected die: got %d, want 6", r.Dice[2])
	}
	for _, i := range []int{0, 1, 3, 4} {
		if r.Dice[i] != 1 {
			t.Errorf("unselected die %d changed to %d", i, r.Dice[i])
		}
	}
	if r.Rerolls != 2 {
		t.Errorf("rerolls: got %d, want 2", r.Rerolls)
	}

	// RollAll ignores the selection.
	src.push(1, 1, 1, 1, 1)
	mustInvoke(t, m, engine.RollDice{RollAll: true})
	r = currentRound(t, m)
	for i, d := range r.Dice {
		if d != 2 {
			t.Errorf("die %d: got %d, want 2", i, d)
		}
	}

	mustInvoke(t, m, engine.RollDice{})
	r = currentRound(t, m)
	if r.Rerolls != 0 {
		t.Fatalf("rerolls: got %d, want 0", r.Rerolls)
	}
	before := m.Snapshot()
	expectErr(t, m, engine.RollDice{}, engine.ErrInvalidOperation)
	if !reflect.DeepEqual(before, m.Snapshot()) {
		t.Error("failed roll changed state")
	}
}

func TestToggleDiceCapsSelection(t *testing.T) {
	m, _ := newTestMachine(t)
	startRound(t, m, engine.LoadoutLeaveItToFate)

	for i := range 5 {
		mustInvoke(t, m, engine.ToggleDice{Index: i})
	}
	expectErr(t, m, engine.ToggleDice{Index: 7}, engine.ErrInvalidOperation)
	expectErr(t, m, engine.ToggleDice{Index: 10}, engine.ErrInvalidOperation)
	expectErr(t, m, engine.ToggleDice{Index: -1}, engine.ErrInvalidOperation)

	// Deselecting frees room for another die.
	mustInvoke(t, m, engine.ToggleDice{Index: 0})
	mustInvoke(t, m, engine.ToggleDice{Index: 7})
	r := currentRound(t, m)
	if len(r.Selected) != 5 || r.IsSelected(0) || !r.IsSelected(7) {
		t.Errorf("unexpected selection %v", r.Selected)
	}
}

func TestSelectionNeverExceedsFive(t *testing.T) {
	m, _ := newTestMachine(t)
	startRound(t, m, engine.LoadoutLeaveItToFate)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 500 {
		switch rng.IntN(3) {
		case 0:
			_, _ = m.Invoke(engine.ToggleDice{Index: rng.IntN(10)})
		case 1:
			_, _ = m.Invoke(engine.UnselectDice{})
		case 2:
			_, _ = m.Invoke(engine.RollDice{})
		}
		if r := currentRound(t, m); len(r.Selected) > engine.HandSize {
			t.Fatalf("selection grew to %d", len(r.Selected))
		}
	}
}

func TestSortDice(t *testing.T) {
	m, src := newTestMachine(t)
	mustInvoke(t, m, engine.BeginGame{})
	src.push(5, 0, 3, 1, 4)
	mustInvoke(t, m, engine.SelectLoadout{Loadout: engine.LoadoutNewbie})
	mustInvoke(t, m, engine.ToggleDice{Index: 1})

	mustInvoke(t, m, engine.SortDice{})
	r := currentRound(t, m)
	if !reflect.DeepEqual(r.Dice, []int{1, 2, 4, 5, 6}) {
		t.Errorf("sorted dice = %v", r.Dice)
	}
	if len(r.Selected) != 0 {
		t.Errorf("sort should clear selection, got %v", r.Selected)
	}
}

func TestResetRerolls(t *testing.T) {
	m, _ := newTestMachine(t)
	startRound(t, m, engine.LoadoutNewbie)
	mustInvoke(t, m, engine.RollDice{})
	mustInvoke(t, m, engine.ResetRerolls{})
	if r := currentRound(t, m); r.Rerolls != 4 {
		t.Errorf("rerolls: got %d, want 4", r.Rerolls)
	}
}

func TestUpdateScoreCardValue(t *testing.T) {
	m, _ := newTestMachine(t)
	startRound(t, m, engine.LoadoutNewbie)

	expectErr(t, m, engine.UpdateScoreCardValue{Index: 0, Value: 5}, engine.ErrInvalidOperation)

	selectHand(t, m)
	expectErr(t, m, engine.UpdateScoreCardValue{Index: 99, Value: 5}, engine.ErrInvalidOperation)
	expectErr(t, m, engine.UpdateScoreCardValue{Index: 0, Value: -1}, engine.ErrInvalidOperation)

	events := mustInvoke(t, m, engine.UpdateScoreCardValue{Index: 0, Value: 5})
	r := currentRound(t, m)
	if !r.Slots[0].Locked() || *r.Slots[0].Value != 5 {
		t.Fatalf("slot 0 = %+v", r.Slots[0])
	}
	if r.TotalScore != 5 {
		t.Errorf("total score: got %d, want 5", r.TotalScore)
	}
	// Next turn starts fresh.
	if len(r.Selected) != 0 || r.Rerolls != 3 {
		t.Errorf("expected cleared selection and 3 rerolls, got %v / %d", r.Selected, r.Rerolls)
	}
	if !hasEvent(events, engine.EventSlotLocked) || !hasEvent(events, engine.EventDiceRolled) {
		t.Error("expected slot_locked and dice_rolled events")
	}

	selectHand(t, m)
	expectErr(t, m, engine.UpdateScoreCardValue{Index: 0, Value: 20}, engine.ErrInvalidOperation)
	if r := currentRound(t, m); r.TotalScore != 5 {
		t.Errorf("total changed after rejected lock: %d", r.TotalScore)
	}
}

func TestTotalScoreMatchesLockedSlots(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for run := range 20 {
		m, _ := newTestMachine(t)
		startRound(t, m, engine.LoadoutNewbie)

		for m.Stage() == engine.StageActiveGame {
			r := currentRound(t, m)
			selectHand(t, m)
			idx := rng.IntN(len(r.Slots))
			_, err := m.Invoke(engine.UpdateScoreCardValue{Index: idx, Value: rng.IntN(16)})
			if err != nil && r.Slots[idx].Locked() {
				mustInvoke(t, m, engine.UnselectDice{})
				continue
			}
			if err != nil {
				t.Fatalf("run %d: lock open slot %d: %v", run, idx, err)
			}
			if m.Stage() != engine.StageActiveGame {
				break
			}
			r = currentRound(t, m)
			sum := 0
			for _, s := range r.Slots {
				if s.Locked() {
					sum += *s.Value
				}
			}
			if sum != r.TotalScore {
				t.Fatalf("run %d: total %d, sum of slots %d", run, r.TotalScore, sum)
			}
		}
	}
}

func TestRoundWon(t *testing.T) {
	m, _ := newTestMachine(t)
	startRound(t, m, engine.LoadoutNewbie)

	selectHand(t, m)
	mustInvoke(t, m, engine.UpdateScoreCardValue{Index: 3, Value: 60})
	selectHand(t, m)
	events := mustInvoke(t, m, engine.UpdateScoreCardValue{Index: 7, Value: 40})

	st := m.Snapshot()
	won, ok := st.Stage.(*engine.GameWon)
	if !ok {
		t.Fatalf("expected GameWon, got %s", m.Stage())
	}
	if won.UnusedCardEarnings != 11 || won.TotalEarnings != 11 {
		t.Errorf("earnings = %+v, want 11/11", won)
	}
	if st.Player.Currency != 11 {
		t.Errorf("currency: got %d, want 11", st.Player.Currency)
	}
	if st.Player.CompletedRounds != 1 {
		t.Errorf("completed rounds: got %d, want 1", st.Player.CompletedRounds)
	}
	if !hasEvent(events, engine.EventRoundWon) {
		t.Error("expected round_won event")
	}
}

func TestRoundLost(t *testing.T) {
	m, _ := newTestMachine(t)
	startRound(t, m, engine.LoadoutOneMoreRoll)

	for i := range 10 {
		selectHand(t, m)
		mustInvoke(t, m, engine.UpdateScoreCardValue{Index: i, Value: 2})
	}

	lost, ok := m.Snapshot().Stage.(*engine.GameLost)
	if !ok {
		t.Fatalf("expected GameLost, got %s", m.Stage())
	}
	if lost.TotalScore != 20 || lost.TargetScore != 100 {
		t.Errorf("lost = %+v, want 20/100", lost)
	}
	expectErr(t, m, engine.Continue{}, engine.ErrIllegalTransition)

	mustInvoke(t, m, engine.Reset{})
	if m.Stage() != engine.StageMainMenu {
		t.Errorf("expected MainMenu after reset, got %s", m.Stage())
	}
}

func TestScoreEntryPreview(t *testing.T) {
	r := &engine.Round{
		Dice:     []int{6, 2, 6, 6, 3, 6, 6},
		Selected: []int{0, 2, 3, 5},
	}
	if got := engine.ScoreEntry(r, engine.EntryYahtzee); got != 0 {
		t.Errorf("four selected dice should preview 0, got %d", got)
	}
	r.Selected = append(r.Selected, 6)
	if got := engine.ScoreEntry(r, engine.EntryYahtzee); got != 50 {
		t.Errorf("yahtzee preview: got %d, want 50", got)
	}
	if got := engine.ScoreEntry(r, engine.EntryChance); got != 30 {
		t.Errorf("chance uses only selected dice: got %d, want 30", got)
	}
}

func TestDevTransitions(t *testing.T) {
	cfg := engine.DefaultConfig()
	m := engine.NewMachine(cfg, items.NewRegistry(), &scriptedSource{})
	expectErr(t, m, engine.ForceStageChange{State: &engine.GameWon{}}, engine.ErrInvalidOperation)

	m, _ = newTestMachine(t)
	mustInvoke(t, m, engine.ForceStageChange{State: &engine.Shop{RerollCost: 4}})
	if m.Stage() != engine.StageShop {
		t.Fatalf("expected Shop, got %s", m.Stage())
	}
	mustInvoke(t, m, engine.SetMoney{Amount: 9})
	if got := m.Snapshot().Player.Currency; got != 9 {
		t.Errorf("currency: got %d, want 9", got)
	}
	expectErr(t, m, engine.SetMoney{Amount: -1}, engine.ErrInvalidOperation)
	expectErr(t, m, engine.ForceStageChange{}, engine.ErrInvalidOperation)
}

func TestReset(t *testing.T) {
	m, _ := newTestMachine(t)
	startRound(t, m, engine.LoadoutLeaveItToFate)
	winRound(t, m)

	events := mustInvoke(t, m, engine.Reset{})
	st := m.Snapshot()
	if _, ok := st.Stage.(*engine.MainMenu); !ok {
		t.Fatalf("expected MainMenu, got %s", m.Stage())
	}
	if st.Player.Currency != 0 || st.Player.CompletedRounds != 0 || st.Player.DiceCount != 5 {
		t.Errorf("player not reset: %+v", st.Player)
	}
	if !st.Player.DevMode {
		t.Error("dev mode should survive reset")
	}
	if !hasEvent(events, engine.EventReset) {
		t.Error("expected reset event")
	}
}

func TestForceStageChangeRejectsImpossibleRounds(t *testing.T) {
	neg := -3
	tests := []struct {
		name  string
		round engine.Round
	}{
		{"duplicate selection", engine.Round{Dice: []int{1, 2, 3, 4, 5, 6}, Selected: []int{0, 0, 1}}},
		{"too many selected", engine.Round{Dice: []int{1, 2, 3, 4, 5, 6, 6}, Selected: []int{0, 1, 2, 3, 4, 5}}},
		{"selection out of range", engine.Round{Dice: []int{1, 2}, Selected: []int{2}}},
		{"negative rerolls", engine.Round{Dice: []int{1, 2, 3, 4, 5}, Rerolls: -1}},
		{"negative slot", engine.Round{
			Dice:  []int{1, 2, 3, 4, 5},
			Slots: []engine.ScoreCardSlot{{Entry: engine.EntryChance, Value: &neg}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t)
			before := m.Snapshot()
			expectErr(t, m, engine.ForceStageChange{State: &engine.ActiveGame{Round: tt.round}}, engine.ErrInvalidOperation)
			if !reflect.DeepEqual(before, m.Snapshot()) {
				t.Error("rejected force changed state")
			}
		})
	}

	m, _ := newTestMachine(t)
	five := 5
	mustInvoke(t, m, engine.ForceStageChange{State: &engine.ActiveGame{Round: engine.Round{
		Dice:        []int{6, 6, 6, 6, 6, 1},
		Selected:    []int{5, 0, 1, 2, 3},
		Rerolls:     2,
		Slots:       []engine.ScoreCardSlot{{Entry: engine.EntryAces, Value: &five}, {Entry: engine.EntryYahtzee}},
		TotalScore:  999,
		TargetScore: 100,
	}}})
	if r := currentRound(t, m); r.TotalScore != 5 {
		t.Errorf("total score: got %d, want 5 recomputed from slots", r.TotalScore)
	}
}

func TestForceStageChangeNotFromLoadoutSelect(t *testing.T) {
	m, _ := newTestMachine(t)
	mustInvoke(t, m, engine.BeginGame{})
	expectErr(t, m, engine.ForceStageChange{State: &engine.Shop{}}, engine.ErrIllegalTransition)

	stages, ok := engine.PermittedStages(engine.TransitionForceStageChange)
	if !ok || slices.Contains(stages, engine.StageLoadoutSelect) {
		t.Fatalf("permitted stages = %v", stages)
	}
	for _, stage := range []engine.Stage{engine.StageMainMenu, engine.StageActiveGame, engine.StageGameLost, engine.StageGameWon, engine.StageShop} {
		if !slices.Contains(stages, stage) {
			t.Errorf("force stage change should be permitted from %s", stage)
		}
	}
}
