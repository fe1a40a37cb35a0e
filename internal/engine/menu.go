package engine

import "fmt"

func (t *txn) beginGame(BeginGame) error {
	t.state.Player = NewPlayer(t.cfg)
	if t.cfg.SkipLoadoutSelect {
		return t.applyLoadout(t.cfg.DefaultLoadout)
	}
	t.setStage(&LoadoutSelect{})
	return nil
}

func (t *txn) selectLoadout(inv SelectLoadout) error {
	return t.applyLoadout(inv.Loadout)
}

func (t *txn) applyLoadout(id LoadoutID) error {
	l, ok := LookupLoadout(id)
	if !ok {
		return fmt.Errorf("%w: unknown loadout %q", ErrInvalidOperation, id)
	}
	p := &t.state.Player
	p.DiceCount = l.Dice
	p.BaseRerolls = l.Rerolls
	p.ScoreCardContents = l.Contents()

	t.emit(Event{Type: EventLoadoutSelected, Data: map[string]any{
		"loadout": l.ID, "dice": l.Dice, "rerolls": l.Rerolls,
	}})
	return t.beginRound()
}

// reset returns the run to the main menu. Developer mode survives a reset.
func (t *txn) reset(Reset) error {
	from := t.state.Stage.Stage()
	dev := t.state.Player.DevMode
	*t.state = initialState(t.cfg)
	t.state.Player.DevMode = dev
	t.emit(Event{Type: EventReset})
	if from != StageMainMenu {
		t.emit(stageChange(from, StageMainMenu))
	}
	return nil
}
