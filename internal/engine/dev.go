package engine

import "fmt"

// Developer transitions. Machine.Invoke rejects them unless the player
// has DevMode set.

func (t *txn) forceStageChange(inv ForceStageChange) error {
	if inv.State == nil {
		return fmt.Errorf("%w: missing stage payload", ErrInvalidOperation)
	}
	next := inv.State.cloneStage()
	if ag, ok := next.(*ActiveGame); ok {
		if err := t.checkRound(&ag.Round); err != nil {
			return err
		}
		ag.Round.recomputeTotal()
	}
	t.setStage(next)
	return nil
}

// checkRound rejects a forced round that no sequence of transitions
// could have produced.
func (t *txn) checkRound(r *Round) error {
	if len(r.Selected) > t.maxSelected() {
		return fmt.Errorf("%w: %d dice selected, at most %d allowed", ErrInvalidOperation, len(r.Selected), t.maxSelected())
	}
	seen := make(map[int]bool, len(r.Selected))
	for _, i := range r.Selected {
		if i < 0 || i >= len(r.Dice) {
			return fmt.Errorf("%w: selected die %d out of range", ErrInvalidOperation, i)
		}
		if seen[i] {
			return fmt.Errorf("%w: die %d selected twice", ErrInvalidOperation, i)
		}
		seen[i] = true
	}
	if r.Rerolls < 0 {
		return fmt.Errorf("%w: rerolls cannot be negative", ErrInvalidOperation)
	}
	for i, slot := range r.Slots {
		if slot.Locked() && *slot.Value < 0 {
			return fmt.Errorf("%w: slot %d holds negative score %d", ErrInvalidOperation, i, *slot.Value)
		}
	}
	return nil
}

func (t *txn) setMoney(inv SetMoney) error {
	if inv.Amount < 0 {
		return fmt.Errorf("%w: currency cannot be negative", ErrInvalidOperation)
	}
	t.state.Player.Currency = inv.Amount
	t.emit(Event{Type: EventMoneySet, Data: map[string]any{"currency": inv.Amount}})
	return nil
}
