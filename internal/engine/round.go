package engine

import (
	"fmt"
	"math"
	"math/big"
	"slices"
)

// ScoreCardSlot binds one owned copy of a catalog entry to an optional
// locked value. Value is nil until the slot is scored.
type ScoreCardSlot struct {
	Entry EntryID `json:"entry"`
	Value *int    `json:"value"`
}

// Locked reports whether the slot already holds a value.
func (s ScoreCardSlot) Locked() bool { return s.Value != nil }

// Round is the per-round mutable state.
type Round struct {
	Dice        []int           `json:"dice"`
	Selected    []int           `json:"selected"` // set of dice indices, in selection order
	Rerolls     int             `json:"rerolls"`
	Slots       []ScoreCardSlot `json:"slots"`
	TotalScore  int             `json:"total_score"`
	TargetScore int             `json:"target_score"`
}

func newRound(p Player, cfg Config) Round {
	slots := make([]ScoreCardSlot, len(p.ScoreCardContents))
	for i, id := range p.ScoreCardContents {
		slots[i] = ScoreCardSlot{Entry: id}
	}
	return Round{
		Dice:        make([]int, p.DiceCount),
		Selected:    []int{},
		Rerolls:     p.BaseRerolls + 1,
		Slots:       slots,
		TargetScore: TargetScore(cfg.TargetBase, cfg.TargetGrowthPct, p.CompletedRounds),
	}
}

// TargetScore is ceil(base × (growthPct/100)^completed), computed exactly.
func TargetScore(base, growthPct, completed int) int {
	if completed < 0 {
		completed = 0
	}
	num := new(big.Int).Exp(big.NewInt(int64(growthPct)), big.NewInt(int64(completed)), nil)
	num.Mul(num, big.NewInt(int64(base)))
	den := new(big.Int).Exp(big.NewInt(100), big.NewInt(int64(completed)), nil)

	q, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	if !q.IsInt64() || q.Int64() > math.MaxInt {
		return math.MaxInt
	}
	return int(q.Int64())
}

// IsSelected reports whether die i is selected.
func (r *Round) IsSelected(i int) bool {
	return slices.Contains(r.Selected, i)
}

// Hand returns the values of the selected dice in selection order.
func (r *Round) Hand() []int {
	hand := make([]int, 0, len(r.Selected))
	for _, i := range r.Selected {
		if i >= 0 && i < len(r.Dice) {
			hand = append(hand, r.Dice[i])
		}
	}
	return hand
}

// UnsetSlots counts slots that are still open.
func (r *Round) UnsetSlots() int {
	n := 0
	for _, s := range r.Slots {
		if !s.Locked() {
			n++
		}
	}
	return n
}

func (r *Round) recomputeTotal() {
	total := 0
	for _, s := range r.Slots {
		if s.Locked() {
			total += *s.Value
		}
	}
	r.TotalScore = total
}

func (r Round) clone() Round {
	out := r
	out.Dice = slices.Clone(r.Dice)
	out.Selected = slices.Clone(r.Selected)
	if out.Selected == nil {
		out.Selected = []int{}
	}
	out.Slots = make([]ScoreCardSlot, len(r.Slots))
	for i, s := range r.Slots {
		out.Slots[i] = ScoreCardSlot{Entry: s.Entry}
		if s.Value != nil {
			v := *s.Value
			out.Slots[i].Value = &v
		}
	}
	return out
}

// ScoreEntry previews what entry would score on the current selection.
// It is 0 unless exactly HandSize dice are selected.
func ScoreEntry(r *Round, id EntryID) int {
	if len(r.Selected) != HandSize {
		return 0
	}
	e, ok := LookupEntry(id)
	if !ok {
		return 0
	}
	return e.Score(r.Hand())
}

// beginRound builds a fresh round from the player and rolls every die.
func (t *txn) beginRound() error {
	t.setStage(&ActiveGame{Round: newRound(t.state.Player, t.cfg)})
	return t.rollDice(RollDice{RollAll: true})
}

func (t *txn) rollDice(inv RollDice) error {
	ag, err := t.activeGame()
	if err != nil {
		return err
	}
	r := &ag.Round
	if r.Rerolls <= 0 {
		return fmt.Errorf("%w: no rerolls remaining", ErrInvalidOperation)
	}

	all := inv.RollAll || len(r.Selected) == 0
	for i := range r.Dice {
		if all || r.IsSelected(i) {
			r.Dice[i] = rollDie(t.src)
		}
	}
	r.Rerolls--

	t.emit(Event{Type: EventDiceRolled, Data: map[string]any{
		"dice": slices.Clone(r.Dice), "rerolls": r.Rerolls, "all": all,
	}})
	return nil
}

func (t *txn) sortDice(SortDice) error {
	ag, err := t.activeGame()
	if err != nil {
		return err
	}
	slices.Sort(ag.Round.Dice)
	ag.Round.Selected = []int{}
	t.emit(Event{Type: EventDiceSorted, Data: map[string]any{"dice": slices.Clone(ag.Round.Dice)}})
	return nil
}

func (t *txn) toggleDice(inv ToggleDice) error {
	ag, err := t.activeGame()
	if err != nil {
		return err
	}
	r := &ag.Round
	if inv.Index < 0 || inv.Index >= len(r.Dice) {
		return fmt.Errorf("%w: die %d out of range", ErrInvalidOperation, inv.Index)
	}

	if i := slices.Index(r.Selected, inv.Index); i >= 0 {
		r.Selected = slices.Delete(r.Selected, i, i+1)
	} else {
		if len(r.Selected) >= t.maxSelected() {
			return fmt.Errorf("%w: cannot select more than %d dice", ErrInvalidOperation, t.maxSelected())
		}
		r.Selected = append(r.Selected, inv.Index)
	}

	t.emit(Event{Type: EventDiceToggled, Data: map[string]any{
		"index": inv.Index, "selected": r.IsSelected(inv.Index),
	}})
	return nil
}

func (t *txn) maxSelected() int {
	if t.cfg.MaxSelectedDice <= 0 || t.cfg.MaxSelectedDice > HandSize {
		return HandSize
	}
	return t.cfg.MaxSelectedDice
}

func (t *txn) unselectDice(UnselectDice) error {
	ag, err := t.activeGame()
	if err != nil {
		return err
	}
	ag.Round.Selected = []int{}
	t.emit(Event{Type: EventSelectionCleared})
	return nil
}

func (t *txn) resetRerolls(ResetRerolls) error {
	ag, err := t.activeGame()
	if err != nil {
		return err
	}
	ag.Round.Rerolls = t.state.Player.BaseRerolls + 1
	t.emit(Event{Type: EventRerollsReset, Data: map[string]any{"rerolls": ag.Round.Rerolls}})
	return nil
}

func (t *txn) updateScoreCardValue(inv UpdateScoreCardValue) error {
	ag, err := t.activeGame()
	if err != nil {
		return err
	}
	r := &ag.Round
	if inv.Index < 0 || inv.Index >= len(r.Slots) {
		return fmt.Errorf("%w: slot %d out of range", ErrInvalidOperation, inv.Index)
	}
	if r.Slots[inv.Index].Locked() {
		return fmt.Errorf("%w: slot %d is already set", ErrInvalidOperation, inv.Index)
	}
	if len(r.Selected) != HandSize {
		return fmt.Errorf("%w: exactly %d dice must be selected to score, have %d",
			ErrInvalidOperation, HandSize, len(r.Selected))
	}
	if inv.Value < 0 {
		return fmt.Errorf("%w: score %d is negative", ErrInvalidOperation, inv.Value)
	}

	v := inv.Value
	r.Slots[inv.Index].Value = &v
	r.recomputeTotal()
	t.emit(Event{Type: EventSlotLocked, Data: map[string]any{
		"index": inv.Index, "entry": r.Slots[inv.Index].Entry, "value": v, "total_score": r.TotalScore,
	}})

	if r.TotalScore >= r.TargetScore {
		earned := r.UnsetSlots()
		t.setStage(&GameWon{UnusedCardEarnings: earned, TotalEarnings: earned})
		t.state.Player.Currency += earned
		t.state.Player.CompletedRounds++
		t.emit(Event{Type: EventRoundWon, Data: map[string]any{
			"earnings": earned, "currency": t.state.Player.Currency,
		}})
		return nil
	}

	if r.UnsetSlots() > 0 {
		if err := t.resetRerolls(ResetRerolls{}); err != nil {
			return err
		}
		if err := t.unselectDice(UnselectDice{}); err != nil {
			return err
		}
		return t.rollDice(RollDice{RollAll: true})
	}

	total, target := r.TotalScore, r.TargetScore
	t.setStage(&GameLost{TotalScore: total, TargetScore: target})
	t.emit(Event{Type: EventRoundLost, Data: map[string]any{
		"total_score": total, "target_score": target,
	}})
	return nil
}
