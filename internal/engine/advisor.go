package engine

// Advice is the best scoring move available from the current dice.
type Advice struct {
	Dice  []int   `json:"dice"`  // die indices to select
	Slot  int     `json:"slot"`  // slot to lock, -1 when nothing is open
	Entry EntryID `json:"entry"` // entry bound to Slot
	Score int     `json:"score"`
}

// MostValuableDice tries every HandSize-combination of dice against every
// open slot and returns the highest scoring pairing. Ties keep the first
// combination in lexicographic order, then the first slot. The round is
// not modified.
func MostValuableDice(r *Round) Advice {
	best := Advice{Slot: -1}
	if len(r.Dice) < HandSize {
		return best
	}

	hand := make([]int, HandSize)
	for _, combo := range Combinations(len(r.Dice), HandSize) {
		for i, idx := range combo {
			hand[i] = r.Dice[idx]
		}
		for si, slot := range r.Slots {
			if slot.Locked() {
				continue
			}
			e, ok := LookupEntry(slot.Entry)
			if !ok {
				continue
			}
			score := e.Score(hand)
			if best.Slot < 0 || score > best.Score {
				best = Advice{Dice: combo, Slot: si, Entry: slot.Entry, Score: score}
			}
		}
	}
	return best
}
