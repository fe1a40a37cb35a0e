package engine

// Player holds the state that persists across rounds of a run.
type Player struct {
	Currency          int       `json:"currency"`
	DiceCount         int       `json:"dice_count"`
	BaseRerolls       int       `json:"base_rerolls"`
	ScoreCardContents []EntryID `json:"score_card_contents"`
	CompletedRounds   int       `json:"completed_rounds"`
	DevMode           bool      `json:"dev_mode"`

	// Last shop reroll cost of the run; 0 until the first shop visit.
	ShopRerollCost int `json:"shop_reroll_cost"`
}

// NewPlayer returns the starting state of a run for the given config.
func NewPlayer(cfg Config) Player {
	return Player{
		DiceCount:         cfg.StartingDice,
		BaseRerolls:       cfg.StartingRerolls,
		ScoreCardContents: EntryIDs(),
		DevMode:           cfg.DevMode,
	}
}

// OwnedCount returns how many copies of id the player owns.
func (p *Player) OwnedCount(id EntryID) int {
	n := 0
	for _, e := range p.ScoreCardContents {
		if e == id {
			n++
		}
	}
	return n
}

func (p Player) clone() Player {
	out := p
	out.ScoreCardContents = append([]EntryID(nil), p.ScoreCardContents...)
	return out
}
