package items

import "dicebound/internal/engine"

// Die: one extra die in every round. Only five dice score at a time, so
// extra dice widen the choice of hand.
type Die struct{}

func (Die) ID() engine.ItemID      { return engine.ItemDie }
func (Die) Name() string           { return "Die" }
func (Die) Description() string    { return "Gain an extra die" }
func (Die) ShopCost() int          { return 3 }
func (Die) Apply(p *engine.Player) { p.DiceCount++ }
