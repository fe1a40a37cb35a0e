package items

import "dicebound/internal/engine"

// Rerolls: one extra reroll every turn for the rest of the run.
type Rerolls struct{}

func (Rerolls) ID() engine.ItemID      { return engine.ItemRerolls }
func (Rerolls) Name() string           { return "Rerolls" }
func (Rerolls) Description() string    { return "Gain an extra reroll" }
func (Rerolls) ShopCost() int          { return 3 }
func (Rerolls) Apply(p *engine.Player) { p.BaseRerolls++ }
