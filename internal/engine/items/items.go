// Package items holds the shop upgrades that can be bought between rounds.
package items

import "dicebound/internal/engine"

// Register adds the built-in items to r in shop order.
func Register(r *engine.ItemRegistry) {
	r.Register(Rerolls{})
	r.Register(Die{})
}

// NewRegistry returns a registry holding the built-in items.
func NewRegistry() *engine.ItemRegistry {
	r := engine.NewItemRegistry()
	Register(r)
	return r
}
