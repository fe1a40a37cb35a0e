package engine

import "fmt"

// ItemID identifies a purchasable upgrade.
type ItemID string

const (
	ItemRerolls ItemID = "rerolls"
	ItemDie     ItemID = "die"
)

// Item is a shop upgrade that permanently changes the player's run.
type Item interface {
	ID() ItemID
	Name() string
	Description() string
	ShopCost() int
	// Apply mutates the persistent player state.
	Apply(p *Player)
}

// ItemInfo is the serialisable description of an item.
type ItemInfo struct {
	ID          ItemID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ShopCost    int    `json:"shop_cost"`
}

// ItemRegistry maps item ids to their implementations, keeping
// registration order for uniform shop draws.
type ItemRegistry struct {
	items map[ItemID]Item
	order []ItemID
}

func NewItemRegistry() *ItemRegistry {
	return &ItemRegistry{items: make(map[ItemID]Item)}
}

// Register adds or replaces an item.
func (r *ItemRegistry) Register(it Item) {
	if _, ok := r.items[it.ID()]; !ok {
		r.order = append(r.order, it.ID())
	}
	r.items[it.ID()] = it
}

func (r *ItemRegistry) Get(id ItemID) (Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("no item registered with id %q", id)
	}
	return it, nil
}

// IDs returns registered ids in registration order.
func (r *ItemRegistry) IDs() []ItemID {
	return append([]ItemID(nil), r.order...)
}

// All describes every registered item in registration order.
func (r *ItemRegistry) All() []ItemInfo {
	out := make([]ItemInfo, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, Describe(r.items[id]))
	}
	return out
}

func (r *ItemRegistry) Len() int { return len(r.order) }

// Describe converts an item into its serialisable form.
func Describe(it Item) ItemInfo {
	return ItemInfo{
		ID:          it.ID(),
		Name:        it.Name(),
		Description: it.Description(),
		ShopCost:    it.ShopCost(),
	}
}
