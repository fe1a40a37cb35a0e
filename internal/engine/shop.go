package engine

import (
	"fmt"
	"slices"
)

// NextRerollCost escalates a shop reroll cost by growthPct percent,
// rounding up. A non-positive previous cost starts from 1.
func NextRerollCost(prev, growthPct int) int {
	if prev <= 0 {
		prev = 1
	}
	return (prev*growthPct + 99) / 100
}

// rollShop builds a fresh set of offers. The reroll cost escalates from
// the current shop's cost, or from the last cost of the run when entering
// a new shop visit.
func (t *txn) rollShop() *Shop {
	basis := t.state.Player.ShopRerollCost
	if s, ok := t.state.Stage.(*Shop); ok {
		basis = s.RerollCost
	}
	cost := NextRerollCost(basis, t.cfg.RerollGrowthPct)
	t.state.Player.ShopRerollCost = cost

	ids := EntryIDs()
	offers := make([]EntryID, 0, t.cfg.ShopEntryOffers)
	for range t.cfg.ShopEntryOffers {
		offers = append(offers, ids[t.src.IntN(len(ids))])
	}

	itemIDs := t.items.IDs()
	items := make([]ItemID, 0, t.cfg.ShopItemOffers)
	if len(itemIDs) > 0 {
		for range t.cfg.ShopItemOffers {
			items = append(items, itemIDs[t.src.IntN(len(itemIDs))])
		}
	}

	return &Shop{RerollCost: cost, AvailableEntries: offers, AvailableItems: items}
}

func (t *txn) enterShop(s *Shop) {
	t.setStage(s)
	t.emit(Event{Type: EventShopRolled, Data: map[string]any{
		"reroll_cost": s.RerollCost,
		"entries":     slices.Clone(s.AvailableEntries),
		"items":       slices.Clone(s.AvailableItems),
	}})
}

func (t *txn) continueToShop(Continue) error {
	t.enterShop(t.rollShop())
	return nil
}

func (t *txn) buyScoreCardEntry(inv BuyScoreCardEntry) error {
	s, err := t.shop()
	if err != nil {
		return err
	}
	if inv.Index < 0 || inv.Index >= len(s.AvailableEntries) {
		return fmt.Errorf("%w: no score card entry offer at %d", ErrInvalidSelection, inv.Index)
	}
	id := s.AvailableEntries[inv.Index]
	entry, ok := LookupEntry(id)
	if !ok {
		return fmt.Errorf("%w: unknown score card entry %q", ErrInvalidSelection, id)
	}
	p := &t.state.Player
	if p.Currency < entry.ShopCost {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientFunds, entry.Name, entry.ShopCost, p.Currency)
	}

	s.AvailableEntries = slices.Delete(s.AvailableEntries, inv.Index, inv.Index+1)
	p.Currency -= entry.ShopCost
	p.ScoreCardContents = append(p.ScoreCardContents, id)

	t.emit(Event{Type: EventEntryBought, Data: map[string]any{
		"entry": id, "cost": entry.ShopCost, "currency": p.Currency,
	}})
	return nil
}

func (t *txn) buyItem(inv BuyItem) error {
	s, err := t.shop()
	if err != nil {
		return err
	}
	if inv.Index < 0 || inv.Index >= len(s.AvailableItems) {
		return fmt.Errorf("%w: no item offer at %d", ErrInvalidSelection, inv.Index)
	}
	item, err := t.items.Get(s.AvailableItems[inv.Index])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}
	p := &t.state.Player
	if p.Currency < item.ShopCost() {
		return fmt.Errorf("%w: %s costs %d, have %d", ErrInsufficientFunds, item.Name(), item.ShopCost(), p.Currency)
	}

	s.AvailableItems = slices.Delete(s.AvailableItems, inv.Index, inv.Index+1)
	p.Currency -= item.ShopCost()
	item.Apply(p)

	t.emit(Event{Type: EventItemBought, Data: map[string]any{
		"item": item.ID(), "cost": item.ShopCost(), "currency": p.Currency,
	}})
	return nil
}

func (t *txn) rerollShop(RerollShop) error {
	s, err := t.shop()
	if err != nil {
		return err
	}
	p := &t.state.Player
	if p.Currency < s.RerollCost {
		return fmt.Errorf("%w: reroll costs %d, have %d", ErrInsufficientFunds, s.RerollCost, p.Currency)
	}
	p.Currency -= s.RerollCost
	t.enterShop(t.rollShop())
	return nil
}

func (t *txn) exitShop(ExitShop) error {
	return t.beginRound()
}
