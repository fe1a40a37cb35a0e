package engine

// StateView is the read-only, JSON-friendly rendering of a State.
type StateView struct {
	Stage  string `json:"stage"`
	Player Player `json:"player"`

	Round    *RoundView `json:"round,omitempty"`
	GameLost *GameLost  `json:"game_lost,omitempty"`
	GameWon  *GameWon   `json:"game_won,omitempty"`
	Shop     *ShopView  `json:"shop,omitempty"`
}

// RoundView is a round plus the preview score of every open slot for the
// current selection.
type RoundView struct {
	Round
	Previews []int `json:"previews"`
}

// ShopView expands shop offers with their catalog details.
type ShopView struct {
	RerollCost int              `json:"reroll_cost"`
	Entries    []EntryOfferView `json:"entries"`
	Items      []ItemInfo       `json:"items"`
}

type EntryOfferView struct {
	ScoreCardEntry
	Owned int `json:"owned"`
}

// View renders the state. items resolves shop item offers; unknown items
// are rendered by id only.
func (s State) View(items *ItemRegistry) StateView {
	v := StateView{
		Stage:  s.Stage.Stage().String(),
		Player: s.Player.clone(),
	}

	switch st := s.Stage.(type) {
	case *ActiveGame:
		rv := &RoundView{Round: st.Round.clone(), Previews: make([]int, len(st.Round.Slots))}
		for i, slot := range st.Round.Slots {
			if slot.Locked() {
				rv.Previews[i] = *slot.Value
				continue
			}
			rv.Previews[i] = ScoreEntry(&st.Round, slot.Entry)
		}
		v.Round = rv
	case *GameLost:
		gl := *st
		v.GameLost = &gl
	case *GameWon:
		gw := *st
		v.GameWon = &gw
	case *Shop:
		sv := &ShopView{RerollCost: st.RerollCost, Items: []ItemInfo{}, Entries: []EntryOfferView{}}
		for _, id := range st.AvailableEntries {
			e, _ := LookupEntry(id)
			e.ID = id
			sv.Entries = append(sv.Entries, EntryOfferView{ScoreCardEntry: e, Owned: s.Player.OwnedCount(id)})
		}
		for _, id := range st.AvailableItems {
			info := ItemInfo{ID: id}
			if items != nil {
				if it, err := items.Get(id); err == nil {
					info = Describe(it)
				}
			}
			sv.Items = append(sv.Items, info)
		}
		v.Shop = sv
	}
	return v
}

// View renders the machine's current state.
func (m *Machine) View() StateView {
	return m.state.View(m.items)
}
