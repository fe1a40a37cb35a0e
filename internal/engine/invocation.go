package engine

// TransitionKind names a transition that Machine.Invoke can dispatch.
type TransitionKind string

const (
	TransitionBeginGame            TransitionKind = "begin_game"
	TransitionSelectLoadout        TransitionKind = "select_loadout"
	TransitionRollDice             TransitionKind = "roll_dice"
	TransitionSortDice             TransitionKind = "sort_dice"
	TransitionToggleDice           TransitionKind = "toggle_dice"
	TransitionUnselectDice         TransitionKind = "unselect_dice"
	TransitionResetRerolls         TransitionKind = "reset_rerolls"
	TransitionUpdateScoreCardValue TransitionKind = "update_score_card_value"
	TransitionBuyScoreCardEntry    TransitionKind = "buy_score_card_entry"
	TransitionBuyItem              TransitionKind = "buy_item"
	TransitionRerollShop           TransitionKind = "reroll_shop"
	TransitionExitShop             TransitionKind = "exit_shop"
	TransitionContinue             TransitionKind = "continue"
	TransitionReset                TransitionKind = "reset"
	TransitionForceStageChange     TransitionKind = "force_stage_change" // dev only
	TransitionSetMoney             TransitionKind = "set_money"          // dev only
)

// Invocation is a request to run one named transition.
type Invocation interface {
	Kind() TransitionKind
}

type BeginGame struct{}

type SelectLoadout struct {
	Loadout LoadoutID `json:"loadout"`
}

// RollDice rerolls the selected dice, or every die when nothing is
// selected or RollAll is set.
type RollDice struct {
	RollAll bool `json:"roll_all_dice,omitempty"`
}

type SortDice struct{}

type ToggleDice struct {
	Index int `json:"index"`
}

type UnselectDice struct{}

type ResetRerolls struct{}

// UpdateScoreCardValue locks Value into the slot at Index.
type UpdateScoreCardValue struct {
	Index int `json:"index"`
	Value int `json:"value"`
}

type BuyScoreCardEntry struct {
	Index int `json:"index"`
}

type BuyItem struct {
	Index int `json:"index"`
}

type RerollShop struct{}

type ExitShop struct{}

type Continue struct{}

type Reset struct{}

// ForceStageChange replaces the active stage payload wholesale.
type ForceStageChange struct {
	State StageState `json:"-"`
}

// SetMoney overwrites the player's currency.
type SetMoney struct {
	Amount int `json:"amount"`
}

func (BeginGame) Kind() TransitionKind            { return TransitionBeginGame }
func (SelectLoadout) Kind() TransitionKind        { return TransitionSelectLoadout }
func (RollDice) Kind() TransitionKind             { return TransitionRollDice }
func (SortDice) Kind() TransitionKind             { return TransitionSortDice }
func (ToggleDice) Kind() TransitionKind           { return TransitionToggleDice }
func (UnselectDice) Kind() TransitionKind         { return TransitionUnselectDice }
func (ResetRerolls) Kind() TransitionKind         { return TransitionResetRerolls }
func (UpdateScoreCardValue) Kind() TransitionKind { return TransitionUpdateScoreCardValue }
func (BuyScoreCardEntry) Kind() TransitionKind    { return TransitionBuyScoreCardEntry }
func (BuyItem) Kind() TransitionKind              { return TransitionBuyItem }
func (RerollShop) Kind() TransitionKind           { return TransitionRerollShop }
func (ExitShop) Kind() TransitionKind             { return TransitionExitShop }
func (Continue) Kind() TransitionKind             { return TransitionContinue }
func (Reset) Kind() TransitionKind                { return TransitionReset }
func (ForceStageChange) Kind() TransitionKind     { return TransitionForceStageChange }
func (SetMoney) Kind() TransitionKind             { return TransitionSetMoney }

// EventType identifies events emitted by the engine.
type EventType string

const (
	EventStageChange      EventType = "stage_change"
	EventLoadoutSelected  EventType = "loadout_selected"
	EventDiceRolled       EventType = "dice_rolled"
	EventDiceSorted       EventType = "dice_sorted"
	EventDiceToggled      EventType = "dice_toggled"
	EventSelectionCleared EventType = "selection_cleared"
	EventRerollsReset     EventType = "rerolls_reset"
	EventSlotLocked       EventType = "slot_locked"
	EventRoundWon         EventType = "round_won"
	EventRoundLost        EventType = "round_lost"
	EventShopRolled       EventType = "shop_rolled"
	EventEntryBought      EventType = "entry_bought"
	EventItemBought       EventType = "item_bought"
	EventMoneySet         EventType = "money_set"
	EventReset            EventType = "reset"
)

// Event is emitted by the engine after state changes.
type Event struct {
	Type EventType      `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

func stageChange(from, to Stage) Event {
	return Event{Type: EventStageChange, Data: map[string]any{
		"from": from.String(), "to": to.String(),
	}}
}
