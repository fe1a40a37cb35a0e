package engine

// LoadoutID names a starting configuration for a run.
type LoadoutID string

const (
	LoadoutNewbie        LoadoutID = "newbie"
	LoadoutOneMoreRoll   LoadoutID = "one_more_roll"
	LoadoutLeaveItToFate LoadoutID = "leave_it_to_fate"
)

// EntryCount is a number of copies of one score card entry.
type EntryCount struct {
	Entry EntryID `json:"entry"`
	Count int     `json:"count"`
}

// Loadout is a selectable starting configuration.
type Loadout struct {
	ID          LoadoutID    `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Dice        int          `json:"dice"`
	Rerolls     int          `json:"rerolls"`
	Entries     []EntryCount `json:"entries"`
}

// Contents expands the loadout into its multiset of score card entries.
func (l Loadout) Contents() []EntryID {
	var out []EntryID
	for _, ec := range l.Entries {
		for range ec.Count {
			out = append(out, ec.Entry)
		}
	}
	return out
}

var loadoutOrder = []LoadoutID{LoadoutNewbie, LoadoutOneMoreRoll, LoadoutLeaveItToFate}

var loadouts = map[LoadoutID]Loadout{
	LoadoutNewbie: {
		ID:          LoadoutNewbie,
		Name:        "The Newbie",
		Description: "You stumble into the casino with a travel Yahtzee set in your pocket, with no idea what you're in for.",
		Dice:        5,
		Rerolls:     3,
		Entries:     oneOfEach(),
	},
	LoadoutOneMoreRoll: {
		ID:          LoadoutOneMoreRoll,
		Name:        "One More Roll...",
		Description: "The regulars sigh as they see you coming. You can never resist just one more roll in the hopes of the perfect score.",
		Dice:        5,
		Rerolls:     10,
		Entries:     []EntryCount{{Entry: EntryYahtzee, Count: 10}},
	},
	LoadoutLeaveItToFate: {
		ID:          LoadoutLeaveItToFate,
		Name:        "Leave it to Fate",
		Description: "You've always believed in fate taking you where it may. But in the casino, it doesn't help to take a few precautions.",
		Dice:        10,
		Rerolls:     0,
		Entries:     []EntryCount{{Entry: EntryChance, Count: 10}},
	},
}

// Loadouts returns every loadout in menu order.
func Loadouts() []Loadout {
	out := make([]Loadout, len(loadoutOrder))
	for i, id := range loadoutOrder {
		out[i] = loadouts[id]
	}
	return out
}

// LookupLoadout returns the loadout for id.
func LookupLoadout(id LoadoutID) (Loadout, bool) {
	l, ok := loadouts[id]
	return l, ok
}

func oneOfEach() []EntryCount {
	out := make([]EntryCount, len(entryOrder))
	for i, id := range entryOrder {
		out[i] = EntryCount{Entry: id, Count: 1}
	}
	return out
}
