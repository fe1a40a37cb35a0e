package engine

// EntryID identifies a scoring category on the score card.
type EntryID string

const (
	EntryAces          EntryID = "aces"
	EntryTwos          EntryID = "twos"
	EntryThrees        EntryID = "threes"
	EntryFours         EntryID = "fours"
	EntryFives         EntryID = "fives"
	EntrySixes         EntryID = "sixes"
	EntryThreeOfAKind  EntryID = "three_of_a_kind"
	EntryFourOfAKind   EntryID = "four_of_a_kind"
	EntryFullHouse     EntryID = "full_house"
	EntrySmallStraight EntryID = "small_straight"
	EntryLargeStraight EntryID = "large_straight"
	EntryYahtzee       EntryID = "yahtzee"
	EntryChance        EntryID = "chance"
)

// HandSize is the number of dice every scoring category is evaluated on.
const HandSize = 5

const (
	fullHouseScore     = 25
	smallStraightScore = 30
	largeStraightScore = 40
	yahtzeeScore       = 50
)

// ScoreFunc computes a category's value from a five-die hand.
type ScoreFunc func(hand []int) int

// ScoreCardEntry is one scoring category in the catalog.
type ScoreCardEntry struct {
	ID          EntryID   `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ShopCost    int       `json:"shop_cost"`
	Score       ScoreFunc `json:"-"`
}

var entryOrder = []EntryID{
	EntryAces, EntryTwos, EntryThrees, EntryFours, EntryFives, EntrySixes,
	EntryThreeOfAKind, EntryFourOfAKind, EntryFullHouse,
	EntrySmallStraight, EntryLargeStraight, EntryYahtzee, EntryChance,
}

var entries = map[EntryID]ScoreCardEntry{
	EntryAces:   upper(EntryAces, "Aces", 1),
	EntryTwos:   upper(EntryTwos, "Twos", 2),
	EntryThrees: upper(EntryThrees, "Threes", 3),
	EntryFours:  upper(EntryFours, "Fours", 4),
	EntryFives:  upper(EntryFives, "Fives", 5),
	EntrySixes:  upper(EntrySixes, "Sixes", 6),
	EntryChance: {
		ID: EntryChance, Name: "Chance", Description: "Sum of all dice", ShopCost: 3,
		Score: sum,
	},
	EntryThreeOfAKind: {
		ID: EntryThreeOfAKind, Name: "Three of a Kind", Description: "At least three dice the same", ShopCost: 3,
		Score: ofAKind(3),
	},
	EntryFourOfAKind: {
		ID: EntryFourOfAKind, Name: "Four of a Kind", Description: "At least four dice the same", ShopCost: 3,
		Score: ofAKind(4),
	},
	EntryFullHouse: {
		ID: EntryFullHouse, Name: "Full House", Description: "Three of a kind and a pair", ShopCost: 3,
		Score: fullHouse,
	},
	EntrySmallStraight: {
		ID: EntrySmallStraight, Name: "Small Straight", Description: "Four sequential dice", ShopCost: 3,
		Score: straight(4, smallStraightScore),
	},
	EntryLargeStraight: {
		ID: EntryLargeStraight, Name: "Large Straight", Description: "Five sequential dice", ShopCost: 3,
		Score: straight(5, largeStraightScore),
	},
	EntryYahtzee: {
		ID: EntryYahtzee, Name: "Yahtzee", Description: "All dice the same", ShopCost: 3,
		Score: yahtzee,
	},
}

// Entries returns the full scoring catalog in score card order.
func Entries() []ScoreCardEntry {
	out := make([]ScoreCardEntry, len(entryOrder))
	for i, id := range entryOrder {
		out[i] = entries[id]
	}
	return out
}

// EntryIDs returns every catalog id in score card order.
func EntryIDs() []EntryID {
	out := make([]EntryID, len(entryOrder))
	copy(out, entryOrder)
	return out
}

// LookupEntry returns the catalog entry for id.
func LookupEntry(id EntryID) (ScoreCardEntry, bool) {
	e, ok := entries[id]
	return e, ok
}

func (id EntryID) String() string {
	if e, ok := entries[id]; ok {
		return e.Name
	}
	return "Unknown"
}

func upper(id EntryID, name string, face int) ScoreCardEntry {
	return ScoreCardEntry{
		ID:          id,
		Name:        name,
		Description: `Any number of "` + string(rune('0'+face)) + `"s`,
		ShopCost:    3,
		Score: func(hand []int) int {
			return CountFaces(hand)[face] * face
		},
	}
}

func sum(hand []int) int {
	total := 0
	for _, v := range hand {
		total += v
	}
	return total
}

func ofAKind(n int) ScoreFunc {
	return func(hand []int) int {
		for _, c := range CountFaces(hand) {
			if c >= n {
				return sum(hand)
			}
		}
		return 0
	}
}

func fullHouse(hand []int) int {
	counts := CountFaces(hand)
	three, pair := false, false
	for _, c := range counts {
		switch c {
		case 3:
			three = true
		case 2:
			pair = true
		}
	}
	if three && pair {
		return fullHouseScore
	}
	return 0
}

// straight scores when length consecutive faces are all present.
func straight(length, score int) ScoreFunc {
	return func(hand []int) int {
		counts := CountFaces(hand)
		for start := 1; start+length-1 <= 6; start++ {
			run := true
			for _, face := range Range(start, start+length-1) {
				if counts[face] == 0 {
					run = false
					break
				}
			}
			if run {
				return score
			}
		}
		return 0
	}
}

func yahtzee(hand []int) int {
	if len(hand) == 0 {
		return 0
	}
	for _, c := range CountFaces(hand) {
		if c == len(hand) {
			return yahtzeeScore
		}
	}
	return 0
}
