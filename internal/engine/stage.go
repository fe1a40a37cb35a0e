package engine

// Stage identifies which part of the run the state machine is in.
type Stage int

const (
	StageMainMenu      Stage = iota // title screen
	StageLoadoutSelect              // choosing a starting loadout
	StageActiveGame                 // rolling and scoring a round
	StageGameLost                   // round ended below target
	StageGameWon                    // round reached target
	StageShop                       // spending currency between rounds
)

var stageNames = map[Stage]string{
	StageMainMenu:      "MainMenu",
	StageLoadoutSelect: "LoadoutSelect",
	StageActiveGame:    "ActiveGame",
	StageGameLost:      "GameLost",
	StageGameWon:       "GameWon",
	StageShop:          "Shop",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return "Unknown"
}

// ParseStage maps a stage name back to its Stage.
func ParseStage(name string) (Stage, bool) {
	for s, n := range stageNames {
		if n == name {
			return s, true
		}
	}
	return 0, false
}

// AllStages returns every stage in declaration order.
func AllStages() []Stage {
	return []Stage{StageMainMenu, StageLoadoutSelect, StageActiveGame, StageGameLost, StageGameWon, StageShop}
}

// StageState is the payload carried by the active stage. The concrete
// types are MainMenu, LoadoutSelect, ActiveGame, GameLost, GameWon and Shop.
type StageState interface {
	Stage() Stage
	cloneStage() StageState
}

type MainMenu struct{}

type LoadoutSelect struct{}

// ActiveGame carries the round being played.
type ActiveGame struct {
	Round Round `json:"round"`
}

// GameLost records the round that fell short.
type GameLost struct {
	TotalScore  int `json:"total_score"`
	TargetScore int `json:"target_score"`
}

// GameWon records what the finished round paid out.
type GameWon struct {
	UnusedCardEarnings int `json:"unused_card_earnings"`
	TotalEarnings      int `json:"total_earnings"`
}

// Shop carries the offers of the current shop visit.
type Shop struct {
	RerollCost       int       `json:"reroll_cost"`
	AvailableEntries []EntryID `json:"available_entries"`
	AvailableItems   []ItemID  `json:"available_items"`
}

func (*MainMenu) Stage() Stage      { return StageMainMenu }
func (*LoadoutSelect) Stage() Stage { return StageLoadoutSelect }
func (*ActiveGame) Stage() Stage    { return StageActiveGame }
func (*GameLost) Stage() Stage      { return StageGameLost }
func (*GameWon) Stage() Stage       { return StageGameWon }
func (*Shop) Stage() Stage          { return StageShop }

func (*MainMenu) cloneStage() StageState      { return &MainMenu{} }
func (*LoadoutSelect) cloneStage() StageState { return &LoadoutSelect{} }

func (s *ActiveGame) cloneStage() StageState {
	return &ActiveGame{Round: s.Round.clone()}
}

func (s *GameLost) cloneStage() StageState {
	out := *s
	return &out
}

func (s *GameWon) cloneStage() StageState {
	out := *s
	return &out
}

func (s *Shop) cloneStage() StageState {
	return &Shop{
		RerollCost:       s.RerollCost,
		AvailableEntries: append([]EntryID(nil), s.AvailableEntries...),
		AvailableItems:   append([]ItemID(nil), s.AvailableItems...),
	}
}
