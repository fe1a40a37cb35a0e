package engine

// Config holds the rules constants for a run.
type Config struct {
	StartingDice    int // dice before any loadout or item (default 5)
	StartingRerolls int // base rerolls before any loadout or item (default 3)

	TargetBase      int // first round target score (default 100)
	TargetGrowthPct int // target multiplier per completed round, in percent (default 135)
	RerollGrowthPct int // shop reroll cost multiplier, in percent (default 135)
	ShopEntryOffers int // score card entries offered per shop roll (default 3)
	ShopItemOffers  int // items offered per shop roll (default 3)
	MaxSelectedDice int // dice that may be selected at once (default 5)

	DevMode           bool
	SkipLoadoutSelect bool // BeginGame starts a round with DefaultLoadout
	DefaultLoadout    LoadoutID
}

func DefaultConfig() Config {
	return Config{
		StartingDice:    5,
		StartingRerolls: 3,
		TargetBase:      100,
		TargetGrowthPct: 135,
		RerollGrowthPct: 135,
		ShopEntryOffers: 3,
		ShopItemOffers:  3,
		MaxSelectedDice: HandSize,
		DefaultLoadout:  LoadoutNewbie,
	}
}
