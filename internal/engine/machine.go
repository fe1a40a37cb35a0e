package engine

import (
	"fmt"
	"slices"
)

// State is everything the machine owns: the persistent player and the
// payload of the active stage.
type State struct {
	Player Player
	Stage  StageState
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := State{Player: s.Player.clone()}
	if s.Stage != nil {
		out.Stage = s.Stage.cloneStage()
	}
	return out
}

type transition struct {
	permitted []Stage // nil permits every stage
	devOnly   bool
	run       func(t *txn, inv Invocation) error
}

func (tr transition) permits(s Stage) bool {
	return tr.permitted == nil || slices.Contains(tr.permitted, s)
}

// handle adapts a typed transition body to the dispatcher signature.
func handle[T Invocation](fn func(t *txn, inv T) error) func(*txn, Invocation) error {
	return func(t *txn, inv Invocation) error {
		typed, ok := inv.(T)
		if !ok {
			return fmt.Errorf("%w: unexpected payload %T for %q", ErrUnknownTransition, inv, inv.Kind())
		}
		return fn(t, typed)
	}
}

var transitions = map[TransitionKind]transition{
	TransitionBeginGame:     {permitted: []Stage{StageMainMenu}, run: handle((*txn).beginGame)},
	TransitionSelectLoadout: {permitted: []Stage{StageLoadoutSelect}, run: handle((*txn).selectLoadout)},

	TransitionRollDice:             {permitted: []Stage{StageActiveGame}, run: handle((*txn).rollDice)},
	TransitionSortDice:             {permitted: []Stage{StageActiveGame}, run: handle((*txn).sortDice)},
	TransitionToggleDice:           {permitted: []Stage{StageActiveGame}, run: handle((*txn).toggleDice)},
	TransitionUnselectDice:         {permitted: []Stage{StageActiveGame}, run: handle((*txn).unselectDice)},
	TransitionResetRerolls:         {permitted: []Stage{StageActiveGame}, run: handle((*txn).resetRerolls)},
	TransitionUpdateScoreCardValue: {permitted: []Stage{StageActiveGame}, run: handle((*txn).updateScoreCardValue)},

	TransitionContinue: {permitted: []Stage{StageGameWon}, run: handle((*txn).continueToShop)},

	TransitionBuyScoreCardEntry: {permitted: []Stage{StageShop}, run: handle((*txn).buyScoreCardEntry)},
	TransitionBuyItem:           {permitted: []Stage{StageShop}, run: handle((*txn).buyItem)},
	TransitionRerollShop:        {permitted: []Stage{StageShop}, run: handle((*txn).rerollShop)},
	TransitionExitShop:          {permitted: []Stage{StageShop}, run: handle((*txn).exitShop)},

	TransitionReset: {run: handle((*txn).reset)},

	TransitionForceStageChange: {
		permitted: []Stage{StageMainMenu, StageActiveGame, StageGameLost, StageGameWon, StageShop},
		devOnly:   true,
		run:       handle((*txn).forceStageChange),
	},
	TransitionSetMoney: {permitted: []Stage{StageShop}, devOnly: true, run: handle((*txn).setMoney)},
}

// PermittedStages reports which stages allow kind. A nil result with ok
// set means every stage.
func PermittedStages(kind TransitionKind) (stages []Stage, ok bool) {
	tr, ok := transitions[kind]
	if !ok {
		return nil, false
	}
	return slices.Clone(tr.permitted), true
}

// Machine is the run state machine. It is not safe for concurrent use;
// callers serialise invocations.
type Machine struct {
	cfg   Config
	items *ItemRegistry
	src   Source
	state State
}

// NewMachine creates a machine at the main menu.
func NewMachine(cfg Config, items *ItemRegistry, src Source) *Machine {
	if items == nil {
		items = NewItemRegistry()
	}
	return &Machine{
		cfg:   cfg,
		items: items,
		src:   src,
		state: initialState(cfg),
	}
}

func initialState(cfg Config) State {
	return State{Player: NewPlayer(cfg), Stage: &MainMenu{}}
}

// Invoke is the single entry point for every transition. The transition
// runs against a draft copy that replaces the live state only when it
// succeeds, so a failed invocation never leaves partial changes behind.
func (m *Machine) Invoke(inv Invocation) ([]Event, error) {
	if inv == nil {
		return nil, fmt.Errorf("%w: nil invocation", ErrUnknownTransition)
	}
	tr, ok := transitions[inv.Kind()]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransition, inv.Kind())
	}

	current := m.state.Stage.Stage()
	if !tr.permits(current) {
		return nil, fmt.Errorf("%w: cannot invoke %q in stage %s", ErrIllegalTransition, inv.Kind(), current)
	}
	if tr.devOnly && !m.state.Player.DevMode {
		return nil, fmt.Errorf("%w: %q requires developer mode", ErrInvalidOperation, inv.Kind())
	}

	draft := m.state.Clone()
	t := &txn{state: &draft, cfg: m.cfg, items: m.items, src: m.src}
	if err := tr.run(t, inv); err != nil {
		return nil, err
	}
	m.state = draft
	return t.events, nil
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() State {
	return m.state.Clone()
}

// Stage returns the active stage.
func (m *Machine) Stage() Stage {
	return m.state.Stage.Stage()
}

func (m *Machine) Config() Config { return m.cfg }

func (m *Machine) Items() *ItemRegistry { return m.items }

// txn is one invocation in progress against a draft state.
type txn struct {
	state  *State
	cfg    Config
	items  *ItemRegistry
	src    Source
	events []Event
}

func (t *txn) emit(ev ...Event) {
	t.events = append(t.events, ev...)
}

func (t *txn) setStage(next StageState) {
	from := t.state.Stage.Stage()
	t.state.Stage = next
	if from != next.Stage() {
		t.emit(stageChange(from, next.Stage()))
	}
}

func (t *txn) activeGame() (*ActiveGame, error) {
	ag, ok := t.state.Stage.(*ActiveGame)
	if !ok {
		return nil, fmt.Errorf("%w: stage %s has no round", ErrInvalidOperation, t.state.Stage.Stage())
	}
	return ag, nil
}

func (t *txn) shop() (*Shop, error) {
	s, ok := t.state.Stage.(*Shop)
	if !ok {
		return nil, fmt.Errorf("%w: stage %s has no shop", ErrInvalidOperation, t.state.Stage.Stage())
	}
	return s, nil
}
