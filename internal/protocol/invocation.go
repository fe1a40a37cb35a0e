package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"dicebound/internal/engine"
)

var (
	ErrUnknownMessage = errors.New("unknown message type")
	ErrBadPayload     = errors.New("malformed payload")
)

type decodeFunc func(env Envelope) (engine.Invocation, error)

// decodeAs unmarshals the payload into T. An empty payload yields the
// zero value.
func decodeAs[T engine.Invocation](env Envelope) (engine.Invocation, error) {
	var inv T
	if env.Empty() {
		return inv, nil
	}
	if err := env.Decode(&inv); err != nil {
		return nil, err
	}
	return inv, nil
}

var decoders = map[engine.TransitionKind]decodeFunc{
	engine.TransitionBeginGame:            decodeAs[engine.BeginGame],
	engine.TransitionSelectLoadout:        decodeAs[engine.SelectLoadout],
	engine.TransitionRollDice:             decodeAs[engine.RollDice],
	engine.TransitionSortDice:             decodeAs[engine.SortDice],
	engine.TransitionToggleDice:           decodeAs[engine.ToggleDice],
	engine.TransitionUnselectDice:         decodeAs[engine.UnselectDice],
	engine.TransitionResetRerolls:         decodeAs[engine.ResetRerolls],
	engine.TransitionUpdateScoreCardValue: decodeAs[engine.UpdateScoreCardValue],
	engine.TransitionBuyScoreCardEntry:    decodeAs[engine.BuyScoreCardEntry],
	engine.TransitionBuyItem:              decodeAs[engine.BuyItem],
	engine.TransitionRerollShop:           decodeAs[engine.RerollShop],
	engine.TransitionExitShop:             decodeAs[engine.ExitShop],
	engine.TransitionContinue:             decodeAs[engine.Continue],
	engine.TransitionReset:                decodeAs[engine.Reset],
	engine.TransitionForceStageChange:     decodeForceStageChange,
	engine.TransitionSetMoney:             decodeAs[engine.SetMoney],
}

// DecodeInvocation turns a client envelope into an engine invocation.
func DecodeInvocation(env Envelope) (engine.Invocation, error) {
	dec, ok := decoders[engine.TransitionKind(env.Type)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
	return dec(env)
}

func decodeForceStageChange(env Envelope) (engine.Invocation, error) {
	var msg ForceStageChangeMsg
	if err := env.Decode(&msg); err != nil {
		return nil, err
	}
	stage, ok := engine.ParseStage(msg.Stage)
	if !ok {
		return nil, fmt.Errorf("%w: unknown stage %q", ErrBadPayload, msg.Stage)
	}

	var state engine.StageState
	switch stage {
	case engine.StageMainMenu:
		state = &engine.MainMenu{}
	case engine.StageLoadoutSelect:
		state = &engine.LoadoutSelect{}
	case engine.StageActiveGame:
		state = &engine.ActiveGame{}
	case engine.StageGameLost:
		state = &engine.GameLost{}
	case engine.StageGameWon:
		state = &engine.GameWon{}
	case engine.StageShop:
		state = &engine.Shop{}
	}
	if len(msg.State) > 0 {
		if err := json.Unmarshal(msg.State, state); err != nil {
			return nil, fmt.Errorf("%w: %s payload: %v", ErrBadPayload, stage, err)
		}
	}
	return engine.ForceStageChange{State: state}, nil
}

// NewInvocationEnvelope encodes an invocation the way DecodeInvocation
// expects it.
func NewInvocationEnvelope(inv engine.Invocation) (Envelope, error) {
	if fsc, ok := inv.(engine.ForceStageChange); ok {
		if fsc.State == nil {
			return Envelope{}, fmt.Errorf("%w: missing stage payload", ErrBadPayload)
		}
		state, err := json.Marshal(fsc.State)
		if err != nil {
			return Envelope{}, err
		}
		return NewEnvelope(string(inv.Kind()), ForceStageChangeMsg{
			Stage: fsc.State.Stage().String(),
			State: state,
		})
	}
	return NewEnvelope(string(inv.Kind()), inv)
}
