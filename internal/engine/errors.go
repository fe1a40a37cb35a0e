package engine

import "errors"

var (
	// ErrIllegalTransition: the transition is not permitted in the current stage.
	ErrIllegalTransition = errors.New("illegal transition")
	// ErrInvalidOperation: a precondition of a permitted transition failed.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrInsufficientFunds: not enough currency for a purchase or shop reroll.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidSelection: the shop offer index does not exist.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrUnknownTransition: no transition is registered for the invocation kind.
	ErrUnknownTransition = errors.New("unknown transition")
)
