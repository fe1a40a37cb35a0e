package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"dicebound/internal/engine"
	"dicebound/internal/protocol"
	"dicebound/internal/session"
)

var errSpectator = errors.New("spectators cannot invoke transitions")

const (
	codeBadRequest        = "bad_request"
	codeNotFound          = "not_found"
	codeForbidden         = "forbidden"
	codeIllegalTransition = "illegal_transition"
	codeInvalidOperation  = "invalid_operation"
	codeInvalidSelection  = "invalid_selection"
	codeInsufficientFunds = "insufficient_funds"
	codeUnavailable       = "unavailable"
	codeInternal          = "internal"
)

// classify maps an error to its HTTP status and wire code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, protocol.ErrUnknownMessage),
		errors.Is(err, protocol.ErrBadPayload),
		errors.Is(err, engine.ErrUnknownTransition):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, errSpectator):
		return http.StatusForbidden, codeForbidden
	case errors.Is(err, errHubStopped):
		return http.StatusServiceUnavailable, codeUnavailable
	case errors.Is(err, engine.ErrIllegalTransition):
		return http.StatusConflict, codeIllegalTransition
	case errors.Is(err, engine.ErrInsufficientFunds):
		return http.StatusPaymentRequired, codeInsufficientFunds
	case errors.Is(err, engine.ErrInvalidSelection):
		return http.StatusUnprocessableEntity, codeInvalidSelection
	case errors.Is(err, engine.ErrInvalidOperation):
		return http.StatusUnprocessableEntity, codeInvalidOperation
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func mapError(c echo.Context, err error) error {
	status, code := classify(err)
	if status == http.StatusInternalServerError {
		requestID, _ := c.Get("request_id").(string)
		slog.Error("internal error", "request_id", requestID, "error", err)
		return c.JSON(status, protocol.ErrorMsg{Message: "internal error", Code: code})
	}
	return c.JSON(status, protocol.ErrorMsg{Message: err.Error(), Code: code})
}
