package protocol

import (
	"errors"

	"github.com/SeamusWaldron/rubik"
)

const (
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrInvalidMove     = "E_INVALID_MOVE"
	ErrInvalidLayer    = "E_INVALID_LAYER"
	ErrBusy            = "E_BUSY"
	ErrInvalidState    = "E_INVALID_STATE"
	ErrUnknownHistory  = "E_UNKNOWN_HISTORY"
	ErrInternal        = "E_INTERNAL"
)

// CodeFor maps a core error to its wire code.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, rubik.ErrInvalidMove):
		return ErrInvalidMove
	case errors.Is(err, rubik.ErrInvalidLayer):
		return ErrInvalidLayer
	case errors.Is(err, rubik.ErrBusy):
		return ErrBusy
	case errors.Is(err, rubik.ErrInvalidState), errors.Is(err, rubik.ErrIndex):
		return ErrInvalidState
	case errors.Is(err, rubik.ErrUnknownHistory):
		return ErrUnknownHistory
	default:
		return ErrInternal
	}
}

// NewError builds an ERROR message for err.
func NewError(requestID string, err error) ErrorMsg {
	return ErrorMsg{Type: TypeError, RequestID: requestID, Code: CodeFor(err), Message: err.Error()}
}
