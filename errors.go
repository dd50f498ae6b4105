package rubik

import "errors"

// Sentinel errors for the rubik package.
var (
	// Notation errors
	ErrInvalidMove = errors.New("rubik: invalid move")

	// Rotation errors
	ErrInvalidLayer = errors.New("rubik: invalid layer")

	// Executor errors
	ErrBusy           = errors.New("rubik: cube is rotating")
	ErrUnknownHistory = errors.New("rubik: history does not describe the current state")

	// State errors
	ErrInvalidState = errors.New("rubik: invalid sticker state")
	ErrIndex        = errors.New("rubik: sticker index out of range")
)
