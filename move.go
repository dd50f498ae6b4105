package rubik

import (
	"fmt"
	"strings"
)

// Turn is the direction of a quarter turn as seen looking at the face.
type Turn int

const (
	CW  Turn = 1  // Clockwise (90 degrees)
	CCW Turn = -1 // Counter-clockwise (90 degrees)
)

// Move is a single quarter turn of an outer layer.
type Move struct {
	Face Face // Which face to turn
	Turn Turn // Direction
}

// Notation returns the standard notation for this move: R, R', U, U', ...
func (m Move) Notation() string {
	if m.Turn == CCW {
		return m.Face.String() + "'"
	}
	return m.Face.String()
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Valid reports whether m is one of the twelve quarter turns.
func (m Move) Valid() bool {
	return m.Face.Valid() && (m.Turn == CW || m.Turn == CCW)
}

// Inverse returns the inverse of this move.
// R becomes R', R' becomes R.
func (m Move) Inverse() Move {
	m.Turn = -m.Turn
	return m
}

// Quarters returns the number of clockwise quarter turns the move is worth,
// modulo 4.
func (m Move) Quarters() int {
	if m.Turn == CCW {
		return 3
	}
	return 1
}

// MarshalText encodes the move in notation.
func (m Move) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %v/%d", ErrInvalidMove, m.Face, m.Turn)
	}
	return []byte(m.Notation()), nil
}

// UnmarshalText decodes a move token.
func (m *Move) UnmarshalText(b []byte) error {
	v, err := ParseMove(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// IsOpposite reports whether b undoes a.
func IsOpposite(a, b Move) bool {
	return a.Inverse() == b
}

// ParseMove parses one of the twelve tokens R R' L L' U U' D D' F F' B B'.
// Half turns, lowercase letters and surrounding whitespace are rejected.
func ParseMove(s string) (Move, error) {
	if len(s) == 0 || len(s) > 2 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	var face Face
	switch s[0] {
	case 'R':
		face = FaceR
	case 'L':
		face = FaceL
	case 'U':
		face = FaceU
	case 'D':
		face = FaceD
	case 'F':
		face = FaceF
	case 'B':
		face = FaceB
	default:
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
	}

	turn := CW
	if len(s) == 2 {
		if s[1] != '\'' {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, s)
		}
		turn = CCW
	}

	return Move{Face: face, Turn: turn}, nil
}

// ParseMoves parses a whitespace separated sequence of moves.
// Example: "R U R' U'"
// The first invalid token fails the whole sequence.
func ParseMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for i, part := range parts {
		move, err := ParseMove(part)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w", i+1, err)
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// ExpandMoves parses a sequence that may contain half turns (R2, R2') and
// expands each of them into two quarter turns.
func ExpandMoves(s string) ([]Move, error) {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for i, part := range parts {
		base := part
		if strings.HasSuffix(base, "2'") {
			base = strings.TrimSuffix(base, "2'")
		} else {
			base = strings.TrimSuffix(base, "2")
		}
		move, err := ParseMove(base)
		if err != nil {
			return nil, fmt.Errorf("token %d: %w: %q", i+1, ErrInvalidMove, part)
		}
		if base != part {
			moves = append(moves, move, move)
			continue
		}
		moves = append(moves, move)
	}

	return moves, nil
}

// FormatMoves formats moves as a space separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}

// Invert returns the sequence that undoes moves: reversed, each move inverted.
func Invert(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}

// AllMoves returns the twelve quarter turns in canonical order.
func AllMoves() []Move {
	return []Move{R, RPrime, L, LPrime, U, UPrime, D, DPrime, F, FPrime, B, BPrime}
}

// LayerTurn resolves the move to the layer it rotates.
func (m Move) LayerTurn() (LayerTurn, error) {
	if !m.Valid() {
		return LayerTurn{}, fmt.Errorf("%w: %v/%d", ErrInvalidMove, m.Face, m.Turn)
	}
	s := int(m.Turn)
	switch m.Face {
	case FaceR:
		return LayerTurn{Axis: AxisX, Layer: 2, Sign: s}, nil
	case FaceL:
		return LayerTurn{Axis: AxisX, Layer: 0, Sign: -s}, nil
	case FaceU:
		return LayerTurn{Axis: AxisY, Layer: 2, Sign: s}, nil
	case FaceD:
		return LayerTurn{Axis: AxisY, Layer: 0, Sign: -s}, nil
	case FaceF:
		return LayerTurn{Axis: AxisZ, Layer: 2, Sign: s}, nil
	default:
		return LayerTurn{Axis: AxisZ, Layer: 0, Sign: -s}, nil
	}
}
