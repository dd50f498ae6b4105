// Package protocol defines the JSON messages exchanged with remote cube
// clients.
package protocol

import (
	"encoding/json"

	"github.com/SeamusWaldron/rubik"
)

const Version = "1.0"

// Client message types.
const (
	TypeHello    = "HELLO"
	TypeMove     = "MOVE"
	TypeScramble = "SCRAMBLE"
	TypeReset    = "RESET"
	TypeSetState = "SET_STATE"
	TypeSettle   = "SETTLE"
	TypeGetState = "GET_STATE"
	TypeSolution = "SOLUTION"
)

// Server message types.
const (
	TypeWelcome   = "WELCOME"
	TypeMoved     = "MOVED"
	TypeState     = "STATE"
	TypeScrambled = "SCRAMBLED"
	TypeSolved    = "SOLVED"
	TypeError     = "ERROR"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
	RequestID       string `json:"request_id,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// HelloMsg opens a session.
type HelloMsg struct {
	BaseMessage
	ClientName    string `json:"client_name,omitempty"`
	AnimationHold bool   `json:"animation_hold,omitempty"`
}

// MoveMsg requests one quarter turn.
type MoveMsg struct {
	BaseMessage
	Move string `json:"move"`
}

// ScrambleMsg requests a random scramble of Count moves, or applies Moves
// when given. A missing Count uses the server's configured length.
type ScrambleMsg struct {
	BaseMessage
	Count *int     `json:"count,omitempty"`
	Moves []string `json:"moves,omitempty"`
}

// SetStateMsg replaces the sticker state.
type SetStateMsg struct {
	BaseMessage
	State map[string]string `json:"state"`
}

// WelcomeMsg answers HELLO.
type WelcomeMsg struct {
	Type            string             `json:"type"`
	ProtocolVersion string             `json:"protocol_version"`
	SessionID       string             `json:"session_id"`
	State           rubik.StickerState `json:"state"`
	Solved          bool               `json:"solved"`
}

// MovedMsg reports a committed move.
type MovedMsg struct {
	Type      string             `json:"type"`
	RequestID string             `json:"request_id,omitempty"`
	Move      string             `json:"move"`
	MoveCount int                `json:"move_count"`
	Solved    bool               `json:"solved"`
	State     rubik.StickerState `json:"state"`
}

// StateMsg carries a full state snapshot.
type StateMsg struct {
	Type      string             `json:"type"`
	RequestID string             `json:"request_id,omitempty"`
	Cause     string             `json:"cause,omitempty"`
	State     rubik.StickerState `json:"state"`
	Solved    bool               `json:"solved"`
	MoveCount int                `json:"move_count"`
	Phase     string             `json:"phase"`
	Status    string             `json:"status"`
}

// ScrambledMsg reports the moves of a scramble.
type ScrambledMsg struct {
	Type      string   `json:"type"`
	RequestID string   `json:"request_id,omitempty"`
	Moves     []string `json:"moves"`
}

// SolutionMsg carries the move list that returns the cube to solved.
type SolutionMsg struct {
	Type      string   `json:"type"`
	RequestID string   `json:"request_id,omitempty"`
	Moves     []string `json:"moves"`
}

// SolvedMsg reports a finished timed attempt. RequestID is that of the
// move which solved the cube.
type SolvedMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	SolveID   string `json:"solve_id,omitempty"`
	TimeMs    int64  `json:"time_ms"`
	MoveCount int    `json:"move_count"`
	Best      bool   `json:"best"`
}

// ErrorMsg reports a rejected request.
type ErrorMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// Notation converts moves to their tokens.
func Notation(moves []rubik.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Notation()
	}
	return out
}
