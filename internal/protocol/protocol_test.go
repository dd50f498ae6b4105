package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/SeamusWaldron/rubik"
)

func TestValidateClient(t *testing.T) {
	valid := []string{
		`{"type":"HELLO","protocol_version":"1.0"}`,
		`{"type":"MOVE","move":"R'"}`,
		`{"type":"MOVE","move":"R2"}`,
		`{"type":"SCRAMBLE"}`,
		`{"type":"SCRAMBLE","count":10}`,
		`{"type":"SCRAMBLE","moves":["R","U'"]}`,
		`{"type":"RESET","request_id":"abc"}`,
		`{"type":"SETTLE"}`,
		`{"type":"GET_STATE"}`,
		`{"type":"SOLUTION"}`,
		`{"type":"SET_STATE","state":{"U_0_0":"white"}}`,
	}
	for _, raw := range valid {
		if err := ValidateClient([]byte(raw)); err != nil {
			t.Errorf("ValidateClient(%s): %v", raw, err)
		}
	}

	invalid := []string{
		`not json`,
		`{}`,
		`{"type":"JUMP"}`,
		`{"type":"HELLO"}`,
		`{"type":"MOVE"}`,
		`{"type":"MOVE","move":""}`,
		`{"type":"MOVE","move":7}`,
		`{"type":"SCRAMBLE","count":-1}`,
		`{"type":"SCRAMBLE","count":1.5}`,
		`{"type":"SET_STATE"}`,
		`{"type":"SET_STATE","state":{"U_0_0":3}}`,
	}
	for _, raw := range invalid {
		if err := ValidateClient([]byte(raw)); err == nil {
			t.Errorf("ValidateClient(%s): expected error", raw)
		}
	}
}

func TestDecodeBase(t *testing.T) {
	b, err := DecodeBase([]byte(`{"type":"MOVE","request_id":"7","move":"U"}`))
	if err != nil {
		t.Fatal(err)
	}
	if b.Type != TypeMove || b.RequestID != "7" {
		t.Errorf("got %+v", b)
	}
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{rubik.ErrInvalidMove, ErrInvalidMove},
		{fmt.Errorf("token 2: %w", rubik.ErrInvalidMove), ErrInvalidMove},
		{rubik.ErrInvalidLayer, ErrInvalidLayer},
		{rubik.ErrBusy, ErrBusy},
		{rubik.ErrInvalidState, ErrInvalidState},
		{rubik.ErrIndex, ErrInvalidState},
		{rubik.ErrUnknownHistory, ErrUnknownHistory},
		{errors.New("disk on fire"), ErrInternal},
	}
	for _, tt := range tests {
		if got := CodeFor(tt.err); got != tt.want {
			t.Errorf("CodeFor(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestParseState(t *testing.T) {
	solved := rubik.GenerateSolvedState()
	m := make(map[string]string)
	for k, c := range solved.Map() {
		m[k] = c.Name()
	}
	got, err := ParseState(m)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(solved) {
		t.Error("round trip changed the state")
	}

	delete(m, "F_1_1")
	if _, err := ParseState(m); !errors.Is(err, rubik.ErrInvalidState) {
		t.Errorf("missing key: got %v", err)
	}
	m["F_1_1"] = "purple"
	if _, err := ParseState(m); !errors.Is(err, rubik.ErrInvalidState) {
		t.Errorf("unknown color: got %v", err)
	}
}

func TestStateMsgEncoding(t *testing.T) {
	b, err := json.Marshal(StateMsg{Type: TypeState, State: rubik.GenerateSolvedState(), Solved: true})
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatal(err)
	}
	st, ok := raw["state"].(map[string]any)
	if !ok || len(st) != 54 {
		t.Fatalf("state field = %v", raw["state"])
	}
	if st["U_1_1"] != "white" {
		t.Errorf("U_1_1 = %v", st["U_1_1"])
	}
}
