package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/protocol"
)

type client struct {
	t    *testing.T
	conn *websocket.Conn
}

func dial(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &client{t: t, conn: conn}
}

func (c *client) send(v any) {
	c.t.Helper()
	if err := c.conn.WriteJSON(v); err != nil {
		c.t.Fatalf("write: %v", err)
	}
}

func (c *client) recv() map[string]any {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, b, err := c.conn.ReadMessage()
	if err != nil {
		c.t.Fatalf("read: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		c.t.Fatalf("decode %s: %v", b, err)
	}
	return m
}

func (c *client) expect(typ string) map[string]any {
	c.t.Helper()
	m := c.recv()
	if m["type"] != typ {
		c.t.Fatalf("got %v, want %s", m, typ)
	}
	return m
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func greet(t *testing.T, srv *httptest.Server, hold bool) *client {
	t.Helper()
	c := dial(t, srv)
	c.send(map[string]any{"type": "HELLO", "protocol_version": protocol.Version, "animation_hold": hold})
	w := c.expect(protocol.TypeWelcome)
	if w["solved"] != true {
		t.Fatalf("welcome not solved: %v", w)
	}
	if id, _ := w["session_id"].(string); id == "" {
		t.Fatal("missing session_id")
	}
	return c
}

func TestHandshakeRejectsBadVersion(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := dial(t, srv)
	c.send(map[string]any{"type": "HELLO", "protocol_version": "0.1"})
	_ = c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := c.conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy violation close, got %v", err)
	}
}

func TestMovesAndSolution(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := greet(t, srv, false)

	c.send(map[string]any{"type": "MOVE", "move": "R"})
	m := c.expect(protocol.TypeMoved)
	if m["move"] != "R" || m["move_count"] != float64(1) || m["solved"] != false {
		t.Fatalf("moved = %v", m)
	}

	c.send(map[string]any{"type": "MOVE", "move": "U'"})
	c.expect(protocol.TypeMoved)

	c.send(map[string]any{"type": "SOLUTION", "request_id": "s1"})
	sol := c.expect(protocol.TypeSolution)
	if sol["request_id"] != "s1" {
		t.Errorf("request_id = %v", sol["request_id"])
	}
	got, _ := json.Marshal(sol["moves"])
	if string(got) != `["U","R'"]` {
		t.Errorf("solution = %s", got)
	}

	c.send(map[string]any{"type": "MOVE", "move": "U"})
	c.expect(protocol.TypeMoved)
	c.send(map[string]any{"type": "MOVE", "move": "R'"})
	m = c.expect(protocol.TypeMoved)
	if m["solved"] != true {
		t.Fatalf("expected solved, got %v", m)
	}
}

func TestErrors(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := greet(t, srv, false)

	tests := []struct {
		msg  map[string]any
		code string
	}{
		{map[string]any{"type": "MOVE", "move": "R2"}, protocol.ErrInvalidMove},
		{map[string]any{"type": "MOVE"}, protocol.ErrProtoBadRequest},
		{map[string]any{"type": "FLY"}, protocol.ErrProtoBadRequest},
		{map[string]any{"type": "SET_STATE", "state": map[string]string{"U_0_0": "white"}}, protocol.ErrInvalidState},
		{map[string]any{"type": "SCRAMBLE", "moves": []string{"R", "X"}}, protocol.ErrInvalidMove},
	}
	for _, tt := range tests {
		c.send(tt.msg)
		e := c.expect(protocol.TypeError)
		if e["code"] != tt.code {
			t.Errorf("%v: code = %v, want %s", tt.msg, e["code"], tt.code)
		}
	}

	c.send(map[string]any{"type": "GET_STATE"})
	st := c.expect(protocol.TypeState)
	if st["solved"] != true || st["move_count"] != float64(0) {
		t.Errorf("failed requests changed the cube: %v", st)
	}
}

func TestScrambleAndSetState(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := greet(t, srv, false)

	c.send(map[string]any{"type": "SCRAMBLE", "moves": []string{"F", "D'"}})
	st := c.expect(protocol.TypeState)
	if st["cause"] != "scramble" || st["solved"] != false {
		t.Fatalf("state = %v", st)
	}
	sc := c.expect(protocol.TypeScrambled)
	got, _ := json.Marshal(sc["moves"])
	if string(got) != `["F","D'"]` {
		t.Errorf("scramble = %s", got)
	}

	c.send(map[string]any{"type": "SCRAMBLE", "count": 5})
	c.expect(protocol.TypeState)
	sc = c.expect(protocol.TypeScrambled)
	if moves, _ := sc["moves"].([]any); len(moves) != 5 {
		t.Errorf("random scramble = %v", sc["moves"])
	}

	solved := rubik.GenerateSolvedState()
	c.send(map[string]any{"type": "SET_STATE", "state": solved})
	st = c.expect(protocol.TypeState)
	if st["cause"] != "set_state" || st["solved"] != true {
		t.Fatalf("state = %v", st)
	}

	c.send(map[string]any{"type": "SOLUTION"})
	e := c.expect(protocol.TypeError)
	if e["code"] != protocol.ErrUnknownHistory {
		t.Errorf("code = %v", e["code"])
	}

	c.send(map[string]any{"type": "RESET"})
	st = c.expect(protocol.TypeState)
	if st["cause"] != "reset" {
		t.Errorf("cause = %v", st["cause"])
	}
}

func TestAnimationHold(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := greet(t, srv, true)

	c.send(map[string]any{"type": "MOVE", "move": "F"})
	c.expect(protocol.TypeMoved)

	c.send(map[string]any{"type": "MOVE", "move": "F"})
	e := c.expect(protocol.TypeError)
	if e["code"] != protocol.ErrBusy {
		t.Fatalf("code = %v", e["code"])
	}

	c.send(map[string]any{"type": "SETTLE"})
	st := c.expect(protocol.TypeState)
	if st["status"] != "idle" || st["move_count"] != float64(1) {
		t.Fatalf("state = %v", st)
	}

	c.send(map[string]any{"type": "MOVE", "move": "F'"})
	m := c.expect(protocol.TypeMoved)
	if m["solved"] != true {
		t.Errorf("moved = %v", m)
	}
}

func TestTimedSolve(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := greet(t, srv, false)

	c.send(map[string]any{"type": "SCRAMBLE", "moves": []string{"R"}})
	c.expect(protocol.TypeState)
	c.expect(protocol.TypeScrambled)

	c.send(map[string]any{"type": "MOVE", "move": "R'"})
	c.expect(protocol.TypeMoved)
	s := c.expect(protocol.TypeSolved)
	if s["move_count"] != float64(1) || s["best"] != true {
		t.Errorf("solved = %v", s)
	}
}

func TestRepliesEchoRequestID(t *testing.T) {
	srv := newTestServer(t, Options{})
	c := greet(t, srv, false)

	c.send(map[string]any{"type": "MOVE", "move": "R", "request_id": "req-7"})
	if m := c.expect(protocol.TypeMoved); m["request_id"] != "req-7" {
		t.Errorf("moved = %v", m)
	}

	c.send(map[string]any{"type": "RESET", "request_id": "req-8"})
	if st := c.expect(protocol.TypeState); st["request_id"] != "req-8" || st["cause"] != "reset" {
		t.Errorf("reset reply = %v", st)
	}

	c.send(map[string]any{"type": "SET_STATE", "state": rubik.GenerateSolvedState(), "request_id": "req-9"})
	if st := c.expect(protocol.TypeState); st["request_id"] != "req-9" {
		t.Errorf("set_state reply = %v", st)
	}

	c.send(map[string]any{"type": "SCRAMBLE", "moves": []string{"U"}, "request_id": "req-10"})
	if st := c.expect(protocol.TypeState); st["request_id"] != "req-10" {
		t.Errorf("scramble state = %v", st)
	}
	c.expect(protocol.TypeScrambled)
	c.send(map[string]any{"type": "MOVE", "move": "U'", "request_id": "req-11"})
	c.expect(protocol.TypeMoved)
	if s := c.expect(protocol.TypeSolved); s["request_id"] != "req-11" {
		t.Errorf("solved = %v", s)
	}

	// A later request without an id must not inherit the previous one.
	c.send(map[string]any{"type": "MOVE", "move": "F"})
	if m := c.expect(protocol.TypeMoved); m["request_id"] != nil {
		t.Errorf("moved = %v", m)
	}
}

func TestScrambleCount(t *testing.T) {
	srv := newTestServer(t, Options{Cube: []rubik.Option{rubik.WithScrambleLength(6)}})
	c := greet(t, srv, false)

	c.send(map[string]any{"type": "SCRAMBLE", "count": 0})
	sc := c.expect(protocol.TypeScrambled)
	if moves, ok := sc["moves"].([]any); !ok || len(moves) != 0 {
		t.Errorf("count 0 scramble = %v", sc["moves"])
	}

	c.send(map[string]any{"type": "SCRAMBLE"})
	c.expect(protocol.TypeState)
	sc = c.expect(protocol.TypeScrambled)
	if moves, _ := sc["moves"].([]any); len(moves) != 6 {
		t.Errorf("default scramble = %v", sc["moves"])
	}
}
