package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/session"
)

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyPress(k))
	}
	return cmd
}

func TestMoveForKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
		ok   bool
	}{
		{"r", "R", true},
		{"R", "R'", true},
		{"l", "L", true},
		{"U", "U'", true},
		{"d", "D", true},
		{"F", "F'", true},
		{"b", "B", true},
		{"x", "", false},
		{"h", "", false},
	}
	for _, tt := range tests {
		mv, ok := moveForKey(keyPress(tt.key))
		if ok != tt.ok {
			t.Errorf("moveForKey(%q) ok = %v", tt.key, ok)
			continue
		}
		if ok && mv.Notation() != tt.want {
			t.Errorf("moveForKey(%q) = %s, want %s", tt.key, mv.Notation(), tt.want)
		}
	}
}

func TestModelAppliesMoves(t *testing.T) {
	ex := rubik.NewExecutor()
	m := NewModel(ex, nil)

	press(m, "r", "U")
	if got := rubik.FormatMoves(ex.History()); got != "R U'" {
		t.Fatalf("history = %q", got)
	}
	if !strings.Contains(m.View(), "Moves: 2") {
		t.Errorf("view missing move count:\n%s", m.View())
	}

	press(m, "z", "z")
	if !ex.IsSolved() {
		t.Error("undo twice should restore the cube")
	}
	if got := rubik.FormatMoves(ex.History()); got != "R U' U R'" {
		t.Errorf("history after undo = %q", got)
	}
	if !strings.Contains(m.View(), "SOLVED") {
		t.Errorf("view missing solved banner:\n%s", m.View())
	}

	press(m, "z")
	if ex.MoveCount() != 4 || !strings.Contains(m.View(), "Nothing to undo") {
		t.Errorf("third undo should be refused, count = %d", ex.MoveCount())
	}
}

func TestModelUndoWalksBack(t *testing.T) {
	ex := rubik.NewExecutor()
	m := NewModel(ex, nil)

	press(m, "f", "r", "u")
	press(m, "z")
	want := rubik.NewCube()
	want.Apply(rubik.F, rubik.R)
	if ex.State() != want.State() {
		t.Fatal("first undo should take back U")
	}
	press(m, "d", "z", "z")
	want.Apply(rubik.RPrime)
	if ex.State() != want.State() {
		t.Error("undo should skip past the undone U and take back R")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	press(m, "z")
	if !ex.IsSolved() || ex.MoveCount() != 0 {
		t.Error("undo after reset must not turn the cube")
	}
}

func TestModelHold(t *testing.T) {
	ex := rubik.NewExecutor(rubik.WithAnimationHold(true))
	m := NewModel(ex, nil, WithHold(150*time.Millisecond))

	cmd := press(m, "f")
	if cmd == nil {
		t.Fatal("expected a settle command")
	}
	if ex.Status() != rubik.Rotating {
		t.Fatal("expected rotating status")
	}

	press(m, "f")
	if ex.MoveCount() != 1 {
		t.Errorf("move accepted while rotating: count = %d", ex.MoveCount())
	}
	if !strings.Contains(m.View(), "Turn in progress") {
		t.Error("view should report the busy cube")
	}

	m.Update(settleMsg{})
	if ex.Status() != rubik.Idle {
		t.Fatal("expected idle after settle")
	}
	press(m, "F")
	if !ex.IsSolved() {
		t.Error("F then F' should solve")
	}
}

func TestModelHoldWithoutDuration(t *testing.T) {
	ex := rubik.NewExecutor(rubik.WithAnimationHold(true))
	m := NewModel(ex, nil)

	if cmd := press(m, "u"); cmd != nil {
		t.Error("zero hold should settle immediately")
	}
	if ex.Status() != rubik.Idle {
		t.Error("expected idle")
	}
}

func TestModelScrambleResetAndHint(t *testing.T) {
	ex := rubik.NewExecutor(rubik.WithSeed(7), rubik.WithScrambleLength(12))
	m := NewModel(ex, nil)

	press(m, " ")
	if ex.MoveCount() != 12 {
		t.Fatalf("scramble length = %d", ex.MoveCount())
	}
	if !strings.Contains(m.View(), "Scrambled:") {
		t.Error("view missing scramble")
	}

	press(m, "h")
	if len(m.solution) == 0 {
		t.Fatal("expected a solution")
	}
	c := rubik.NewCube()
	if err := c.SetState(ex.State()); err != nil {
		t.Fatal(err)
	}
	if err := c.Apply(m.solution...); err != nil {
		t.Fatal(err)
	}
	if !c.IsSolved() {
		t.Error("shown solution does not solve the cube")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !ex.IsSolved() || ex.MoveCount() != 0 {
		t.Error("reset did not restore the cube")
	}
}

func TestModelSessionFlow(t *testing.T) {
	ex := rubik.NewExecutor()
	sess := session.New()
	sess.Attach(ex)
	m := NewModel(ex, sess)

	if err := ex.ScrambleWith([]rubik.Move{rubik.R}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(m.View(), "INSPECTION") {
		t.Errorf("view missing inspection:\n%s", m.View())
	}

	press(m, "R")

	var solved *session.Result
	for len(m.events) > 0 {
		msg := <-m.events
		m.Update(msg)
		if s, ok := msg.(solvedMsg); ok {
			solved = &s.res
		}
	}
	if solved == nil {
		t.Fatal("no solved message posted")
	}
	if solved.MoveCount != 1 || !solved.Best {
		t.Errorf("result = %+v", solved)
	}
	if !strings.Contains(m.View(), "Solved in") {
		t.Errorf("view missing result:\n%s", m.View())
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(rubik.NewExecutor(), nil)
	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}

func TestRenderNet(t *testing.T) {
	out := RenderNet(rubik.GenerateSolvedState())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 9 {
		t.Fatalf("got %d lines", len(lines))
	}
	for _, letter := range []string{"W", "Y", "G", "B", "R", "O"} {
		if strings.Count(out, letter) != 9 {
			t.Errorf("%s appears %d times", letter, strings.Count(out, letter))
		}
	}
}

func TestModelPhysicalCube(t *testing.T) {
	ex := rubik.NewExecutor()
	sess := session.New()
	sess.Attach(ex)
	m := NewModel(ex, sess, WithPhysicalCube())

	press(m, "r", "z")
	if ex.MoveCount() != 0 {
		t.Fatal("keyboard turns must be ignored for a physical cube")
	}
	if !strings.Contains(m.View(), "Turn the cube by hand") {
		t.Error("view should explain ignored keys")
	}

	// Moves arrive from the cube itself.
	ex.Apply(rubik.U)
	press(m, " ")
	if ex.MoveCount() != 1 {
		t.Fatal("scramble key must not scramble a physical cube")
	}
	if sess.State() != session.StateInspecting {
		t.Fatalf("session state = %v", sess.State())
	}

	ex.Apply(rubik.UPrime)
	res, ok := sess.Last()
	if !ok || res.MoveCount != 1 || res.Scramble != "U" {
		t.Errorf("result = %+v, ok = %v", res, ok)
	}
}
