package rubik

import (
	"errors"
	"testing"
)

func TestParseMove_AcceptsTwelveTokens(t *testing.T) {
	tokens := []string{"R", "R'", "L", "L'", "U", "U'", "D", "D'", "F", "F'", "B", "B'"}
	for i, tok := range tokens {
		m, err := ParseMove(tok)
		if err != nil {
			t.Fatalf("ParseMove(%q) failed: %v", tok, err)
		}
		if m.Notation() != tok {
			t.Errorf("ParseMove(%q).Notation() = %q", tok, m.Notation())
		}
		if m != AllMoves()[i] {
			t.Errorf("ParseMove(%q) = %v, want %v", tok, m, AllMoves()[i])
		}
	}
}

func TestParseMove_RejectsEverythingElse(t *testing.T) {
	for _, tok := range []string{"", "R2", "r", "x", "M", "R''", " R", "R ", "U`", "F2'", "RU"} {
		if _, err := ParseMove(tok); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("ParseMove(%q) error = %v, want ErrInvalidMove", tok, err)
		}
	}
}

func TestParseMoves(t *testing.T) {
	moves, err := ParseMoves("R U R' U'")
	if err != nil {
		t.Fatalf("ParseMoves failed: %v", err)
	}
	if FormatMoves(moves) != FormatMoves(SexyMove) {
		t.Errorf("got %q, want %q", FormatMoves(moves), FormatMoves(SexyMove))
	}

	if _, err := ParseMoves("R U2 R'"); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ParseMoves with half turn: error = %v, want ErrInvalidMove", err)
	}
}

func TestExpandMoves(t *testing.T) {
	moves, err := ExpandMoves("R2 U F2' B'")
	if err != nil {
		t.Fatalf("ExpandMoves failed: %v", err)
	}
	if got, want := FormatMoves(moves), "R R U F F B'"; got != want {
		t.Errorf("ExpandMoves = %q, want %q", got, want)
	}
	if _, err := ExpandMoves("R3"); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("ExpandMoves(R3) error = %v, want ErrInvalidMove", err)
	}
}

func TestInverseAndIsOpposite(t *testing.T) {
	for _, m := range AllMoves() {
		inv := m.Inverse()
		if inv == m {
			t.Errorf("%v is its own inverse", m)
		}
		if inv.Inverse() != m {
			t.Errorf("double inverse of %v = %v", m, inv.Inverse())
		}
		if !IsOpposite(m, inv) || !IsOpposite(inv, m) {
			t.Errorf("IsOpposite(%v, %v) = false", m, inv)
		}
		if IsOpposite(m, m) {
			t.Errorf("IsOpposite(%v, %v) = true", m, m)
		}
	}
	if IsOpposite(R, LPrime) {
		t.Error("IsOpposite(R, L') = true")
	}
}

func TestInvert(t *testing.T) {
	if got := FormatMoves(Invert(SexyMove)); got != "U R U' R'" {
		t.Errorf("Invert(R U R' U') = %q", got)
	}
	if len(Invert(nil)) != 0 {
		t.Error("Invert(nil) should be empty")
	}
}

func TestLayerTurnDecomposition(t *testing.T) {
	tests := []struct {
		move Move
		want LayerTurn
	}{
		{R, LayerTurn{AxisX, 2, 1}},
		{RPrime, LayerTurn{AxisX, 2, -1}},
		{L, LayerTurn{AxisX, 0, -1}},
		{LPrime, LayerTurn{AxisX, 0, 1}},
		{U, LayerTurn{AxisY, 2, 1}},
		{UPrime, LayerTurn{AxisY, 2, -1}},
		{D, LayerTurn{AxisY, 0, -1}},
		{DPrime, LayerTurn{AxisY, 0, 1}},
		{F, LayerTurn{AxisZ, 2, 1}},
		{FPrime, LayerTurn{AxisZ, 2, -1}},
		{B, LayerTurn{AxisZ, 0, -1}},
		{BPrime, LayerTurn{AxisZ, 0, 1}},
	}
	for _, tt := range tests {
		got, err := tt.move.LayerTurn()
		if err != nil {
			t.Fatalf("%v.LayerTurn() failed: %v", tt.move, err)
		}
		if got != tt.want {
			t.Errorf("%v.LayerTurn() = %v, want %v", tt.move, got, tt.want)
		}
		back, err := got.Move()
		if err != nil || back != tt.move {
			t.Errorf("%v.Move() = %v, %v; want %v", got, back, err, tt.move)
		}
	}

	if _, err := (Move{Face: FaceR, Turn: 2}).LayerTurn(); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("half turn LayerTurn error = %v, want ErrInvalidMove", err)
	}
}

func TestMoveText(t *testing.T) {
	var m Move
	if err := m.UnmarshalText([]byte("B'")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if m != BPrime {
		t.Errorf("UnmarshalText(B') = %v", m)
	}
	if _, err := (Move{Face: FaceU, Turn: 0}).MarshalText(); !errors.Is(err, ErrInvalidMove) {
		t.Errorf("MarshalText of invalid move error = %v", err)
	}
}
