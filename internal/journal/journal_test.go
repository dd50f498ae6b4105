package journal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SeamusWaldron/rubik"
)

func TestWriteRead(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "journal")
	day := time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Time: day, Kind: KindScramble, Moves: []string{"R", "U'"}},
		{Time: day.Add(time.Second), Kind: KindMove, Move: "U"},
		{Time: day.Add(2 * time.Second), Kind: KindMove, Move: "R'", Solved: true},
	}
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	path := w.Path("2025-05-04")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("journal file missing: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("read %d entries, want 3", len(got))
	}
	if got[0].Kind != KindScramble || len(got[0].Moves) != 2 || got[2].Move != "R'" || !got[2].Solved {
		t.Errorf("entries = %+v", got)
	}
}

func TestAppendAcrossWriters(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 2; i++ {
		w := NewWriter(dir, "j")
		w.Write(Entry{Time: day, Kind: KindMove, Move: "F"})
		w.Close()
	}
	got, err := Read(filepath.Join(dir, "j-2025-05-04.jsonl.zst"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("read %d entries from two frames, want 2", len(got))
	}
}

func TestAttachAndReplay(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "session")
	fixed := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	ex := rubik.NewExecutor(rubik.WithSeed(5))
	Attach(ex, w, "solo", nil)
	ex.Scramble(8)
	ex.ApplyMove("R")
	ex.ApplyMove("U'")
	want := ex.State()
	ex.Reset()
	ex.ApplyMove("F")
	final := ex.State()
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	entries, err := Read(w.Path("2025-06-01"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("got %d entries, want 5", len(entries))
	}

	replayed := rubik.NewExecutor(rubik.WithAnimationHold(true))
	if err := Replay(entries[:3], replayed); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if replayed.State() != want {
		t.Error("replayed state differs before reset")
	}
	if err := Replay(entries[3:], replayed); err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if replayed.State() != final {
		t.Error("replayed state differs at the end")
	}
}

func TestReplay_RejectsBadEntry(t *testing.T) {
	ex := rubik.NewExecutor()
	if err := Replay([]Entry{{Kind: KindMove, Move: "R2"}}, ex); err == nil {
		t.Error("Replay should fail on an invalid move")
	}
	if err := Replay([]Entry{{Kind: "teleport"}}, ex); err == nil {
		t.Error("Replay should fail on an unknown kind")
	}
}

func TestSharedWriterKeepsSessionsApart(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "shared")
	fixed := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	a := rubik.NewExecutor()
	b := rubik.NewExecutor()
	Attach(a, w, "conn-a", nil)
	Attach(b, w, "conn-b", nil)

	// Interleaved turns from two cubes: each ends solved on its own.
	a.ApplyMove("R")
	b.ApplyMove("U")
	a.ApplyMove("R'")
	b.ApplyMove("U'")
	w.Close()

	entries, err := Read(w.Path("2025-06-02"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := Sessions(entries); len(got) != 2 || got[0] != "conn-a" || got[1] != "conn-b" {
		t.Fatalf("Sessions = %v", got)
	}
	if err := Replay(entries, rubik.NewExecutor()); !errors.Is(err, ErrMixedSessions) {
		t.Errorf("Replay of mixed sessions error = %v, want ErrMixedSessions", err)
	}

	for _, id := range []string{"conn-a", "conn-b"} {
		ex := rubik.NewExecutor()
		if err := Replay(Filter(entries, id), ex); err != nil {
			t.Fatalf("Replay(%s) failed: %v", id, err)
		}
		if !ex.IsSolved() || ex.MoveCount() != 2 {
			t.Errorf("session %s replayed to solved=%v moves=%d", id, ex.IsSolved(), ex.MoveCount())
		}
	}

	if id, err := MatchSession(entries, "conn-b"); err != nil || id != "conn-b" {
		t.Errorf("MatchSession(conn-b) = %q, %v", id, err)
	}
	if _, err := MatchSession(entries, "conn"); err == nil {
		t.Error("ambiguous prefix should fail")
	}
	if _, err := MatchSession(entries, "zzz"); err == nil {
		t.Error("unknown session should fail")
	}
}

func TestReadLiveJournal(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, "live")
	day := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)
	for _, mv := range []string{"F", "B'"} {
		if err := w.Write(Entry{Time: day, Kind: KindMove, Move: mv}); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	defer w.Close()

	// The writer is still open: flushed entries must already be readable.
	got, err := Read(w.Path("2025-07-01"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(got) != 2 || got[1].Move != "B'" {
		t.Errorf("read %+v from a live journal", got)
	}
}
