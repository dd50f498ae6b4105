package session

import (
	"testing"
	"time"

	"github.com/SeamusWaldron/rubik"
)

type fakeStore struct {
	created  []string
	moves    []string
	phases   []string
	finished map[string]time.Duration
	abandons int
	best     time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{finished: make(map[string]time.Duration)}
}

func (f *fakeStore) CreateSolve(scramble string, startedAt time.Time) (string, error) {
	f.created = append(f.created, scramble)
	return "solve-" + string(rune('a'+len(f.created)-1)), nil
}

func (f *fakeStore) RecordMove(solveID string, seq int, notation string, elapsed time.Duration) error {
	f.moves = append(f.moves, notation)
	return nil
}

func (f *fakeStore) RecordPhase(solveID, phase string, elapsed time.Duration, moveIndex int) error {
	f.phases = append(f.phases, phase)
	return nil
}

func (f *fakeStore) FinishSolve(solveID string, endedAt time.Time, d time.Duration, moveCount int) error {
	f.finished[solveID] = d
	return nil
}

func (f *fakeStore) AbandonSolve(solveID string, endedAt time.Time, d time.Duration, moveCount int) error {
	f.abandons++
	return nil
}

func (f *fakeStore) BestTime() (time.Duration, bool, error) {
	return f.best, f.best > 0, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSession_TimesAnAttempt(t *testing.T) {
	store := newFakeStore()
	store.best = time.Minute
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	ex := rubik.NewExecutor()
	s := New(WithStore(store), WithClock(clk.now))
	s.Attach(ex)

	var finished []Result
	s.OnFinish(func(r Result) { finished = append(finished, r) })

	// Moves before a scramble are ignored.
	ex.Apply(rubik.U)
	ex.Apply(rubik.UPrime)
	if s.State() != StateIdle || len(store.created) != 0 {
		t.Fatal("moves without a scramble started an attempt")
	}

	scramble, _ := rubik.ParseMoves("R U F")
	ex.ScrambleWith(scramble)
	if s.State() != StateInspecting {
		t.Fatalf("state after scramble = %v", s.State())
	}

	clk.advance(5 * time.Second) // inspection is not timed
	solution := rubik.Invert(scramble)
	for i, m := range solution {
		if i > 0 {
			clk.advance(2 * time.Second)
		}
		ex.Apply(m)
		if i == 0 && s.State() != StateRunning {
			t.Fatalf("state after first move = %v", s.State())
		}
	}

	if len(finished) != 1 {
		t.Fatalf("got %d finished attempts", len(finished))
	}
	r := finished[0]
	if r.Duration != 4*time.Second || r.MoveCount != 3 || r.Scramble != "R U F" {
		t.Errorf("result = %+v", r)
	}
	if !r.Best {
		t.Error("4s beats the stored 1m best")
	}
	if store.finished[r.SolveID] != 4*time.Second {
		t.Errorf("stored duration = %v", store.finished[r.SolveID])
	}
	if len(store.moves) != 3 {
		t.Errorf("stored %d moves", len(store.moves))
	}
	if got := store.phases[len(store.phases)-1]; got != "solved" {
		t.Errorf("last phase = %q", got)
	}
	if s.State() != StateIdle || s.Elapsed() != 0 {
		t.Error("session should be idle after solving")
	}
	if last, ok := s.Last(); !ok || last.SolveID != r.SolveID {
		t.Error("Last() should return the finished attempt")
	}
}

func TestSession_ResetAbandons(t *testing.T) {
	store := newFakeStore()
	ex := rubik.NewExecutor()
	s := New(WithStore(store))
	s.Attach(ex)
	scramble := []rubik.Move{rubik.R, rubik.U, rubik.F}

	ex.ScrambleWith(scramble)
	ex.Apply(rubik.R)
	if s.State() != StateRunning {
		t.Fatalf("state = %v", s.State())
	}
	ex.Reset()
	if s.State() != StateIdle || store.abandons != 1 {
		t.Errorf("state = %v, abandons = %d", s.State(), store.abandons)
	}

	// A scramble that was never started is dropped without a store call.
	ex.ScrambleWith(scramble)
	ex.ScrambleWith(scramble)
	if store.abandons != 1 || len(store.created) != 1 {
		t.Errorf("abandons = %d, created = %d", store.abandons, len(store.created))
	}
}

func TestSession_PhasesAreMonotonic(t *testing.T) {
	ex := rubik.NewExecutor()
	s := New()
	s.Attach(ex)

	var splits []Split
	s.OnPhase(func(sp Split) { splits = append(splits, sp) })

	// D leaves only the last layer corners unsolved.
	ex.ScrambleWith([]rubik.Move{rubik.D})
	ex.Apply(rubik.R)
	ex.Apply(rubik.RPrime)
	ex.Apply(rubik.R)
	ex.Apply(rubik.RPrime)

	if len(splits) != 1 || splits[0].Phase != rubik.PhaseYellowCross {
		t.Fatalf("splits = %+v", splits)
	}
	if s.HighestPhase() != rubik.PhaseYellowCross {
		t.Errorf("HighestPhase = %v", s.HighestPhase())
	}

	ex.Apply(rubik.DPrime)
	if r, ok := s.Last(); !ok || !r.Best || r.Splits[len(r.Splits)-1].Phase != rubik.PhaseSolved {
		t.Errorf("last = %+v, %v", r, ok)
	}
}

func TestSession_ArmForHandScramble(t *testing.T) {
	store := newFakeStore()
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	ex := rubik.NewExecutor()
	s := New(WithStore(store), WithClock(clk.now))
	s.Attach(ex)

	// Turns made while scrambling by hand.
	ex.Apply(rubik.F)
	ex.Apply(rubik.R)
	if s.State() != StateIdle {
		t.Fatal("hand scramble should not start an attempt")
	}

	s.Arm(ex.History(), ex.State())
	if s.State() != StateInspecting {
		t.Fatalf("state after Arm = %v", s.State())
	}

	clk.advance(3 * time.Second)
	ex.Apply(rubik.RPrime)
	clk.advance(2 * time.Second)
	ex.Apply(rubik.FPrime)

	res, ok := s.Last()
	if !ok {
		t.Fatal("attempt did not finish")
	}
	if res.Scramble != "F R" {
		t.Errorf("scramble = %q", res.Scramble)
	}
	if res.Duration != 2*time.Second || res.MoveCount != 2 {
		t.Errorf("result = %+v", res)
	}
	if len(store.created) != 1 || store.created[0] != "F R" {
		t.Errorf("created = %v", store.created)
	}
}

func TestSession_ScrambleKeepsIntactPhases(t *testing.T) {
	store := newFakeStore()
	clk := &clock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	ex := rubik.NewExecutor()
	s := New(WithStore(store), WithClock(clk.now))
	s.Attach(ex)

	// A bottom-only scramble leaves the upper layers done.
	if err := ex.ScrambleWith([]rubik.Move{rubik.D}); err != nil {
		t.Fatalf("ScrambleWith failed: %v", err)
	}
	start := ex.Phase()
	if start <= rubik.PhaseSecondLayer {
		t.Fatalf("phase after D = %v, want past the second layer", start)
	}

	for i := 0; i < 3; i++ {
		clk.advance(time.Second)
		ex.Apply(rubik.D)
	}
	res, ok := s.Last()
	if !ok {
		t.Fatal("attempt did not finish")
	}
	for _, sp := range res.Splits {
		if sp.Phase <= start {
			t.Errorf("split %v was already complete after the scramble", sp.Phase)
		}
	}
	if len(store.phases) == 0 || store.phases[len(store.phases)-1] != "solved" {
		t.Errorf("recorded phases = %v", store.phases)
	}
}
