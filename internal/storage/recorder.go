package storage

import (
	"errors"
	"time"
)

// Recorder adapts the repositories to the solve session lifecycle.
type Recorder struct {
	solves *SolveRepository
	moves  *MoveRepository
	phases *PhaseRepository
	source string
}

// NewRecorder creates a recorder tagging solves with source.
func NewRecorder(db *DB, source string) *Recorder {
	return &Recorder{
		solves: NewSolveRepository(db),
		moves:  NewMoveRepository(db),
		phases: NewPhaseRepository(db),
		source: source,
	}
}

// CreateSolve starts a solve.
func (r *Recorder) CreateSolve(scramble string, startedAt time.Time) (string, error) {
	return r.solves.Create(scramble, r.source, startedAt)
}

// RecordMove stores one move of a solve.
func (r *Recorder) RecordMove(solveID string, seq int, notation string, elapsed time.Duration) error {
	return r.moves.Create(Move{SolveID: solveID, Seq: seq, Notation: notation, TsMs: elapsed.Milliseconds()})
}

// RecordPhase stores the first time a solve reached a phase.
func (r *Recorder) RecordPhase(solveID, phase string, elapsed time.Duration, moveIndex int) error {
	return r.phases.Create(PhaseSplit{SolveID: solveID, Phase: phase, ReachedMs: elapsed.Milliseconds(), MoveIndex: moveIndex})
}

// FinishSolve marks a solve as solved.
func (r *Recorder) FinishSolve(solveID string, endedAt time.Time, duration time.Duration, moveCount int) error {
	return r.solves.Finish(solveID, endedAt, duration, moveCount)
}

// AbandonSolve marks a solve as given up.
func (r *Recorder) AbandonSolve(solveID string, endedAt time.Time, duration time.Duration, moveCount int) error {
	return r.solves.Abandon(solveID, endedAt, duration, moveCount)
}

// BestTime returns the fastest solved duration, if any.
func (r *Recorder) BestTime() (time.Duration, bool, error) {
	best, err := r.solves.Best()
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return best.Duration(), true, nil
}
