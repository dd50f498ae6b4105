// Package session times solve attempts on an executor and records them.
//
// An attempt begins when a scramble commits. The timer starts with the
// first move after the scramble and stops when the cube is solved. Reset
// or a manual state change abandons the attempt.
package session

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/SeamusWaldron/rubik"
)

// Store persists attempts. storage.Recorder implements it.
type Store interface {
	CreateSolve(scramble string, startedAt time.Time) (string, error)
	RecordMove(solveID string, seq int, notation string, elapsed time.Duration) error
	RecordPhase(solveID, phase string, elapsed time.Duration, moveIndex int) error
	FinishSolve(solveID string, endedAt time.Time, duration time.Duration, moveCount int) error
	AbandonSolve(solveID string, endedAt time.Time, duration time.Duration, moveCount int) error
	BestTime() (time.Duration, bool, error)
}

// State of the current attempt.
type State int

const (
	StateIdle       State = iota // No attempt
	StateInspecting              // Scrambled, timer not started
	StateRunning                 // Timer running
)

func (s State) String() string {
	switch s {
	case StateInspecting:
		return "inspecting"
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

// Split is the time a phase was first reached.
type Split struct {
	Phase     rubik.Phase
	Elapsed   time.Duration
	MoveIndex int
}

// Result describes a finished attempt.
type Result struct {
	SolveID   string
	Scramble  string
	Duration  time.Duration
	MoveCount int
	Moves     []rubik.Move
	Splits    []Split
	Best      bool // faster than every earlier stored solve
}

// Session follows one executor.
type Session struct {
	store Store
	log   *log.Logger
	now   func() time.Time

	mu           sync.Mutex
	state        State
	scramble     []rubik.Move
	solveID      string
	startedAt    time.Time
	moves        []rubik.Move
	splits       []Split
	highestPhase rubik.Phase
	startPhase   rubik.Phase // phase of the scrambled cube
	last         *Result
	bestLocal    time.Duration

	onPhase  func(Split)
	onFinish func(Result)
}

// Option configures a Session.
type Option func(*Session)

// WithStore persists attempts.
func WithStore(s Store) Option {
	return func(ss *Session) { ss.store = s }
}

// WithLogger sets the logger for store failures.
func WithLogger(l *log.Logger) Option {
	return func(ss *Session) {
		if l != nil {
			ss.log = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(ss *Session) { ss.now = now }
}

// New creates a session. Call Attach to follow an executor.
func New(opts ...Option) *Session {
	s := &Session{
		log: log.New(io.Discard),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach subscribes the session to ex.
func (s *Session) Attach(ex *rubik.Executor) {
	ex.OnMove(s.HandleMove)
	ex.OnStateChange(s.HandleState)
}

// OnPhase sets a callback fired when an attempt reaches a new phase.
func (s *Session) OnPhase(fn func(Split)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onPhase = fn
}

// OnFinish sets a callback fired when an attempt is solved.
func (s *Session) OnFinish(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinish = fn
}

// State returns the attempt state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns the running time of the current attempt, or zero.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return 0
	}
	return s.now().Sub(s.startedAt)
}

// HighestPhase returns the best phase reached in the current attempt. It
// never goes backwards within an attempt.
func (s *Session) HighestPhase() rubik.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highestPhase
}

// Last returns the most recent finished attempt.
func (s *Session) Last() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return Result{}, false
	}
	return *s.last, true
}

// Arm starts inspection without a scramble commit, for cubes scrambled by
// hand. scramble is stored with the attempt and state is the cube as
// scrambled; the timer starts with the next move.
func (s *Session) Arm(scramble []rubik.Move, state rubik.StickerState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.abandonLocked()
	s.state = StateInspecting
	s.scramble = append([]rubik.Move(nil), scramble...)
	s.startPhase = state.Phase()
}

// HandleMove processes a committed move.
func (s *Session) HandleMove(ev rubik.MoveEvent) {
	s.mu.Lock()
	switch s.state {
	case StateIdle:
		s.mu.Unlock()
		return
	case StateInspecting:
		s.startLocked()
	}

	s.moves = append(s.moves, ev.Move)
	elapsed := s.now().Sub(s.startedAt)
	if s.store != nil && s.solveID != "" {
		if err := s.store.RecordMove(s.solveID, len(s.moves), ev.Move.Notation(), elapsed); err != nil {
			s.log.Warn("cannot record move", "err", err)
		}
	}

	if !ev.Solved {
		s.mu.Unlock()
		return
	}

	res := s.finishLocked(elapsed)
	cb := s.onFinish
	s.mu.Unlock()

	if cb != nil {
		cb(res)
	}
}

// HandleState processes a committed state change.
func (s *Session) HandleState(ev rubik.StateEvent) {
	s.mu.Lock()
	switch ev.Cause {
	case rubik.CauseScramble:
		s.abandonLocked()
		if ev.Solved {
			s.mu.Unlock()
			return
		}
		s.state = StateInspecting
		s.scramble = append([]rubik.Move(nil), ev.Moves...)
		// Phases the scramble left intact are not splits of this attempt.
		s.startPhase = ev.State.Phase()
		s.mu.Unlock()
		return
	case rubik.CauseReset, rubik.CauseSetState:
		s.abandonLocked()
		s.mu.Unlock()
		return
	}

	if s.state != StateRunning {
		s.mu.Unlock()
		return
	}

	phase := ev.State.Phase()
	if phase <= s.highestPhase {
		s.mu.Unlock()
		return
	}
	s.highestPhase = phase
	split := Split{Phase: phase, Elapsed: s.now().Sub(s.startedAt), MoveIndex: len(s.moves)}
	s.splits = append(s.splits, split)
	if s.store != nil && s.solveID != "" {
		if err := s.store.RecordPhase(s.solveID, phase.String(), split.Elapsed, split.MoveIndex); err != nil {
			s.log.Warn("cannot record phase", "err", err)
		}
	}
	cb := s.onPhase
	s.mu.Unlock()

	if cb != nil {
		cb(split)
	}
}

func (s *Session) startLocked() {
	s.state = StateRunning
	s.startedAt = s.now()
	s.moves = nil
	s.splits = nil
	s.highestPhase = s.startPhase
	if s.store == nil {
		return
	}
	id, err := s.store.CreateSolve(rubik.FormatMoves(s.scramble), s.startedAt)
	if err != nil {
		s.log.Warn("cannot create solve", "err", err)
		return
	}
	s.solveID = id
}

func (s *Session) finishLocked(elapsed time.Duration) Result {
	res := Result{
		SolveID:   s.solveID,
		Scramble:  rubik.FormatMoves(s.scramble),
		Duration:  elapsed,
		MoveCount: len(s.moves),
		Moves:     append([]rubik.Move(nil), s.moves...),
	}

	if s.highestPhase < rubik.PhaseSolved {
		split := Split{Phase: rubik.PhaseSolved, Elapsed: elapsed, MoveIndex: len(s.moves)}
		s.splits = append(s.splits, split)
		s.highestPhase = rubik.PhaseSolved
		if s.store != nil && s.solveID != "" {
			if err := s.store.RecordPhase(s.solveID, split.Phase.String(), elapsed, split.MoveIndex); err != nil {
				s.log.Warn("cannot record phase", "err", err)
			}
		}
	}
	res.Splits = append([]Split(nil), s.splits...)

	if s.store != nil {
		best, ok, err := s.store.BestTime()
		if err != nil {
			s.log.Warn("cannot read best time", "err", err)
		}
		res.Best = err == nil && (!ok || elapsed < best)
		if s.solveID != "" {
			if err := s.store.FinishSolve(s.solveID, s.now(), elapsed, len(s.moves)); err != nil {
				s.log.Warn("cannot finish solve", "err", err)
			}
		}
	} else {
		res.Best = s.bestLocal == 0 || elapsed < s.bestLocal
		if res.Best {
			s.bestLocal = elapsed
		}
	}

	s.log.Info("solved", "time", elapsed.Round(time.Millisecond), "moves", len(s.moves))
	s.last = &res
	s.reset()
	return res
}

func (s *Session) abandonLocked() {
	if s.state == StateRunning && s.store != nil && s.solveID != "" {
		elapsed := s.now().Sub(s.startedAt)
		if err := s.store.AbandonSolve(s.solveID, s.now(), elapsed, len(s.moves)); err != nil {
			s.log.Warn("cannot abandon solve", "err", err)
		}
	}
	s.reset()
}

func (s *Session) reset() {
	s.state = StateIdle
	s.scramble = nil
	s.solveID = ""
	s.moves = nil
	s.splits = nil
	s.highestPhase = rubik.PhaseScrambled
	s.startPhase = rubik.PhaseScrambled
}
