package rubik

import (
	"math/rand"
	"sync"

	"github.com/charmbracelet/log"
)

// Status is the externally observable executor state.
type Status int

const (
	Idle     Status = iota // Ready for the next move
	Rotating               // A committed move is still being animated
)

func (s Status) String() string {
	if s == Rotating {
		return "rotating"
	}
	return "idle"
}

// Cause names the operation behind a state change.
type Cause int

const (
	CauseMove Cause = iota
	CauseScramble
	CauseReset
	CauseSetState
)

func (c Cause) String() string {
	switch c {
	case CauseMove:
		return "move"
	case CauseScramble:
		return "scramble"
	case CauseReset:
		return "reset"
	case CauseSetState:
		return "set_state"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single move request.
type Result struct {
	Accepted  bool
	Solved    bool
	MoveCount int
}

// MoveEvent is delivered after a single move commits.
type MoveEvent struct {
	Move      Move
	MoveCount int
	Solved    bool
}

// StateEvent is delivered after any state mutation commits.
type StateEvent struct {
	State  StickerState
	Solved bool
	Cause  Cause
	Moves  []Move // moves drawn by a scramble
}

// Executor sequences moves on one cube, keeps the move history and notifies
// observers after each commit. It is safe for concurrent use; callbacks run
// on the calling goroutine after the executor lock is released.
type Executor struct {
	mu           sync.Mutex
	cube         *Cube
	history      []Move
	historyValid bool
	status       Status
	rng          *rand.Rand
	cfg          *config
	log          *log.Logger

	onMove  []func(MoveEvent)
	onState []func(StateEvent)
}

// NewExecutor creates an executor around a solved cube.
func NewExecutor(opts ...Option) *Executor {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Executor{
		cube:         NewCube(),
		historyValid: true,
		rng:          rand.New(rand.NewSource(cfg.seed)),
		cfg:          cfg,
		log:          cfg.logger,
	}
}

// OnMove registers a callback for committed single moves.
func (e *Executor) OnMove(fn func(MoveEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onMove = append(e.onMove, fn)
}

// OnStateChange registers a callback for every committed state change.
func (e *Executor) OnStateChange(fn func(StateEvent)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onState = append(e.onState, fn)
}

// ApplyMove parses token and applies it.
func (e *Executor) ApplyMove(token string) (Result, error) {
	m, err := ParseMove(token)
	if err != nil {
		return Result{}, err
	}
	return e.Apply(m)
}

// Apply applies one move. It fails with ErrBusy, mutating nothing, while
// the executor is Rotating.
func (e *Executor) Apply(m Move) (Result, error) {
	e.mu.Lock()
	if e.status == Rotating {
		e.mu.Unlock()
		return Result{}, ErrBusy
	}
	if err := e.cube.Apply(m); err != nil {
		e.mu.Unlock()
		return Result{}, err
	}
	e.history = append(e.history, m)
	if e.cfg.animationHold {
		e.status = Rotating
	}
	res := Result{Accepted: true, Solved: e.cube.IsSolved(), MoveCount: len(e.history)}
	state := e.cube.State()
	moveCbs, stateCbs := e.callbacks()
	e.mu.Unlock()

	e.log.Debug("move applied", "move", m, "count", res.MoveCount, "solved", res.Solved)

	ev := MoveEvent{Move: m, MoveCount: res.MoveCount, Solved: res.Solved}
	for _, fn := range moveCbs {
		fn(ev)
	}
	e.notifyState(stateCbs, StateEvent{State: state, Solved: res.Solved, Cause: CauseMove})
	return res, nil
}

// Scramble draws n moves uniformly with replacement from the twelve quarter
// turns and applies them as one commit. A negative n (ScrambleDefault)
// uses the configured length; zero draws nothing and leaves the cube as
// it is. The drawn moves are returned and appended to the history.
func (e *Executor) Scramble(n int) ([]Move, error) {
	e.mu.Lock()
	if e.status == Rotating {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	if n < 0 {
		n = e.cfg.scrambleLength
	}
	if n == 0 {
		e.mu.Unlock()
		return []Move{}, nil
	}
	all := AllMoves()
	moves := make([]Move, n)
	for i := range moves {
		moves[i] = all[e.rng.Intn(len(all))]
	}
	state, stateCbs, err := e.scrambleLocked(moves)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	e.finishScramble(stateCbs, state, moves)
	out := make([]Move, len(moves))
	copy(out, moves)
	return out, nil
}

// ScrambleWith applies a given scramble as one commit. Observers see a
// single CauseScramble state change instead of per-move events.
func (e *Executor) ScrambleWith(moves []Move) error {
	e.mu.Lock()
	if e.status == Rotating {
		e.mu.Unlock()
		return ErrBusy
	}
	state, stateCbs, err := e.scrambleLocked(moves)
	e.mu.Unlock()
	if err != nil {
		return err
	}

	e.finishScramble(stateCbs, state, moves)
	return nil
}

// scrambleLocked applies moves and records them. The caller holds e.mu.
func (e *Executor) scrambleLocked(moves []Move) (StickerState, []func(StateEvent), error) {
	if err := e.cube.Apply(moves...); err != nil {
		return StickerState{}, nil, err
	}
	e.history = append(e.history, moves...)
	if e.cfg.animationHold {
		e.status = Rotating
	}
	_, stateCbs := e.callbacks()
	return e.cube.State(), stateCbs, nil
}

func (e *Executor) finishScramble(cbs []func(StateEvent), state StickerState, moves []Move) {
	e.log.Debug("scrambled", "moves", FormatMoves(moves))

	out := make([]Move, len(moves))
	copy(out, moves)
	e.notifyState(cbs, StateEvent{State: state, Solved: state.IsSolved(), Cause: CauseScramble, Moves: out})
}

// Reset restores the solved state and clears the history.
func (e *Executor) Reset() error {
	e.mu.Lock()
	if e.status == Rotating {
		e.mu.Unlock()
		return ErrBusy
	}
	e.cube.Reset()
	e.history = nil
	e.historyValid = true
	state := e.cube.State()
	_, stateCbs := e.callbacks()
	e.mu.Unlock()

	e.log.Debug("reset")
	e.notifyState(stateCbs, StateEvent{State: state, Solved: true, Cause: CauseReset})
	return nil
}

// SetState overwrites the whole sticker state. An invalid state fails with
// ErrInvalidState and leaves the cube untouched. The history is cleared and
// no longer describes how the state was reached, so Solution is
// unavailable until the next Reset.
func (e *Executor) SetState(s StickerState) error {
	e.mu.Lock()
	if e.status == Rotating {
		e.mu.Unlock()
		return ErrBusy
	}
	if err := e.cube.SetState(s); err != nil {
		e.mu.Unlock()
		return err
	}
	e.history = nil
	e.historyValid = false
	solved := e.cube.IsSolved()
	_, stateCbs := e.callbacks()
	e.mu.Unlock()

	e.log.Debug("state replaced", "solved", solved)
	e.notifyState(stateCbs, StateEvent{State: s, Solved: solved, Cause: CauseSetState})
	return nil
}

// Settle ends the Rotating status. It reports whether the status changed.
func (e *Executor) Settle() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != Rotating {
		return false
	}
	e.status = Idle
	return true
}

// Status returns Idle or Rotating.
func (e *Executor) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// State returns a snapshot of the sticker state.
func (e *Executor) State() StickerState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cube.State()
}

// Grid returns a snapshot of the piece grid.
func (e *Executor) Grid() Grid {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cube.Grid()
}

// IsSolved reports whether the cube is solved.
func (e *Executor) IsSolved() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cube.IsSolved()
}

// Phase returns the current solving phase.
func (e *Executor) Phase() Phase {
	return e.State().Phase()
}

// History returns a copy of the applied moves since the last reset.
func (e *Executor) History() []Move {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Move, len(e.history))
	copy(out, e.history)
	return out
}

// MoveCount returns the history length.
func (e *Executor) MoveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.history)
}

// Solution returns the optimized inverse of the history, which takes the
// cube back to solved. It fails with ErrUnknownHistory after SetState.
func (e *Executor) Solution() ([]Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.historyValid {
		return nil, ErrUnknownHistory
	}
	return Optimize(Invert(e.history)), nil
}

func (e *Executor) callbacks() ([]func(MoveEvent), []func(StateEvent)) {
	moves := make([]func(MoveEvent), len(e.onMove))
	copy(moves, e.onMove)
	states := make([]func(StateEvent), len(e.onState))
	copy(states, e.onState)
	return moves, states
}

func (e *Executor) notifyState(cbs []func(StateEvent), ev StateEvent) {
	for _, fn := range cbs {
		fn(ev)
	}
}
