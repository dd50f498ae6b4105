package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/session"
)

// Messages
type tickMsg time.Time
type settleMsg struct{}
type stateChangedMsg struct{ ev rubik.StateEvent }
type phaseReachedMsg struct{ split session.Split }
type solvedMsg struct{ res session.Result }

// Model is the Bubble Tea model for one interactive cube.
type Model struct {
	ex     *rubik.Executor
	sess   *session.Session
	keys   KeyMap
	help   help.Model
	hold   time.Duration
	title  string
	events chan tea.Msg

	// physical is set when a smart cube drives the executor.
	physical bool

	message      string
	err          error
	showSolution bool
	solution     []rubik.Move
	lastSplit    *session.Split

	// undo holds the turns made from the keyboard, newest last. Undone
	// turns are popped, so repeated undo walks further back.
	undo []rubik.Move

	width    int
	height   int
	quitting bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithHold sets how long a turn stays on screen before the next move is
// accepted. It should match the executor's animation hold setting.
func WithHold(d time.Duration) ModelOption {
	return func(m *Model) { m.hold = d }
}

// WithTitle replaces the header text.
func WithTitle(title string) ModelOption {
	return func(m *Model) { m.title = title }
}

// WithPhysicalCube disables keyboard turns. The scramble key arms a timed
// attempt for a cube scrambled by hand instead.
func WithPhysicalCube() ModelOption {
	return func(m *Model) { m.physical = true }
}

// NewModel creates a model driving ex. sess may be nil.
func NewModel(ex *rubik.Executor, sess *session.Session, opts ...ModelOption) *Model {
	h := help.New()
	h.ShowAll = false

	m := &Model{
		ex:     ex,
		sess:   sess,
		keys:   DefaultKeyMap(),
		help:   h,
		title:  "Rubik's Cube",
		events: make(chan tea.Msg, 64),
	}
	for _, opt := range opts {
		opt(m)
	}

	// Moves may also arrive from a smart cube on another goroutine.
	ex.OnStateChange(func(ev rubik.StateEvent) { m.post(stateChangedMsg{ev: ev}) })
	if sess != nil {
		sess.OnPhase(func(s session.Split) { m.post(phaseReachedMsg{split: s}) })
		sess.OnFinish(func(r session.Result) { m.post(solvedMsg{res: r}) })
	}
	return m
}

func (m *Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
		// Channel full, drop; the next tick redraws from the executor.
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.tickCmd())
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, m.tickCmd()

	case settleMsg:
		m.ex.Settle()
		return m, nil

	case stateChangedMsg:
		if msg.ev.Cause == rubik.CauseSetState {
			m.undo = nil
		}
		if m.showSolution {
			m.refreshSolution()
		}
		return m, m.waitForEvent()

	case phaseReachedMsg:
		split := msg.split
		m.lastSplit = &split
		return m, m.waitForEvent()

	case solvedMsg:
		m.message = fmt.Sprintf("Solved in %s with %d moves", formatElapsed(msg.res.Duration), msg.res.MoveCount)
		if msg.res.Best {
			m.message += " - new best!"
		}
		return m, m.waitForEvent()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return nil

	case m.physical && (key.Matches(msg, m.keys.Turn) || key.Matches(msg, m.keys.Prime) ||
		key.Matches(msg, m.keys.Undo) || key.Matches(msg, m.keys.Reset)):
		m.message = "Turn the cube by hand"
		return nil

	case m.physical && key.Matches(msg, m.keys.Scramble):
		if m.sess == nil {
			return nil
		}
		m.sess.Arm(m.ex.History(), m.ex.State())
		m.lastSplit = nil
		m.message = "Ready - the first turn starts the timer"
		return nil

	case key.Matches(msg, m.keys.Turn), key.Matches(msg, m.keys.Prime):
		mv, ok := moveForKey(msg)
		if !ok {
			return nil
		}
		cmd, ok := m.apply(mv)
		if ok {
			m.undo = append(m.undo, mv)
		}
		return cmd

	case key.Matches(msg, m.keys.Undo):
		if len(m.undo) == 0 {
			m.message = "Nothing to undo"
			return nil
		}
		last := m.undo[len(m.undo)-1]
		cmd, ok := m.apply(last.Inverse())
		if ok {
			m.undo = m.undo[:len(m.undo)-1]
		}
		return cmd

	case key.Matches(msg, m.keys.Scramble):
		moves, err := m.ex.Scramble(rubik.ScrambleDefault)
		if err != nil {
			m.err = err
			return nil
		}
		m.err = nil
		m.lastSplit = nil
		m.undo = nil
		m.message = "Scrambled: " + rubik.FormatMoves(moves)
		return m.holdCmd()

	case key.Matches(msg, m.keys.Reset):
		if err := m.ex.Reset(); err != nil {
			m.err = err
			return nil
		}
		m.err = nil
		m.lastSplit = nil
		m.undo = nil
		m.message = "Reset"
		return nil

	case key.Matches(msg, m.keys.Hint):
		m.showSolution = !m.showSolution
		if m.showSolution {
			m.refreshSolution()
		}
		return nil
	}
	return nil
}

// apply turns the cube and reports whether the executor accepted the move.
func (m *Model) apply(mv rubik.Move) (tea.Cmd, bool) {
	if _, err := m.ex.Apply(mv); err != nil {
		m.err = err
		return nil, false
	}
	m.err = nil
	return m.holdCmd(), true
}

// holdCmd settles the executor once the turn has been on screen long
// enough.
func (m *Model) holdCmd() tea.Cmd {
	if m.ex.Status() != rubik.Rotating {
		return nil
	}
	if m.hold <= 0 {
		m.ex.Settle()
		return nil
	}
	return tea.Tick(m.hold, func(time.Time) tea.Msg { return settleMsg{} })
}

func (m *Model) refreshSolution() {
	sol, err := m.ex.Solution()
	if err != nil {
		m.solution = nil
		m.err = err
		return
	}
	m.solution = sol
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	state := m.ex.State()
	phase := state.Phase()
	b.WriteString(statusStyle.Render(fmt.Sprintf("Moves: %d  Phase: %s  Status: %s",
		m.ex.MoveCount(), phase.DisplayName(), m.ex.Status())))
	b.WriteString("\n\n")

	b.WriteString(RenderNet(state))
	b.WriteString("\n")

	if state.IsSolved() && m.ex.MoveCount() > 0 {
		b.WriteString(solvedStyle.Render("SOLVED"))
		b.WriteString("\n")
	}

	if m.sess != nil {
		switch m.sess.State() {
		case session.StateInspecting:
			b.WriteString(fmt.Sprintf("State: %s - make a move to start the timer\n", phaseStyle.Render("INSPECTION")))
		case session.StateRunning:
			b.WriteString(fmt.Sprintf("Time: %s\n", phaseStyle.Render(formatElapsed(m.sess.Elapsed()))))
			if m.lastSplit != nil {
				b.WriteString(fmt.Sprintf("Completed: %s at %s\n",
					statusStyle.Render(m.lastSplit.Phase.DisplayName()), formatElapsed(m.lastSplit.Elapsed)))
			}
		}
	}

	if history := m.ex.History(); len(history) > 0 {
		start := 0
		prefix := ""
		if len(history) > 20 {
			start = len(history) - 20
			prefix = "... "
		}
		b.WriteString("Last: " + prefix)
		b.WriteString(moveStyle.Render(rubik.FormatMoves(history[start:])))
		b.WriteString("\n")
	}

	if m.showSolution && m.solution != nil {
		text := rubik.FormatMoves(m.solution)
		if text == "" {
			text = "(already solved)"
		}
		b.WriteString("Solution: " + moveStyle.Render(text) + "\n")
	}

	if m.message != "" {
		b.WriteString(statusStyle.Render(m.message))
		b.WriteString("\n")
	}

	if m.err != nil {
		msg := fmt.Sprintf("Error: %v", m.err)
		if errors.Is(m.err, rubik.ErrBusy) {
			msg = "Turn in progress"
		}
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

func formatElapsed(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}
