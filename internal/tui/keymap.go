// Package tui renders an interactive cube in the terminal and serves it
// over SSH.
package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/SeamusWaldron/rubik"
)

// KeyMap defines the key bindings for the cube screen.
type KeyMap struct {
	Turn     key.Binding
	Prime    key.Binding
	Scramble key.Binding
	Reset    key.Binding
	Hint     key.Binding
	Undo     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Turn, k.Prime, k.Scramble, k.Hint, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Turn, k.Prime, k.Undo},
		{k.Scramble, k.Reset, k.Hint},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Turn: key.NewBinding(
			key.WithKeys("r", "l", "u", "d", "f", "b"),
			key.WithHelp("r/l/u/d/f/b", "turn clockwise"),
		),
		Prime: key.NewBinding(
			key.WithKeys("R", "L", "U", "D", "F", "B"),
			key.WithHelp("shift+face", "turn counter-clockwise"),
		),
		Scramble: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "scramble"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reset"),
		),
		Hint: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "show solution"),
		),
		Undo: key.NewBinding(
			key.WithKeys("z"),
			key.WithHelp("z", "undo"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// moveForKey maps a face key to its move. Lowercase turns clockwise,
// uppercase counter-clockwise.
func moveForKey(msg tea.KeyMsg) (rubik.Move, bool) {
	s := msg.String()
	if len(s) != 1 {
		return rubik.Move{}, false
	}
	turn := rubik.CW
	c := s[0]
	if c >= 'A' && c <= 'Z' {
		turn = rubik.CCW
		c += 'a' - 'A'
	}
	var face rubik.Face
	switch c {
	case 'r':
		face = rubik.FaceR
	case 'l':
		face = rubik.FaceL
	case 'u':
		face = rubik.FaceU
	case 'd':
		face = rubik.FaceD
	case 'f':
		face = rubik.FaceF
	case 'b':
		face = rubik.FaceB
	default:
		return rubik.Move{}, false
	}
	return rubik.Move{Face: face, Turn: turn}, true
}
