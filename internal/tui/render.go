package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/SeamusWaldron/rubik"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	solvedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("82")).
			Padding(0, 1)
)

var stickerColors = map[rubik.Color]lipgloss.Color{
	rubik.White:  lipgloss.Color("#FFFFFF"),
	rubik.Yellow: lipgloss.Color("#FFD500"),
	rubik.Green:  lipgloss.Color("#009E60"),
	rubik.Blue:   lipgloss.Color("#0051BA"),
	rubik.Red:    lipgloss.Color("#C41E3A"),
	rubik.Orange: lipgloss.Color("#FF5800"),
}

var stickerStyles = func() map[rubik.Color]lipgloss.Style {
	m := make(map[rubik.Color]lipgloss.Style, len(stickerColors))
	for c, bg := range stickerColors {
		m[c] = lipgloss.NewStyle().
			Background(bg).
			Foreground(lipgloss.Color("#000000"))
	}
	return m
}()

func sticker(c rubik.Color) string {
	cell := " " + c.String() + " "
	if st, ok := stickerStyles[c]; ok {
		return st.Render(cell)
	}
	return cell
}

// RenderNet draws the state as a colored unfolded net with U above and D
// below the L F R B row.
func RenderNet(s rubik.StickerState) string {
	const gap = " "
	indent := strings.Repeat(" ", 3*3+1)

	var b strings.Builder
	face := func(f rubik.Face, row int) {
		for col := 0; col < 3; col++ {
			b.WriteString(sticker(s[f][row*3+col]))
		}
	}

	for row := 0; row < 3; row++ {
		b.WriteString(indent)
		face(rubik.FaceU, row)
		b.WriteString("\n")
	}
	for row := 0; row < 3; row++ {
		for i, f := range []rubik.Face{rubik.FaceL, rubik.FaceF, rubik.FaceR, rubik.FaceB} {
			if i > 0 {
				b.WriteString(gap)
			}
			face(f, row)
		}
		b.WriteString("\n")
	}
	for row := 0; row < 3; row++ {
		b.WriteString(indent)
		face(rubik.FaceD, row)
		b.WriteString("\n")
	}
	return b.String()
}
