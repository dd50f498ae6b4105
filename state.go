package rubik

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StickerState maps every visible sticker to its color.
// StickerState[face][row*3+col] = color
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// It is a value type: assignment copies all 54 stickers.
type StickerState [6][9]Color

// GenerateSolvedState returns the state with every face showing its solved
// color.
func GenerateSolvedState() StickerState {
	var s StickerState
	for _, face := range Faces {
		color := face.SolvedColor()
		for i := 0; i < 9; i++ {
			s[face][i] = color
		}
	}
	return s
}

// IsSolved reports whether every face shows only its solved color.
func (s StickerState) IsSolved() bool {
	return s == GenerateSolvedState()
}

// Equal reports whether both states hold the same color under every key.
func (s StickerState) Equal(other StickerState) bool {
	return s == other
}

func checkKey(face Face, row, col int) error {
	if !face.Valid() {
		return fmt.Errorf("%w: face %d", ErrIndex, face)
	}
	if row < 0 || row > 2 || col < 0 || col > 2 {
		return fmt.Errorf("%w: %v row %d col %d", ErrIndex, face, row, col)
	}
	return nil
}

// Color returns the sticker at (face, row, col).
func (s StickerState) Color(face Face, row, col int) (Color, error) {
	if err := checkKey(face, row, col); err != nil {
		return 0, err
	}
	return s[face][row*3+col], nil
}

// SetColor overwrites the sticker at (face, row, col).
func (s *StickerState) SetColor(face Face, row, col int, c Color) error {
	if err := checkKey(face, row, col); err != nil {
		return err
	}
	if !c.Valid() {
		return fmt.Errorf("%w: color %d is not in the palette", ErrInvalidState, c)
	}
	s[face][row*3+col] = c
	return nil
}

// Counts returns how many stickers of each color the state holds, indexed
// by Color. Index Hidden counts anything outside the palette.
func (s StickerState) Counts() [7]int {
	var counts [7]int
	for _, face := range Faces {
		for _, c := range s[face] {
			if c.Valid() {
				counts[c]++
			} else {
				counts[Hidden]++
			}
		}
	}
	return counts
}

// Validate checks that every sticker uses a palette color and that each
// color appears exactly 9 times.
func (s StickerState) Validate() error {
	counts := s.Counts()
	if counts[Hidden] != 0 {
		return fmt.Errorf("%w: %d stickers outside the palette", ErrInvalidState, counts[Hidden])
	}
	for _, c := range Palette {
		if counts[c] != 9 {
			return fmt.Errorf("%w: %s appears %d times", ErrInvalidState, c.Name(), counts[c])
		}
	}
	return nil
}

// String renders the state as an unfolded net.
func (s StickerState) String() string {
	var b strings.Builder

	// U face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(s[FaceU][row*3+col].String() + " ")
		}
		b.WriteString("\n")
	}

	// L, F, R, B faces (side by side)
	for row := 0; row < 3; row++ {
		for _, face := range []Face{FaceL, FaceF, FaceR, FaceB} {
			for col := 0; col < 3; col++ {
				b.WriteString(s[face][row*3+col].String() + " ")
			}
		}
		b.WriteString("\n")
	}

	// D face (indented)
	for row := 0; row < 3; row++ {
		b.WriteString("      ")
		for col := 0; col < 3; col++ {
			b.WriteString(s[FaceD][row*3+col].String() + " ")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Facelets returns the 54 color letters in face order R L U D F B.
func (s StickerState) Facelets() string {
	var b strings.Builder
	b.Grow(54)
	for _, face := range Faces {
		for _, c := range s[face] {
			b.WriteString(c.String())
		}
	}
	return b.String()
}

// ParseFacelets is the inverse of Facelets. The result is validated.
func ParseFacelets(str string) (StickerState, error) {
	var s StickerState
	if len(str) != 54 {
		return s, fmt.Errorf("%w: want 54 facelets, got %d", ErrInvalidState, len(str))
	}
	for i := 0; i < 54; i++ {
		c, err := ParseColor(str[i : i+1])
		if err != nil {
			return s, err
		}
		s[i/9][i%9] = c
	}
	if err := s.Validate(); err != nil {
		return StickerState{}, err
	}
	return s, nil
}

// StickerKey formats the key of one sticker, e.g. "F_0_1".
func StickerKey(face Face, row, col int) string {
	return face.String() + "_" + strconv.Itoa(row) + "_" + strconv.Itoa(col)
}

func parseStickerKey(key string) (Face, int, int, error) {
	parts := strings.Split(key, "_")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: bad key %q", ErrInvalidState, key)
	}
	face, err := ParseFace(parts[0])
	if err != nil {
		return 0, 0, 0, err
	}
	row, err1 := strconv.Atoi(parts[1])
	col, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || checkKey(face, row, col) != nil {
		return 0, 0, 0, fmt.Errorf("%w: bad key %q", ErrInvalidState, key)
	}
	return face, row, col, nil
}

// Map returns the state as a key to color mapping.
func (s StickerState) Map() map[string]Color {
	m := make(map[string]Color, 54)
	for _, face := range Faces {
		for i, c := range s[face] {
			m[StickerKey(face, i/3, i%3)] = c
		}
	}
	return m
}

// StateFromMap builds a state from a key to color mapping. The mapping must
// cover all 54 keys with palette colors.
func StateFromMap(m map[string]Color) (StickerState, error) {
	var s StickerState
	var seen [6][9]bool
	for key, c := range m {
		face, row, col, err := parseStickerKey(key)
		if err != nil {
			return StickerState{}, err
		}
		if !c.Valid() {
			return StickerState{}, fmt.Errorf("%w: %s has color %d", ErrInvalidState, key, c)
		}
		s[face][row*3+col] = c
		seen[face][row*3+col] = true
	}
	for _, face := range Faces {
		for i := 0; i < 9; i++ {
			if !seen[face][i] {
				return StickerState{}, fmt.Errorf("%w: missing %s", ErrInvalidState, StickerKey(face, i/3, i%3))
			}
		}
	}
	if err := s.Validate(); err != nil {
		return StickerState{}, err
	}
	return s, nil
}

// MarshalJSON encodes the state as {"F_0_1":"green",...}.
func (s StickerState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON decodes and validates a key to color mapping.
func (s *StickerState) UnmarshalJSON(b []byte) error {
	var m map[string]Color
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	v, err := StateFromMap(m)
	if err != nil {
		return err
	}
	*s = v
	return nil
}
