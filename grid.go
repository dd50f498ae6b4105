package rubik

import "fmt"

// Position is a slot in the 3x3x3 arrangement. X grows to the right, Y
// grows upward and Z grows toward the front.
type Position struct {
	X, Y, Z int
}

// Center is the hidden middle slot.
var Center = Position{1, 1, 1}

// Valid reports whether every coordinate is 0, 1 or 2.
func (p Position) Valid() bool {
	return p.X >= 0 && p.X <= 2 && p.Y >= 0 && p.Y <= 2 && p.Z >= 0 && p.Z <= 2
}

func (p Position) index() int {
	return p.X*9 + p.Y*3 + p.Z
}

func positionAt(i int) Position {
	return Position{X: i / 9, Y: i / 3 % 3, Z: i % 3}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// Coord returns the coordinate along axis.
func (p Position) Coord(axis Axis) int {
	switch axis {
	case AxisX:
		return p.X
	case AxisY:
		return p.Y
	default:
		return p.Z
	}
}

// Exterior reports whether a sticker facing dir from this slot is on the
// outside of the cube.
func (p Position) Exterior(dir Face) bool {
	switch dir {
	case FaceR:
		return p.X == 2
	case FaceL:
		return p.X == 0
	case FaceU:
		return p.Y == 2
	case FaceD:
		return p.Y == 0
	case FaceF:
		return p.Z == 2
	case FaceB:
		return p.Z == 0
	}
	return false
}

// stickerIndex returns the facelet index on face dir for the slot. Only
// meaningful when p.Exterior(dir).
func (p Position) stickerIndex(dir Face) int {
	var row, col int
	switch dir {
	case FaceU:
		row, col = p.Z, p.X
	case FaceD:
		row, col = 2-p.Z, p.X
	case FaceF:
		row, col = 2-p.Y, p.X
	case FaceB:
		row, col = 2-p.Y, 2-p.X
	case FaceR:
		row, col = 2-p.Y, 2-p.Z
	case FaceL:
		row, col = 2-p.Y, p.Z
	}
	return row*3 + col
}

// slotOf returns the slot that carries sticker (face, idx).
func slotOf(face Face, idx int) Position {
	row, col := idx/3, idx%3
	switch face {
	case FaceU:
		return Position{X: col, Y: 2, Z: row}
	case FaceD:
		return Position{X: col, Y: 0, Z: 2 - row}
	case FaceF:
		return Position{X: col, Y: 2 - row, Z: 2}
	case FaceB:
		return Position{X: 2 - col, Y: 2 - row, Z: 0}
	case FaceR:
		return Position{X: 2, Y: 2 - row, Z: 2 - col}
	default:
		return Position{X: 0, Y: 2 - row, Z: col}
	}
}

// Piece is one of the 27 cubies. Stickers is indexed by the direction the
// sticker currently faces; directions pointing inward hold Hidden.
type Piece struct {
	ID       int
	Pos      Position
	Stickers [6]Color
}

// Kind classifies the piece by its number of visible stickers.
func (p Piece) Kind() string {
	n := 0
	for _, c := range p.Stickers {
		if c != Hidden {
			n++
		}
	}
	switch n {
	case 0:
		return "core"
	case 1:
		return "center"
	case 2:
		return "edge"
	default:
		return "corner"
	}
}

// Grid tracks which piece occupies which slot. It is a value type.
type Grid struct {
	pieces [27]Piece
	slots  [27]int // slot index -> piece ID
}

// NewGrid returns the solved arrangement: piece i sits in slot i and shows
// the solved color of every exterior direction.
func NewGrid() Grid {
	var g Grid
	for i := 0; i < 27; i++ {
		pos := positionAt(i)
		p := Piece{ID: i, Pos: pos}
		for _, dir := range Faces {
			if pos.Exterior(dir) {
				p.Stickers[dir] = dir.SolvedColor()
			} else {
				p.Stickers[dir] = Hidden
			}
		}
		g.pieces[i] = p
		g.slots[i] = i
	}
	return g
}

// Piece returns the piece with the given ID.
func (g *Grid) Piece(id int) (Piece, error) {
	if id < 0 || id >= 27 {
		return Piece{}, fmt.Errorf("%w: piece %d", ErrIndex, id)
	}
	return g.pieces[id], nil
}

// At returns the piece occupying pos.
func (g *Grid) At(pos Position) (Piece, error) {
	if !pos.Valid() {
		return Piece{}, fmt.Errorf("%w: position %v", ErrIndex, pos)
	}
	return g.pieces[g.slots[pos.index()]], nil
}

// Pieces returns a copy of all 27 pieces ordered by ID.
func (g *Grid) Pieces() []Piece {
	out := make([]Piece, 27)
	copy(out, g.pieces[:])
	return out
}

// Stickers derives the sticker state from the pieces.
func (g *Grid) Stickers() StickerState {
	var s StickerState
	for _, face := range Faces {
		for i := 0; i < 9; i++ {
			p := g.pieces[g.slots[slotOf(face, i).index()]]
			s[face][i] = p.Stickers[face]
		}
	}
	return s
}

// Validate checks that positions form a bijection onto the 27 slots, that
// the slot table agrees with the pieces, and that visible stickers face
// exactly the exterior directions of each slot.
func (g *Grid) Validate() error {
	var used [27]bool
	for id, p := range g.pieces {
		if p.ID != id {
			return fmt.Errorf("grid: piece %d carries id %d", id, p.ID)
		}
		if !p.Pos.Valid() {
			return fmt.Errorf("grid: piece %d at invalid position %v", id, p.Pos)
		}
		idx := p.Pos.index()
		if used[idx] {
			return fmt.Errorf("grid: position %v occupied twice", p.Pos)
		}
		used[idx] = true
		if g.slots[idx] != id {
			return fmt.Errorf("grid: slot %v maps to piece %d, want %d", p.Pos, g.slots[idx], id)
		}
		if p.Pos == Center {
			continue
		}
		for _, dir := range Faces {
			visible := p.Stickers[dir] != Hidden
			if visible != p.Pos.Exterior(dir) {
				return fmt.Errorf("grid: piece %d at %v has sticker mismatch facing %v", id, p.Pos, dir)
			}
		}
	}
	return nil
}

// recolor rebuilds the grid in home positions painted from s.
func recolor(s StickerState) Grid {
	g := NewGrid()
	for i := range g.pieces {
		p := &g.pieces[i]
		for _, dir := range Faces {
			if p.Pos.Exterior(dir) {
				p.Stickers[dir] = s[dir][p.Pos.stickerIndex(dir)]
			}
		}
	}
	return g
}
