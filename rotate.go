package rubik

import "fmt"

// Axis is a rotation axis through the cube center.
type Axis int

const (
	AxisX Axis = iota // Left to right
	AxisY             // Down to up
	AxisZ             // Back to front
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// LayerTurn is a quarter rotation of the nine pieces whose coordinate along
// Axis equals Layer. Sign +1 is clockwise looking from the positive end of
// the axis toward the center.
type LayerTurn struct {
	Axis  Axis
	Layer int
	Sign  int
}

func (t LayerTurn) String() string {
	return fmt.Sprintf("%v%d%+d", t.Axis, t.Layer, t.Sign)
}

// Validate rejects turns that do not name an outer layer.
func (t LayerTurn) Validate() error {
	if t.Axis < AxisX || t.Axis > AxisZ {
		return fmt.Errorf("%w: axis %d", ErrInvalidLayer, t.Axis)
	}
	if t.Layer != 0 && t.Layer != 2 {
		return fmt.Errorf("%w: layer %d on axis %v", ErrInvalidLayer, t.Layer, t.Axis)
	}
	if t.Sign != 1 && t.Sign != -1 {
		return fmt.Errorf("%w: sign %d", ErrInvalidLayer, t.Sign)
	}
	return nil
}

// Move returns the face turn this layer turn corresponds to.
func (t LayerTurn) Move() (Move, error) {
	if err := t.Validate(); err != nil {
		return Move{}, err
	}
	for _, m := range AllMoves() {
		lt, _ := m.LayerTurn()
		if lt == t {
			return m, nil
		}
	}
	return Move{}, fmt.Errorf("%w: %v", ErrInvalidLayer, t)
}

// rotatePosition applies the quarter rotation around the grid center.
func (t LayerTurn) rotatePosition(p Position) Position {
	s := t.Sign
	switch t.Axis {
	case AxisX:
		return Position{X: p.X, Y: 1 + s*(p.Z-1), Z: 1 - s*(p.Y-1)}
	case AxisY:
		return Position{X: 1 - s*(p.Z-1), Y: p.Y, Z: 1 + s*(p.X-1)}
	default:
		return Position{X: 1 + s*(p.Y-1), Y: 1 - s*(p.X-1), Z: p.Z}
	}
}

var faceNormals = [6][3]int{
	FaceR: {1, 0, 0},
	FaceL: {-1, 0, 0},
	FaceU: {0, 1, 0},
	FaceD: {0, -1, 0},
	FaceF: {0, 0, 1},
	FaceB: {0, 0, -1},
}

// rotateFace applies the same rotation to a sticker direction.
func (t LayerTurn) rotateFace(f Face) Face {
	v := faceNormals[f]
	s := t.Sign
	var r [3]int
	switch t.Axis {
	case AxisX:
		r = [3]int{v[0], s * v[2], -s * v[1]}
	case AxisY:
		r = [3]int{-s * v[2], v[1], s * v[0]}
	default:
		r = [3]int{s * v[1], -s * v[0], v[2]}
	}
	for _, face := range Faces {
		if faceNormals[face] == r {
			return face
		}
	}
	return f
}

// turn rotates the selected layer of g and writes the 21 affected stickers
// of st. Both are modified in place, so callers pass copies and commit on
// success.
func (t LayerTurn) turn(g *Grid, st *StickerState) error {
	if err := t.Validate(); err != nil {
		return err
	}

	var (
		selected [9]int
		before   = make(map[Position]bool, 9)
		n        int
	)
	for id := range g.pieces {
		p := g.pieces[id]
		if p.Pos.Coord(t.Axis) != t.Layer {
			continue
		}
		if n == 9 {
			return fmt.Errorf("%w: more than 9 pieces in %v", ErrInvalidLayer, t)
		}
		selected[n] = id
		before[p.Pos] = true
		n++
	}
	if n != 9 {
		return fmt.Errorf("%w: %d pieces in %v", ErrInvalidLayer, n, t)
	}

	var moved [9]Piece
	for i, id := range selected {
		p := g.pieces[id]
		next := Piece{ID: p.ID, Pos: t.rotatePosition(p.Pos)}
		if !before[next.Pos] {
			return fmt.Errorf("%w: %v leaves the layer from %v", ErrInvalidLayer, t, p.Pos)
		}
		for _, dir := range Faces {
			next.Stickers[t.rotateFace(dir)] = p.Stickers[dir]
		}
		moved[i] = next
	}

	for _, p := range moved {
		g.pieces[p.ID] = p
		g.slots[p.Pos.index()] = p.ID
		for _, dir := range Faces {
			if c := p.Stickers[dir]; c != Hidden {
				st[dir][p.Pos.stickerIndex(dir)] = c
			}
		}
	}
	return nil
}
