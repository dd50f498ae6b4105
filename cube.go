package rubik

import "fmt"

// Cube is the authoritative puzzle model: a piece grid and the sticker state
// derived from it. Every turn updates both together or neither.
type Cube struct {
	grid  Grid
	state StickerState
}

// NewCube creates a solved cube with White on top and Green in front.
func NewCube() *Cube {
	return &Cube{
		grid:  NewGrid(),
		state: GenerateSolvedState(),
	}
}

// Clone creates a deep copy of the cube.
func (c *Cube) Clone() *Cube {
	clone := *c
	return &clone
}

// State returns a snapshot of the sticker state.
func (c *Cube) State() StickerState {
	return c.state
}

// Grid returns a snapshot of the piece grid.
func (c *Cube) Grid() Grid {
	return c.grid
}

// IsSolved returns true if the cube is in the solved state.
func (c *Cube) IsSolved() bool {
	return c.state.IsSolved()
}

// Turn rotates one outer layer. Invalid turns are rejected before any
// mutation.
func (c *Cube) Turn(t LayerTurn) error {
	g, st := c.grid, c.state
	if err := t.turn(&g, &st); err != nil {
		return err
	}
	c.grid, c.state = g, st
	return nil
}

// Apply applies moves in order. All moves are resolved before the first
// one is applied, so an invalid move leaves the cube untouched.
func (c *Cube) Apply(moves ...Move) error {
	turns := make([]LayerTurn, len(moves))
	for i, m := range moves {
		t, err := m.LayerTurn()
		if err != nil {
			return err
		}
		turns[i] = t
	}

	g, st := c.grid, c.state
	for _, t := range turns {
		if err := t.turn(&g, &st); err != nil {
			return err
		}
	}
	c.grid, c.state = g, st
	return nil
}

// ApplyNotation parses and applies a move sequence like "R U R' U'".
func (c *Cube) ApplyNotation(notation string) error {
	moves, err := ParseMoves(notation)
	if err != nil {
		return err
	}
	return c.Apply(moves...)
}

// SetState replaces the sticker state wholesale. The pieces are rebuilt in
// their home slots and painted from s. An invalid s leaves the cube
// untouched.
func (c *Cube) SetState(s StickerState) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.grid = recolor(s)
	c.state = s
	return nil
}

// Reset returns the cube to the solved state.
func (c *Cube) Reset() {
	c.grid = NewGrid()
	c.state = GenerateSolvedState()
}

// Validate checks the grid invariants and that the sticker state agrees
// with the pieces.
func (c *Cube) Validate() error {
	if err := c.grid.Validate(); err != nil {
		return err
	}
	if derived := c.grid.Stickers(); derived != c.state {
		return fmt.Errorf("%w: sticker state disagrees with pieces", ErrInvalidState)
	}
	return c.state.Validate()
}

// Phase returns the current solving phase.
func (c *Cube) Phase() Phase {
	return c.state.Phase()
}

// String renders the cube as an unfolded net.
func (c *Cube) String() string {
	return c.state.String()
}
