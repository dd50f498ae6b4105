package rubik

// Phase is a step of the layer-by-layer method. Phases progress from
// Scrambled (0) to Solved (7) and compare with < and >.
type Phase int

const (
	// PhaseScrambled indicates no phase is complete.
	PhaseScrambled Phase = iota

	// PhaseWhiteCross indicates the 4 white edges sit on U with their side
	// colors matching the adjacent centers.
	PhaseWhiteCross

	// PhaseFirstLayer indicates the whole white layer is complete.
	PhaseFirstLayer

	// PhaseSecondLayer indicates the middle layer edges are in place.
	PhaseSecondLayer

	// PhaseYellowCross indicates the 4 yellow edges show yellow on D.
	PhaseYellowCross

	// PhaseYellowCorners indicates the bottom corners are in their slots,
	// possibly twisted.
	PhaseYellowCorners

	// PhaseYellowOriented indicates the bottom corners are twisted correctly.
	PhaseYellowOriented

	// PhaseSolved indicates the cube is solved.
	PhaseSolved
)

var phaseNames = [...]struct{ key, display string }{
	PhaseScrambled:      {"scrambled", "Scrambled"},
	PhaseWhiteCross:     {"white_cross", "White Cross"},
	PhaseFirstLayer:     {"first_layer", "First Layer"},
	PhaseSecondLayer:    {"second_layer", "Second Layer"},
	PhaseYellowCross:    {"yellow_cross", "Yellow Cross"},
	PhaseYellowCorners:  {"yellow_corners", "Yellow Corners Positioned"},
	PhaseYellowOriented: {"yellow_oriented", "Yellow Corners Oriented"},
	PhaseSolved:         {"solved", "Solved"},
}

// String returns the storage key of the phase, e.g. "white_cross".
func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p].key
}

// DisplayName returns a human-readable name for the phase.
func (p Phase) DisplayName() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p].display
}

// Progress records which phases are complete.
type Progress struct {
	WhiteCross     bool
	FirstLayer     bool
	SecondLayer    bool
	YellowCross    bool
	YellowCorners  bool
	YellowOriented bool
	Solved         bool
}
