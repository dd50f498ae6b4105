package rubik

// Phase detection for the layer-by-layer method.
// Standard orientation: White on top (U), Green in front (F).

var sideFaces = [4]Face{FaceF, FaceR, FaceB, FaceL}

// IsWhiteCrossComplete checks the 4 U edges (facelets 1, 3, 5, 7) are white
// and their side stickers match the adjacent centers.
func (s StickerState) IsWhiteCrossComplete() bool {
	for _, pos := range []int{1, 3, 5, 7} {
		if s[FaceU][pos] != White {
			return false
		}
	}

	// U[1] touches B[1], U[3] touches L[1], U[5] touches R[1], U[7] touches F[1]
	for _, face := range sideFaces {
		if s[face][1] != s[face][4] {
			return false
		}
	}
	return true
}

// IsFirstLayerComplete checks the white cross plus all white corners.
func (s StickerState) IsFirstLayerComplete() bool {
	if !s.IsWhiteCrossComplete() {
		return false
	}
	for i := 0; i < 9; i++ {
		if s[FaceU][i] != White {
			return false
		}
	}
	for _, face := range sideFaces {
		if s[face][0] != s[face][4] || s[face][2] != s[face][4] {
			return false
		}
	}
	return true
}

// IsSecondLayerComplete checks the middle edges (facelets 3 and 5 on each
// side face).
func (s StickerState) IsSecondLayerComplete() bool {
	if !s.IsFirstLayerComplete() {
		return false
	}
	for _, face := range sideFaces {
		center := s[face][4]
		if s[face][3] != center || s[face][5] != center {
			return false
		}
	}
	return true
}

// IsYellowCrossComplete checks the 4 D edges show yellow. Their side
// stickers may still be misplaced.
func (s StickerState) IsYellowCrossComplete() bool {
	if !s.IsSecondLayerComplete() {
		return false
	}
	for _, pos := range []int{1, 3, 5, 7} {
		if s[FaceD][pos] != Yellow {
			return false
		}
	}
	return true
}

type cornerSlot struct {
	facelets [3][2]int // [face][index] pairs
	colors   [3]Color  // expected colors, any order
}

var bottomCorners = [4]cornerSlot{
	{[3][2]int{{int(FaceF), 8}, {int(FaceR), 6}, {int(FaceD), 2}}, [3]Color{Green, Red, Yellow}},
	{[3][2]int{{int(FaceR), 8}, {int(FaceB), 6}, {int(FaceD), 8}}, [3]Color{Red, Blue, Yellow}},
	{[3][2]int{{int(FaceB), 8}, {int(FaceL), 6}, {int(FaceD), 6}}, [3]Color{Blue, Orange, Yellow}},
	{[3][2]int{{int(FaceL), 8}, {int(FaceF), 6}, {int(FaceD), 0}}, [3]Color{Orange, Green, Yellow}},
}

// AreYellowCornersPositioned checks every bottom corner carries the right
// three colors, in any orientation.
func (s StickerState) AreYellowCornersPositioned() bool {
	if !s.IsYellowCrossComplete() {
		return false
	}
	for _, corner := range bottomCorners {
		var actual [3]Color
		for i, pos := range corner.facelets {
			actual[i] = s[pos[0]][pos[1]]
		}
		if !sameColors(actual[:], corner.colors[:]) {
			return false
		}
	}
	return true
}

// AreYellowCornersOriented checks the bottom corners show yellow on D and
// match the side centers.
func (s StickerState) AreYellowCornersOriented() bool {
	if !s.AreYellowCornersPositioned() {
		return false
	}
	for i := 0; i < 9; i++ {
		if s[FaceD][i] != Yellow {
			return false
		}
	}
	for _, face := range sideFaces {
		center := s[face][4]
		if s[face][6] != center || s[face][8] != center {
			return false
		}
	}
	return true
}

// sameColors checks if two color slices hold the same colors in any order.
func sameColors(a, b []Color) bool {
	if len(a) != len(b) {
		return false
	}
	var count [7]int
	for _, c := range a {
		count[c%7]++
	}
	for _, c := range b {
		count[c%7]--
	}
	for _, v := range count {
		if v != 0 {
			return false
		}
	}
	return true
}

// Phase returns the highest phase the state has completed.
func (s StickerState) Phase() Phase {
	switch {
	case s.IsSolved():
		return PhaseSolved
	case s.AreYellowCornersOriented():
		return PhaseYellowOriented
	case s.AreYellowCornersPositioned():
		return PhaseYellowCorners
	case s.IsYellowCrossComplete():
		return PhaseYellowCross
	case s.IsSecondLayerComplete():
		return PhaseSecondLayer
	case s.IsFirstLayerComplete():
		return PhaseFirstLayer
	case s.IsWhiteCrossComplete():
		return PhaseWhiteCross
	default:
		return PhaseScrambled
	}
}

// Progress returns the completion flag of every phase.
func (s StickerState) Progress() Progress {
	return Progress{
		WhiteCross:     s.IsWhiteCrossComplete(),
		FirstLayer:     s.IsFirstLayerComplete(),
		SecondLayer:    s.IsSecondLayerComplete(),
		YellowCross:    s.IsYellowCrossComplete(),
		YellowCorners:  s.AreYellowCornersPositioned(),
		YellowOriented: s.AreYellowCornersOriented(),
		Solved:         s.IsSolved(),
	}
}
