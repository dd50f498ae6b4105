package rubik

// faceRun is a run of turns of one face, counted in clockwise quarters.
type faceRun struct {
	face     Face
	quarters int
}

// Optimize collapses a move list: runs of the same face are summed modulo
// 4 and runs that sum to zero vanish, which may bring two runs of another
// face together to merge in turn. A net half turn is written as two
// clockwise quarters and a net three quarters as one counter-clockwise
// turn. Optimize is idempotent and never mutates its input.
//
// Examples: [R R'] -> [], [R R R R] -> [], [R R R] -> [R'], [R U U' R] -> [R R].
func Optimize(moves []Move) []Move {
	stack := make([]faceRun, 0, len(moves))

	for _, move := range moves {
		n := len(stack)
		if n > 0 && stack[n-1].face == move.Face {
			q := (stack[n-1].quarters + move.Quarters()) % 4
			if q == 0 {
				stack = stack[:n-1]
			} else {
				stack[n-1].quarters = q
			}
			continue
		}
		stack = append(stack, faceRun{face: move.Face, quarters: move.Quarters()})
	}

	result := make([]Move, 0, len(stack)*2)
	for _, run := range stack {
		cw := Move{Face: run.face, Turn: CW}
		switch run.quarters {
		case 1:
			result = append(result, cw)
		case 2:
			result = append(result, cw, cw)
		case 3:
			result = append(result, cw.Inverse())
		}
	}
	return result
}

// Efficiency returns len(optimized)/len(original), 1 for an empty input.
func Efficiency(original, optimized []Move) float64 {
	if len(original) == 0 {
		return 1.0
	}
	return float64(len(optimized)) / float64(len(original))
}
