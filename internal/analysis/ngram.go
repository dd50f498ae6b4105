package analysis

import (
	"sort"

	"github.com/SeamusWaldron/rubik"
)

// NGram is a move sequence that repeats within a solve.
type NGram struct {
	Moves  []rubik.Move
	Count  int
	Starts []int // index of the first move of each occurrence
}

// TopNGrams returns up to k sequences of n moves that occur at least twice,
// most frequent first. Ties keep the order of first appearance.
func TopNGrams(moves []rubik.Move, n, k int) []NGram {
	if n <= 0 || len(moves) < n {
		return nil
	}

	index := make(map[string]int)
	var grams []NGram
	for i := 0; i+n <= len(moves); i++ {
		window := moves[i : i+n]
		key := rubik.FormatMoves(window)
		j, ok := index[key]
		if !ok {
			j = len(grams)
			index[key] = j
			grams = append(grams, NGram{Moves: append([]rubik.Move(nil), window...)})
		}
		grams[j].Count++
		grams[j].Starts = append(grams[j].Starts, i)
	}

	out := grams[:0]
	for _, g := range grams {
		if g.Count >= 2 {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
