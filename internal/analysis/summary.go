// Package analysis computes statistics over recorded solves.
package analysis

import (
	"math"
	"time"

	"github.com/SeamusWaldron/rubik"
)

// PauseThreshold is the gap between turns counted as a pause.
const PauseThreshold = 1500 * time.Millisecond

// TimedMove is a move with its offset from the start of the solve.
type TimedMove struct {
	Move rubik.Move
	At   time.Duration
}

// Split is the first time a phase was reached.
type Split struct {
	Phase     string
	At        time.Duration
	MoveIndex int
}

// PhaseStats covers the stretch of a solve that ended in Phase.
type PhaseStats struct {
	Phase string
	Start time.Duration
	End   time.Duration
	Moves int
	TPS   float64
}

// Summary holds the statistics of one solve.
type Summary struct {
	Duration       time.Duration
	TotalMoves     int
	OptimizedMoves int
	Efficiency     float64
	TPS            float64
	LongestPause   time.Duration
	Pauses         int
	AvgMoveGap     time.Duration
	FaceCounts     [6]int
	MostUsedFace   rubik.Face
	Phases         []PhaseStats

	// Reversals counts turns immediately undone by the next turn.
	Reversals int

	// FaceEntropy is the Shannon entropy in bits of the face distribution.
	// Searching spreads turns over many faces; algorithms concentrate them.
	// The maximum for six faces is log2(6).
	FaceEntropy float64
}

// Summarize computes statistics for a solve of the given duration. Splits
// must be in the order they were reached.
func Summarize(moves []TimedMove, duration time.Duration, splits []Split) Summary {
	plain := make([]rubik.Move, len(moves))
	for i, m := range moves {
		plain[i] = m.Move
	}
	opt := rubik.Optimize(plain)

	s := Summary{
		Duration:       duration,
		TotalMoves:     len(moves),
		OptimizedMoves: len(opt),
		Efficiency:     rubik.Efficiency(plain, opt),
		TPS:            tps(len(moves), duration),
	}

	for i, m := range moves {
		s.FaceCounts[m.Move.Face]++
		if i == 0 {
			continue
		}
		if m.Move == moves[i-1].Move.Inverse() {
			s.Reversals++
		}
		gap := m.At - moves[i-1].At
		if gap > s.LongestPause {
			s.LongestPause = gap
		}
		if gap >= PauseThreshold {
			s.Pauses++
		}
	}
	if len(moves) > 1 {
		s.AvgMoveGap = (moves[len(moves)-1].At - moves[0].At) / time.Duration(len(moves)-1)
	}
	for f, n := range s.FaceCounts {
		if n > s.FaceCounts[s.MostUsedFace] {
			s.MostUsedFace = rubik.Face(f)
		}
		if n > 0 {
			p := float64(n) / float64(len(moves))
			s.FaceEntropy -= p * math.Log2(p)
		}
	}

	var start time.Duration
	prevIdx := 0
	for _, sp := range splits {
		n := sp.MoveIndex - prevIdx
		s.Phases = append(s.Phases, PhaseStats{
			Phase: sp.Phase,
			Start: start,
			End:   sp.At,
			Moves: n,
			TPS:   tps(n, sp.At-start),
		})
		start = sp.At
		prevIdx = sp.MoveIndex
	}
	return s
}

func tps(moves int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(moves) / d.Seconds()
}
