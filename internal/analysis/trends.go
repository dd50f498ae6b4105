package analysis

import (
	"math"
	"sort"
	"time"
)

// Attempt is one finished solve as seen by trend analysis.
type Attempt struct {
	StartedAt time.Time
	Duration  time.Duration
	Moves     int
}

// Trend summarizes a run of finished solves in chronological order.
type Trend struct {
	Count   int
	Mean    time.Duration
	Best    time.Duration
	Worst   time.Duration
	AvgMove float64

	// Improvement is the percentage by which the last quarter of solves
	// beat the first quarter. Negative means slower. Zero below four solves.
	Improvement float64

	// Consistency is 100 minus the coefficient of variation in percent,
	// clamped to [0, 100].
	Consistency float64

	// Rolling holds the trimmed average of the most recent N solves for
	// each N in RollingWindows that has enough data.
	Rolling map[int]time.Duration
}

// RollingWindows are the trimmed-average sizes reported by Trends.
var RollingWindows = []int{5, 12, 50}

// Trends analyzes attempts with a positive duration. The input is not
// modified.
func Trends(attempts []Attempt) Trend {
	done := make([]Attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.Duration > 0 {
			done = append(done, a)
		}
	}
	sort.SliceStable(done, func(i, j int) bool {
		return done[i].StartedAt.Before(done[j].StartedAt)
	})

	tr := Trend{Count: len(done), Rolling: make(map[int]time.Duration)}
	if len(done) == 0 {
		return tr
	}

	var total time.Duration
	var moves int
	tr.Best, tr.Worst = done[0].Duration, done[0].Duration
	for _, a := range done {
		total += a.Duration
		moves += a.Moves
		tr.Best = min(tr.Best, a.Duration)
		tr.Worst = max(tr.Worst, a.Duration)
	}
	tr.Mean = total / time.Duration(len(done))
	tr.AvgMove = float64(moves) / float64(len(done))
	tr.Improvement = improvement(done)
	tr.Consistency = consistency(done, tr.Mean)

	for _, n := range RollingWindows {
		if len(done) >= n {
			tr.Rolling[n] = trimmedAverage(done[len(done)-n:])
		}
	}
	return tr
}

func improvement(done []Attempt) float64 {
	if len(done) < 4 {
		return 0
	}
	q := len(done) / 4
	first := mean(done[:q])
	last := mean(done[len(done)-q:])
	if first <= 0 {
		return 0
	}
	return float64(first-last) / float64(first) * 100
}

func consistency(done []Attempt, avg time.Duration) float64 {
	if len(done) < 2 || avg <= 0 {
		return 100
	}
	var ss float64
	for _, a := range done {
		d := float64(a.Duration - avg)
		ss += d * d
	}
	cv := math.Sqrt(ss/float64(len(done))) / float64(avg)
	return math.Max(0, math.Min(100, 100-cv*100))
}

func mean(as []Attempt) time.Duration {
	var total time.Duration
	for _, a := range as {
		total += a.Duration
	}
	return total / time.Duration(len(as))
}

// trimmedAverage drops the single best and worst time, then averages the
// rest. Windows under three solves are plain means.
func trimmedAverage(window []Attempt) time.Duration {
	if len(window) < 3 {
		return mean(window)
	}
	ds := make([]time.Duration, len(window))
	for i, a := range window {
		ds[i] = a.Duration
	}
	sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
	var total time.Duration
	for _, d := range ds[1 : len(ds)-1] {
		total += d
	}
	return total / time.Duration(len(ds)-2)
}
