package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/analysis"
	"github.com/SeamusWaldron/rubik/internal/storage"
)

var (
	flagListLimit   int
	flagStatsWindow int
)

var solvesCmd = &cobra.Command{
	Use:   "solves",
	Short: "Show recorded solves",
}

var solvesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent solves",
	RunE:  runSolvesList,
}

var solvesBestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show the fastest solve with its phase splits",
	RunE:  runSolvesBest,
}

var solvesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show solve totals",
	RunE:  runSolvesStats,
}

var solvesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded solve",
	RunE:  runSolvesClear,
}

func init() {
	solvesListCmd.Flags().IntVarP(&flagListLimit, "limit", "n", 20, "Number of solves to list")
	solvesStatsCmd.Flags().IntVarP(&flagStatsWindow, "window", "w", 100, "Number of recent solves to analyze for trends")

	solvesCmd.AddCommand(solvesListCmd)
	solvesCmd.AddCommand(solvesBestCmd)
	solvesCmd.AddCommand(solvesStatsCmd)
	solvesCmd.AddCommand(solvesClearCmd)
	solvesCmd.AddCommand(solvesShowCmd)
	rootCmd.AddCommand(solvesCmd)
}

func runSolvesList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	solves, err := storage.NewSolveRepository(db).List(flagListLimit)
	if err != nil {
		return err
	}
	if len(solves) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No solves recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tTIME\tMOVES\tSOURCE")
	for _, s := range solves {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			s.SolveID[:8],
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.Status,
			formatDuration(s.Duration()),
			s.MoveCount,
			s.Source,
		)
	}
	return w.Flush()
}

func runSolvesBest(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	best, err := storage.NewSolveRepository(db).Best()
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Fprintln(out, "No solved attempts yet.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Best:     %s (%d moves)\n", formatDuration(best.Duration()), best.MoveCount)
	fmt.Fprintf(out, "Solve:    %s\n", best.SolveID)
	fmt.Fprintf(out, "Scramble: %s\n", best.Scramble)

	splits, err := storage.NewPhaseRepository(db).GetBySolve(best.SolveID)
	if err != nil {
		return err
	}
	for _, p := range splits {
		fmt.Fprintf(out, "  %-16s %8s  move %d\n", p.Phase, formatDuration(time.Duration(p.ReachedMs)*time.Millisecond), p.MoveIndex)
	}
	return nil
}

func runSolvesStats(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	repo := storage.NewSolveRepository(db)
	st, err := repo.Stats()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Solved:    %d\n", st.Solved)
	fmt.Fprintf(out, "Abandoned: %d\n", st.Abandoned)
	if st.Solved == 0 {
		return nil
	}
	fmt.Fprintf(out, "Average:   %s\n", formatDuration(time.Duration(st.AverageMs)*time.Millisecond))
	fmt.Fprintf(out, "Best:      %s\n", formatDuration(time.Duration(st.BestMs)*time.Millisecond))

	recent, err := repo.List(flagStatsWindow)
	if err != nil {
		return err
	}
	attempts := make([]analysis.Attempt, 0, len(recent))
	for _, s := range recent {
		if s.Status != storage.StatusSolved {
			continue
		}
		attempts = append(attempts, analysis.Attempt{StartedAt: s.StartedAt, Duration: s.Duration(), Moves: s.MoveCount})
	}
	tr := analysis.Trends(attempts)
	if tr.Count < 2 {
		return nil
	}
	fmt.Fprintf(out, "\nLast %d solves:\n", tr.Count)
	fmt.Fprintf(out, "  Mean:        %s (%.1f moves)\n", formatDuration(tr.Mean), tr.AvgMove)
	fmt.Fprintf(out, "  Range:       %s - %s\n", formatDuration(tr.Best), formatDuration(tr.Worst))
	fmt.Fprintf(out, "  Consistency: %.0f/100\n", tr.Consistency)
	if tr.Count >= 4 {
		fmt.Fprintf(out, "  Improvement: %+.1f%%\n", tr.Improvement)
	}
	for _, n := range analysis.RollingWindows {
		if avg, ok := tr.Rolling[n]; ok {
			fmt.Fprintf(out, "  ao%-10d %s\n", n, formatDuration(avg))
		}
	}
	return nil
}

func runSolvesClear(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSolveRepository(db).DeleteAll(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All solves deleted.")
	return nil
}

func formatDuration(d time.Duration) string {
	if d == 0 {
		return "-"
	}
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%d:%05.2f", mins, secs)
}

var solvesShowCmd = &cobra.Command{
	Use:   "show <solve-id>",
	Short: "Analyze one solve",
	Long: `Show statistics for one solve: turns per second, pauses, phase
breakdown and the move sequences that repeat. The ID may be shortened to
any unique prefix.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolvesShow,
}

func runSolvesShow(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	solve, err := storage.NewSolveRepository(db).FindByPrefix(args[0])
	if err != nil {
		return err
	}
	stored, err := storage.NewMoveRepository(db).GetBySolve(solve.SolveID)
	if err != nil {
		return err
	}
	phases, err := storage.NewPhaseRepository(db).GetBySolve(solve.SolveID)
	if err != nil {
		return err
	}

	moves := make([]analysis.TimedMove, 0, len(stored))
	plain := make([]rubik.Move, 0, len(stored))
	for _, m := range stored {
		mv, err := rubik.ParseMove(m.Notation)
		if err != nil {
			return fmt.Errorf("solve %s move %d: %w", solve.SolveID, m.Seq, err)
		}
		moves = append(moves, analysis.TimedMove{Move: mv, At: time.Duration(m.TsMs) * time.Millisecond})
		plain = append(plain, mv)
	}
	splits := make([]analysis.Split, len(phases))
	for i, p := range phases {
		splits[i] = analysis.Split{Phase: p.Phase, At: time.Duration(p.ReachedMs) * time.Millisecond, MoveIndex: p.MoveIndex}
	}
	sum := analysis.Summarize(moves, solve.Duration(), splits)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Solve:      %s (%s, %s)\n", solve.SolveID, solve.Status, solve.Source)
	fmt.Fprintf(out, "Started:    %s\n", solve.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Scramble:   %s\n", solve.Scramble)
	fmt.Fprintf(out, "Time:       %s\n", formatDuration(sum.Duration))
	fmt.Fprintf(out, "Moves:      %d (%d after merging, %.0f%%)\n", sum.TotalMoves, sum.OptimizedMoves, sum.Efficiency*100)
	fmt.Fprintf(out, "TPS:        %.2f\n", sum.TPS)
	fmt.Fprintf(out, "Pauses:     %d over %s, longest %s\n", sum.Pauses, analysis.PauseThreshold, formatDuration(sum.LongestPause))
	if sum.TotalMoves > 0 {
		fmt.Fprintf(out, "Most used:  %s (%d turns)\n", sum.MostUsedFace, sum.FaceCounts[sum.MostUsedFace])
		fmt.Fprintf(out, "Entropy:    %.2f bits, %d reversals\n", sum.FaceEntropy, sum.Reversals)
	}

	if len(sum.Phases) > 0 {
		fmt.Fprintln(out)
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PHASE\tREACHED\tTIME\tMOVES\tTPS")
		for _, p := range sum.Phases {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n", p.Phase, formatDuration(p.End), formatDuration(p.End-p.Start), p.Moves, p.TPS)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if grams := analysis.TopNGrams(plain, 4, 5); len(grams) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Repeated sequences:")
		for _, g := range grams {
			fmt.Fprintf(out, "  %-20s x%d\n", rubik.FormatMoves(g.Moves), g.Count)
		}
	}
	return nil
}
