package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubik"
)

var (
	flagScrambleLen  int
	flagScrambleSeed int64
	flagShowNet      bool
	flagFrom         string
)

var scrambleCmd = &cobra.Command{
	Use:   "scramble",
	Short: "Print a random scramble",
	Long: `Draw a random scramble from the twelve quarter turns.

Examples:
  rubik scramble
  rubik scramble -n 30 --seed 42 --net`,
	Args: cobra.NoArgs,
	RunE: runScramble,
}

var applyCmd = &cobra.Command{
	Use:   "apply <moves>",
	Short: "Apply moves to a cube and print it",
	Long: `Apply a move sequence to a solved cube (or to --from facelets) and
print the resulting net, phase and solution.

Double turns such as R2 are accepted and expand to two quarter turns.

Examples:
  rubik apply "R U R' U'"
  rubik apply "F2 B2" --from WWWWWWWWW...`,
	Args: cobra.MinimumNArgs(1),
	RunE: runApply,
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize <moves>",
	Short: "Simplify a move sequence",
	Long: `Merge consecutive turns of the same face and drop turns that cancel.

Example:
  rubik optimize "R R R U U' F F"   # prints: R' F F`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	scrambleCmd.Flags().IntVarP(&flagScrambleLen, "length", "n", 0, "Number of moves (default from config)")
	scrambleCmd.Flags().Int64Var(&flagScrambleSeed, "seed", 0, "Random seed (0 = time based)")
	scrambleCmd.Flags().BoolVar(&flagShowNet, "net", false, "Also print the scrambled cube")

	applyCmd.Flags().StringVar(&flagFrom, "from", "", "Start from 54 facelet letters in face order R L U D F B")

	rootCmd.AddCommand(scrambleCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(optimizeCmd)
}

func runScramble(cmd *cobra.Command, args []string) error {
	seed := flagScrambleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	ex := rubik.NewExecutor(
		rubik.WithSeed(seed),
		rubik.WithScrambleLength(cfg.Cube.ScrambleLength),
		rubik.WithLogger(logger),
	)
	n := flagScrambleLen
	if n <= 0 {
		n = rubik.ScrambleDefault
	}
	moves, err := ex.Scramble(n)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, rubik.FormatMoves(moves))
	if flagShowNet {
		fmt.Fprintln(out)
		fmt.Fprint(out, ex.State().String())
	}
	return nil
}

func runApply(cmd *cobra.Command, args []string) error {
	moves, err := rubik.ExpandMoves(strings.Join(args, " "))
	if err != nil {
		return err
	}

	c := rubik.NewCube()
	if flagFrom != "" {
		st, err := rubik.ParseFacelets(flagFrom)
		if err != nil {
			return err
		}
		if err := c.SetState(st); err != nil {
			return err
		}
	}
	if err := c.Apply(moves...); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, c.String())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Moves:    %d\n", len(moves))
	fmt.Fprintf(out, "Phase:    %s\n", c.Phase().DisplayName())
	fmt.Fprintf(out, "Solved:   %v\n", c.IsSolved())
	fmt.Fprintf(out, "Facelets: %s\n", c.State().Facelets())
	if flagFrom == "" {
		fmt.Fprintf(out, "Solution: %s\n", rubik.FormatMoves(rubik.Optimize(rubik.Invert(moves))))
	}
	return nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	moves, err := rubik.ExpandMoves(strings.Join(args, " "))
	if err != nil {
		return err
	}
	opt := rubik.Optimize(moves)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, rubik.FormatMoves(opt))
	logger.Debug("optimized", "before", len(moves), "after", len(opt), "efficiency", rubik.Efficiency(moves, opt))
	return nil
}
