package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/journal"
)

var replayCmd = &cobra.Command{
	Use:   "replay <journal-file>",
	Short: "Replay a journal file",
	Long: `Rebuild a cube from a journal file written by play, serve or connect
and print its final state.

Journal files live under storage.journal_dir and are named
rubik-YYYY-MM-DD.jsonl.zst. Every play, connect or websocket connection
writes its own session; a file holding several needs --session, which
takes an id or a unique prefix of one.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

var flagReplaySession string

func init() {
	replayCmd.Flags().StringVarP(&flagReplaySession, "session", "s", "", "Session id (or prefix) to replay")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, args []string) error {
	entries, err := journal.Read(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	sessions := journal.Sessions(entries)
	switch {
	case flagReplaySession != "":
		id, err := journal.MatchSession(entries, flagReplaySession)
		if err != nil {
			return err
		}
		entries = journal.Filter(entries, id)
	case len(sessions) > 1:
		fmt.Fprintln(out, "Sessions:")
		for _, id := range sessions {
			fmt.Fprintf(out, "  %s  %d entries\n", id, len(journal.Filter(entries, id)))
		}
		return fmt.Errorf("journal holds %d sessions; pick one with --session", len(sessions))
	}

	ex := rubik.NewExecutor(rubik.WithLogger(logger))
	if err := journal.Replay(entries, ex); err != nil {
		return err
	}

	if flagVerbose {
		for i, e := range entries {
			detail := e.Move
			if len(e.Moves) > 0 {
				detail = fmt.Sprintf("%d moves", len(e.Moves))
			}
			fmt.Fprintf(out, "%4d  %s  %-8s %s\n", i+1, e.Time.Local().Format("15:04:05.000"), e.Kind, detail)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprint(out, ex.State().String())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Entries: %d\n", len(entries))
	fmt.Fprintf(out, "Moves:   %d\n", ex.MoveCount())
	fmt.Fprintf(out, "Phase:   %s\n", ex.Phase().DisplayName())
	fmt.Fprintf(out, "Solved:  %v\n", ex.IsSolved())
	return nil
}
