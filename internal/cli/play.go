package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/journal"
	"github.com/SeamusWaldron/rubik/internal/session"
	"github.com/SeamusWaldron/rubik/internal/storage"
	"github.com/SeamusWaldron/rubik/internal/tui"
)

var (
	flagNoHold  bool
	flagNoStore bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start an interactive cube in the terminal.

Controls:
  r l u d f b   - Turn a face clockwise
  R L U D F B   - Turn a face counter-clockwise
  space         - Scramble (starts a timed attempt)
  z             - Undo the last move
  h             - Show the solution
  ctrl+r        - Reset
  ?             - More keys
  q/Esc         - Quit

The timer starts with the first move after a scramble and stops when the
cube is solved. Solves are stored in the database.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagNoHold, "no-hold", false, "Disable the per-turn animation hold")
	playCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not record solves")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errors.New("play needs an interactive terminal")
	}

	ex := rubik.NewExecutor(executorOptions(!flagNoHold)...)

	opts := []session.Option{session.WithLogger(logger)}
	if !flagNoStore {
		db, err := openDB()
		if err != nil {
			logger.Warn("solves will not be recorded", "err", err)
		} else {
			defer db.Close()
			opts = append(opts, session.WithStore(storage.NewRecorder(db, "tui")))
		}
	}
	sess := session.New(opts...)
	sess.Attach(ex)

	if w := openJournal(); w != nil {
		defer w.Close()
		id := uuid.NewString()
		logger.Debug("journaling", "session", id)
		journal.Attach(ex, w, id, logger)
	}

	hold := cfg.Cube.AnimationHold()
	if flagNoHold {
		hold = 0
	}
	model := tui.NewModel(ex, sess, tui.WithHold(hold))
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
