// Package cli implements the rubik command-line interface.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/config"
	"github.com/SeamusWaldron/rubik/internal/journal"
	"github.com/SeamusWaldron/rubik/internal/storage"
)

const version = "0.2.0"

var (
	// Global flags
	flagConfig  string
	flagDBPath  string
	flagVerbose bool

	cfg    config.Config
	logger *log.Logger
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "rubik",
	Short: "Rubik's Cube simulator",
	Long: `rubik - A 3x3 Rubik's Cube simulator with move history, solve timing
and remote play.

Play in the terminal, serve cubes over WebSocket or SSH, drive the cube
from a GoCube over Bluetooth, and keep a history of timed solves.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ~/.rubik/config.yaml, then ./rubik.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database file path (default from config: ~/.rubik/rubik.db)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "rubik %s\n", version)
	},
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "rubik",
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return nil
}

// executorOptions builds executor options from the loaded config.
func executorOptions(hold bool) []rubik.Option {
	seed := cfg.Cube.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return []rubik.Option{
		rubik.WithAnimationHold(hold && cfg.Cube.AnimationHold() > 0),
		rubik.WithScrambleLength(cfg.Cube.ScrambleLength),
		rubik.WithSeed(seed),
		rubik.WithLogger(logger),
	}
}

// openDB opens the solve database. Commands that can run without it log
// the failure and continue with a nil DB.
func openDB() (*storage.DB, error) {
	db, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("database opened", "path", db.Path())
	return db, nil
}

// openJournal returns a journal writer, or nil when journaling is off.
func openJournal() *journal.Writer {
	if cfg.Storage.JournalDir == "" {
		return nil
	}
	return journal.NewWriter(config.ExpandHome(cfg.Storage.JournalDir), "rubik")
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
