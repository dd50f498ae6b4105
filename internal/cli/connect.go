package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubik"
	"github.com/SeamusWaldron/rubik/internal/journal"
	"github.com/SeamusWaldron/rubik/internal/session"
	"github.com/SeamusWaldron/rubik/internal/smartcube"
	"github.com/SeamusWaldron/rubik/internal/storage"
	"github.com/SeamusWaldron/rubik/internal/tui"
)

var (
	flagDeviceName string
	flagRawFrames  bool
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Drive the cube from a GoCube over Bluetooth",
	Long: `Scan for a GoCube, connect to it and mirror every physical turn.

The cube must be solved when connecting. Scramble it by hand, then press
space in the terminal UI; the first turn after that starts the timer.

Without a terminal the moves are logged instead.`,
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVar(&flagDeviceName, "name", "", "Connect to the cube with this name (default: first found)")
	connectCmd.Flags().BoolVar(&flagRawFrames, "raw", false, "Log every decoded frame with its payload in hex")
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := smartcube.NewClient(logger.WithPrefix("ble"))
	if err != nil {
		return err
	}

	logger.Info("scanning", "timeout", cfg.SmartCube.ScanTimeout, "prefix", cfg.SmartCube.NamePrefix)
	results, err := client.Scan(ctx, cfg.SmartCube.NamePrefix, cfg.SmartCube.ScanTimeout)
	if err != nil {
		return err
	}
	target, ok := pickDevice(results, flagDeviceName)
	if !ok {
		return fmt.Errorf("no cube found (prefix %q)", cfg.SmartCube.NamePrefix)
	}

	// The physical cube cannot wait for an animation, so no hold here.
	ex := rubik.NewExecutor(executorOptions(false)...)
	feeder := smartcube.NewFeeder(ex, logger)
	client.OnMessage(func(msg smartcube.Message) {
		if flagRawFrames {
			logger.Info("frame", "type", smartcube.TypeName(msg.Type), "len", len(msg.Payload), "payload", hex.EncodeToString(msg.Payload))
		}
		if err := feeder.Handle(msg); err != nil {
			logger.Warn("cannot apply cube message", "type", smartcube.TypeName(msg.Type), "err", err)
		}
	})

	if err := client.Connect(target); err != nil {
		return err
	}
	defer client.Disconnect()

	opts := []session.Option{session.WithLogger(logger)}
	if db, err := openDB(); err != nil {
		logger.Warn("solves will not be recorded", "err", err)
	} else {
		defer db.Close()
		opts = append(opts, session.WithStore(storage.NewRecorder(db, "smartcube")))
	}
	sess := session.New(opts...)
	sess.Attach(ex)

	if w := openJournal(); w != nil {
		defer w.Close()
		id := uuid.NewString()
		logger.Debug("journaling", "session", id)
		journal.Attach(ex, w, id, logger)
	}

	if !isTerminal() {
		ex.OnMove(func(ev rubik.MoveEvent) {
			logger.Info("move", "move", ev.Move, "count", ev.MoveCount, "solved", ev.Solved)
		})
		<-ctx.Done()
		return nil
	}

	model := tui.NewModel(ex, sess,
		tui.WithPhysicalCube(),
		tui.WithTitle(fmt.Sprintf("Rubik's Cube - %s", target.Name)),
	)
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func pickDevice(results []smartcube.ScanResult, name string) (smartcube.ScanResult, bool) {
	for _, r := range results {
		if name == "" || strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return smartcube.ScanResult{}, false
}
