package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/rubik/internal/config"
	"github.com/SeamusWaldron/rubik/internal/session"
	"github.com/SeamusWaldron/rubik/internal/storage"
	"github.com/SeamusWaldron/rubik/internal/transport/ws"
	"github.com/SeamusWaldron/rubik/internal/tui"
)

var (
	flagWSAddr  string
	flagSSHAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cubes over WebSocket and SSH",
	Long: `Serve one private cube per connection.

WebSocket clients connect to /ws and speak the JSON protocol; SSH clients
get the terminal UI. Pass an empty address to disable a listener.

Examples:
  rubik serve
  rubik serve --ws :9000 --ssh ""
  ssh -p 2222 localhost`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "WebSocket listen address (default from config)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	wsAddr := cfg.Server.WSAddr
	if cmd.Flags().Changed("ws") {
		wsAddr = flagWSAddr
	}
	sshAddr := cfg.Server.SSHAddr
	if cmd.Flags().Changed("ssh") {
		sshAddr = flagSSHAddr
	}
	if wsAddr == "" && sshAddr == "" {
		return errors.New("nothing to serve: both listeners are disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store session.Store
	if db, err := openDB(); err != nil {
		logger.Warn("solves will not be recorded", "err", err)
	} else {
		defer db.Close()
		store = storage.NewRecorder(db, "remote")
	}

	errCh := make(chan error, 2)
	running := 0

	if wsAddr != "" {
		opts := ws.Options{
			Cube:        executorOptions(false),
			Store:       store,
			IdleTimeout: cfg.Server.IdleTimeout,
			Logger:      logger.WithPrefix("ws"),
		}
		if w := openJournal(); w != nil {
			defer w.Close()
			opts.Journal = w
		}
		mux := http.NewServeMux()
		mux.Handle("/ws", ws.NewServer(opts).Handler())
		srv := &http.Server{Addr: wsAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		running++
		go func() {
			logger.Info("starting WebSocket server", "address", wsAddr)
			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				err = nil
			}
			errCh <- err
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if sshAddr != "" {
		sshSrv, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:        sshAddr,
			HostKeyPath:    config.ExpandHome(cfg.Server.HostKeyPath),
			IdleTimeout:    cfg.Server.IdleTimeout,
			Hold:           cfg.Cube.AnimationHold(),
			ScrambleLength: cfg.Cube.ScrambleLength,
			Store:          store,
			Logger:         logger.WithPrefix("ssh"),
		})
		if err != nil {
			return err
		}
		running++
		go func() { errCh <- sshSrv.ListenAndServe(ctx) }()
	}

	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	return firstErr
}
