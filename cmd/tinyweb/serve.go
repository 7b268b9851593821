package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb"
	"github.com/sagarc03/tinyweb/config"
	"github.com/sagarc03/tinyweb/database"
	"github.com/sagarc03/tinyweb/transport/tcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the device engine",
	Long: `Run the step-driven engine on a TCP port, polling it the way device
firmware does: one state transition per loop iteration, one connection at a
time.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "engine TCP port (env: TINYWEB_SERVER_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := database.Open(ctx, cfg.Storage.DatabaseConfig())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage()
	slog.Info("storage ready", "type", cfg.Storage.Type, "capacity", cfg.Storage.Capacity)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	listener, err := tcp.Listen(addr,
		tcp.WithPollWait(time.Duration(cfg.Server.PollInterval)*time.Millisecond),
		tcp.WithLogger(slog.Default().With("component", "tcp")),
	)
	if err != nil {
		return err
	}
	defer func() { _ = listener.Close() }()

	engineCfg := cfg.Server.EngineConfig()
	engineCfg.Logger = slog.Default().With("component", "engine")

	engine, err := tinyweb.NewEngine(listener, storage, engineCfg)
	if err != nil {
		return err
	}

	device := newDemoDevice(slog.Default().With("component", "demo"))
	if err := registerRoutes(engine, device.routes()); err != nil {
		return fmt.Errorf("register routes: %w", err)
	}

	slog.Info("starting engine", "addr", listener.Addr().String(), "read_timeout", engineCfg.ReadTimeout)

	// Accept waits up to the poll interval, so the idle loop needs no sleep.
	if err := engine.Serve(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}

	slog.Info("engine stopped")
	return nil
}
