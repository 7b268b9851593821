package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb/config"
	"github.com/sagarc03/tinyweb/database"
	tinyhttp "github.com/sagarc03/tinyweb/http"
)

var devCmd = &cobra.Command{
	Use:   "dev",
	Short: "Serve the device routes through net/http",
	Long: `Serve /filelist, /file/{name} and the sample /api routes with a regular
concurrent net/http server and optional CORS, for developing a device web UI
on a desktop browser. Storage and routes behave like the engine's.`,
	RunE: runDev,
}

func init() {
	devCmd.Flags().Int("dev-port", 8081, "dev server port (env: TINYWEB_DEV_PORT)")
	rootCmd.AddCommand(devCmd)
}

func runDev(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	storage, closeStorage, err := database.Open(ctx, cfg.Storage.DatabaseConfig())
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeStorage()

	device := newDemoDevice(slog.Default().With("component", "demo"))
	handler := tinyhttp.NewHandler(&tinyhttp.HandlerConfig{
		CORS:        cfg.Dev.CORS,
		MaxBodySize: int64(cfg.Server.MaxBodySize),
	}, storage, routeTable(device.routes()))

	addr := fmt.Sprintf(":%d", cfg.Dev.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down dev server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("dev server shutdown error", "err", err)
		}
	}()

	slog.Info("starting dev server", "addr", addr, "storage", cfg.Storage.Type, "cors", cfg.Dev.CORS.Enabled)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
