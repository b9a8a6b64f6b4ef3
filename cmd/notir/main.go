// Command notir runs the message relay: an HTTP/WebSocket server
// fronting the relay core (internal/relay) through the transport
// collaborator (internal/transport).
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

	"github.com/spf13/pflag"

	"github.com/timzaak/notir/internal/config"
	"github.com/timzaak/notir/internal/relay"
	"github.com/timzaak/notir/internal/transport"
)

func main() {
	if err := run(); err != nil {
		slog.Error("notir exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	fs := config.FlagSet()
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.DevMode {
		slog.Warn("dev mode enabled: WebSocket origin verification disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := relay.NewService(cfg.RelayConfig())

	assets, err := transport.Assets()
	if err != nil {
		return fmt.Errorf("load embedded assets: %w", err)
	}

	router := transport.NewRouter(ctx, svc, cfg.DevMode, assets)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("notir starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down notir")
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}

	svc.Close()
	slog.Info("notir stopped")
	return <-serveErr
}
