package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emberforge/wildlands/internal/config"
	"github.com/emberforge/wildlands/internal/content"
	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/clock"
	"github.com/emberforge/wildlands/internal/pkg/rng"
	redisclient "github.com/emberforge/wildlands/internal/redis"
	"github.com/emberforge/wildlands/internal/repositories/gamestate"
	"github.com/emberforge/wildlands/internal/scheduler"
	"github.com/emberforge/wildlands/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the game engine HTTP server",
	Long:  `Start the engine, restore the save from Redis, and serve the HTTP/JSON API with background energy regen and autosave ticks.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides WILDLANDS_HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("received shutdown signal, gracefully stopping")
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	data, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}

	client, err := redisclient.NewClient(cfg.RedisAddr, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create redis client")
	}
	defer func() { _ = client.Close() }()

	repo, err := gamestate.NewRedis(&gamestate.RedisConfig{Client: client})
	if err != nil {
		return err
	}

	store, err := buildStore(repo, data, rng.New(seedFromClock()), clock.New())
	if err != nil {
		return err
	}
	if err := store.Load(ctx); err != nil {
		return err
	}

	srv, err := server.New(&server.Config{Store: store, Content: data})
	if err != nil {
		return err
	}
	go srv.Run(ctx)

	sched, err := scheduler.New(&scheduler.Config{
		Game:                store,
		EnergyRegenInterval: cfg.EnergyRegenInterval,
		EnergyRegenAmount:   cfg.EnergyRegenAmount,
		AutosaveInterval:    cfg.AutosaveInterval,
	})
	if err != nil {
		return err
	}
	sched.Start(ctx)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("engine listening", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- errors.Wrap(err, "http server failed")
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http shutdown failed", "error", err)
		}
		sched.Stop()
		if err := store.Close(shutdownCtx); err != nil {
			slog.Warn("final save failed", "error", err)
		}
		slog.Info("engine stopped")
		return nil

	case err := <-errChan:
		sched.Stop()
		return err
	}
}
