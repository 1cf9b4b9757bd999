package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/erazemk/neuanfang/internal/api"
	"github.com/erazemk/neuanfang/internal/auth"
	"github.com/erazemk/neuanfang/internal/presenter"
	"github.com/erazemk/neuanfang/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the periodic sync",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := openDatabase(ctx, cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	password, err := ensureOwner(ctx, database, cfg.Auth.OwnerName)
	if err != nil {
		return err
	}
	if password != "" {
		printInitResult(cmd.OutOrStdout(), cfg.Database.Path, cfg.Auth.OwnerName, password)
	}

	secret, err := store.GetJWTSecret(ctx, database)
	if err != nil {
		return fmt.Errorf("loading jwt secret: %w", err)
	}

	s := store.New(database)
	facade := newFacade(cfg.Sync, s)
	if err := facade.Restore(ctx); err != nil {
		slog.Warn("sync state unavailable", "error", err)
	}

	rooms := presenter.NewRoomCatalog(s)
	defer rooms.Close()
	detach := rooms.Attach(facade)
	defer detach()
	if err := rooms.Load(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: api.NewRouter(api.Deps{
			DB:            database,
			Tokens:        auth.NewTokens(secret, cfg.Auth.TokenTTL),
			Catalog:       rooms,
			Sync:          facade,
			MaxPhotoBytes: cfg.Server.MaxPhotoBytes,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server started", "addr", server.Addr, "sync", facade.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return facade.Run(gctx, cfg.Sync.Interval)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	slog.Info("server stopped, closing database")
	return nil
}
