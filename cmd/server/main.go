package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/qrseekers/qrseekers/internal/auth"
	"github.com/qrseekers/qrseekers/internal/config"
	"github.com/qrseekers/qrseekers/internal/database"
	"github.com/qrseekers/qrseekers/internal/docstore"
	"github.com/qrseekers/qrseekers/internal/games"
	"github.com/qrseekers/qrseekers/internal/migrations"
	"github.com/qrseekers/qrseekers/internal/navigation"
	"github.com/qrseekers/qrseekers/internal/profile"
	"github.com/qrseekers/qrseekers/internal/quiz"
	"github.com/qrseekers/qrseekers/internal/server"
	"github.com/qrseekers/qrseekers/internal/zone"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Components ---
	docs := docstore.New(db)
	zones := quiz.NewDocSource(docs)
	catalog := games.NewCatalog(docs, logger)

	if cfg.SeedDemo {
		if err := zones.Seed(ctx); err != nil {
			return fmt.Errorf("seeding zones: %w", err)
		}
		if err := catalog.Seed(ctx); err != nil {
			return fmt.Errorf("seeding games: %w", err)
		}
	}

	nav := navigation.New(logger)
	authSvc := auth.NewService(db, docs, logger)
	sub := authSvc.Subscribe(nav.HandleAuthState)
	defer sub.Unsubscribe()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Auth:     authSvc,
		Nav:      nav,
		Docs:     docs,
		Zones:    zones,
		Profiles: profile.NewService(docs, logger),
		Games:    catalog,
		Tracker:  zone.NewTracker(zones),
		QRSize:   cfg.QRSize,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return nav.Run(gctx)
	})

	g.Go(func() error {
		authSvc.CheckStatus(gctx, cfg.SessionUserID)
		logger.Info("auth status resolved", "state", authSvc.State().String())
		return nil
	})

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
