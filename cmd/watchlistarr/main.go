package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/watchlistarr/internal/api"
	"github.com/amaumene/watchlistarr/internal/config"
	"github.com/amaumene/watchlistarr/internal/controllers"
	"github.com/amaumene/watchlistarr/internal/scheduler"
	"github.com/amaumene/watchlistarr/internal/services/omdb"
	"github.com/amaumene/watchlistarr/internal/session"
	"github.com/amaumene/watchlistarr/internal/storage/bolt"
	"github.com/amaumene/watchlistarr/internal/store"
	"github.com/amaumene/watchlistarr/internal/utils"
	"github.com/amaumene/watchlistarr/internal/watchlist"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Watchlistarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Open durable storage
	db, err := bolt.Open(cfg.DatabaseFile, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer db.Close()
	logger.Info("Storage opened")

	// 4. Session identity
	identity := session.NewFileIdentity(cfg.SessionFile)
	if userID, ok := identity.Get(); ok {
		logger.WithField("user_id", userID).Info("Resuming session")
	}

	// 5. State store, hydrated from durable storage
	st := store.New(db, identity, logger)
	st.RefreshUsers()
	st.RefreshWatchlists()
	logger.Info("State store hydrated")

	// 6. Catalog client
	catalog, err := omdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize catalog client: %w", err)
	}
	logger.Info("Catalog client initialized")

	// 7. Controllers
	authCtrl := controllers.NewAuthController(st, logger)
	wlCtrl := controllers.NewWatchlistController(st, catalog, watchlist.HashIDGenerator{}, logger)
	searchCtrl := controllers.NewSearchController(catalog, cfg.SearchDebounce, logger)
	logger.Info("Controllers initialized")

	// 8. Background maintenance jobs
	sched := scheduler.NewScheduler(st, catalog, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 9. HTTP server
	server := api.NewServer(cfg, api.Deps{
		Store:      st,
		Identity:   identity,
		Auth:       authCtrl,
		Watchlists: wlCtrl,
		Search:     searchCtrl,
		Catalog:    catalog,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 10. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Watchlistarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Watchlistarr stopped")
	return nil
}
