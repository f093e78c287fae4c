// Package scheduler runs the background maintenance jobs: keeping catalog
// details for stored watchlist movies warm in the cache, and periodically
// re-reading durable storage so an externally modified database file is
// picked up without a restart.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/services/omdb"
	"github.com/amaumene/watchlistarr/internal/store"
)

// Scheduler manages scheduled tasks
type Scheduler struct {
	cron    *cron.Cron
	store   *store.Store
	catalog *omdb.Client
	logger  *logrus.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(st *store.Store, catalog *omdb.Client, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		store:   st,
		catalog: catalog,
		logger:  logger,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.logger.Info("Starting scheduler")

	// Every 15 minutes: warm the catalog detail cache so watchlist views
	// render from cache instead of hitting the catalog per movie.
	if _, err := s.cron.AddFunc("*/15 * * * *", s.runWarmCache); err != nil {
		return err
	}

	// Every 6 hours: re-hydrate state from the database file.
	if _, err := s.cron.AddFunc("0 */6 * * *", s.runRehydrate); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Scheduler started")

	// Warm the cache for the resumed session immediately.
	go s.runWarmCache()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	s.cron.Stop()
}

// runWarmCache resolves every movie reference on the session user's
// watchlists against the catalog. Lookups land in the detail cache; misses
// are logged and skipped.
func (s *Scheduler) runWarmCache() {
	set := s.store.Watchlists()
	if set.None() {
		s.logger.Debug("No watchlists to warm")
		return
	}

	ctx := context.Background()
	warmed := 0
	for _, w := range set.Lists() {
		for _, ref := range w.Movies {
			if _, err := s.catalog.GetByID(ctx, ref.ID); err != nil {
				s.logger.WithError(err).WithField("movie_id", ref.ID).Warn("Cache warm lookup failed")
				continue
			}
			warmed++
		}
	}

	s.logger.WithField("count", warmed).Debug("Catalog cache warmed")
}

// runRehydrate re-reads users and the session user's watchlists from
// durable storage.
func (s *Scheduler) runRehydrate() {
	s.logger.Info("Re-hydrating state from storage")
	s.store.RefreshUsers()
	s.store.RefreshWatchlists()
}
