package controllers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/services/omdb"
	"github.com/amaumene/watchlistarr/internal/store"
	"github.com/amaumene/watchlistarr/internal/watchlist"
)

// WatchlistController dispatches watchlist mutations through the state
// store and resolves movie references against the catalog.
type WatchlistController struct {
	store   *store.Store
	catalog *omdb.Client
	gen     watchlist.IDGenerator
	logger  *logrus.Logger
}

// NewWatchlistController creates a new watchlist controller.
func NewWatchlistController(st *store.Store, catalog *omdb.Client, gen watchlist.IDGenerator, logger *logrus.Logger) *WatchlistController {
	return &WatchlistController{
		store:   st,
		catalog: catalog,
		gen:     gen,
		logger:  logger,
	}
}

// Create adds a new watchlist for the session user, optionally seeded with
// one movie, and returns its id.
func (c *WatchlistController) Create(name, about, initialMovieID string) (string, error) {
	userID, ok := c.store.CurrentUserID()
	if !ok {
		return "", models.ErrNoSession
	}
	if name == "" {
		return "", models.ErrEmptyField
	}

	next := watchlist.Create(c.store.Watchlists().Lists(), name, about, initialMovieID, userID, c.gen)
	if err := c.store.SetWatchlists(models.SomeWatchlists(next)); err != nil {
		return "", err
	}

	created := next[len(next)-1]
	c.logger.WithFields(logrus.Fields{
		"watchlist_id": created.ID,
		"name":         name,
	}).Info("Watchlist created")
	return created.ID, nil
}

// apply runs a pure transition over the current snapshot and persists the
// result. With no collection yet, mutations have nothing to act on.
func (c *WatchlistController) apply(fn func([]models.Watchlist) []models.Watchlist) error {
	set := c.store.Watchlists()
	if set.None() {
		return nil
	}
	return c.store.SetWatchlists(models.SomeWatchlists(fn(set.Lists())))
}

// AddMovie appends a movie to a watchlist.
func (c *WatchlistController) AddMovie(watchlistID, movieID string) error {
	return c.apply(func(lists []models.Watchlist) []models.Watchlist {
		return watchlist.AddMovie(lists, watchlistID, movieID)
	})
}

// ToggleWatched flips a movie's watched flag.
func (c *WatchlistController) ToggleWatched(watchlistID, movieID string) error {
	return c.apply(func(lists []models.Watchlist) []models.Watchlist {
		return watchlist.ToggleWatched(lists, watchlistID, movieID)
	})
}

// RemoveMovie removes a movie from a watchlist.
func (c *WatchlistController) RemoveMovie(watchlistID, movieID string) error {
	return c.apply(func(lists []models.Watchlist) []models.Watchlist {
		return watchlist.RemoveMovie(lists, watchlistID, movieID)
	})
}

// Rename replaces a watchlist's name or about text.
func (c *WatchlistController) Rename(watchlistID string, field watchlist.Field, newText string) error {
	return c.apply(func(lists []models.Watchlist) []models.Watchlist {
		return watchlist.Rename(lists, watchlistID, field, newText)
	})
}

// Delete removes a watchlist. Deleting the last one leaves the user with no
// collection.
func (c *WatchlistController) Delete(watchlistID string) error {
	set := c.store.Watchlists()
	if set.None() {
		return nil
	}
	return c.store.SetWatchlists(watchlist.Delete(set.Lists(), watchlistID))
}

// Get returns the watchlist with the given id.
func (c *WatchlistController) Get(watchlistID string) (*models.Watchlist, bool) {
	w := c.store.Watchlists().Find(watchlistID)
	if w == nil {
		return nil, false
	}
	return w, true
}

// SearchLocal filters the session user's watchlists.
func (c *WatchlistController) SearchLocal(query string, mode watchlist.FilterMode) []models.Watchlist {
	return watchlist.Filter(c.store.Watchlists().Lists(), query, mode)
}

// FetchMovies resolves every movie reference of a watchlist against the
// catalog.
func (c *WatchlistController) FetchMovies(ctx context.Context, watchlistID string) ([]models.MovieDetail, error) {
	w, ok := c.Get(watchlistID)
	if !ok {
		return nil, fmt.Errorf("watchlist %s: %w", watchlistID, models.ErrNotFound)
	}

	details := make([]models.MovieDetail, 0, len(w.Movies))
	for _, ref := range w.Movies {
		detail, err := c.catalog.GetByID(ctx, ref.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch movie %s: %w", ref.ID, err)
		}
		details = append(details, *detail)
	}
	return details, nil
}
