package controllers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/services/omdb"
)

// SearchController drives debounced, paginated catalog search. Keystrokes
// reset a single pending debounce timer; each new query bumps a generation
// token so a fetch that resolves after a newer query started is discarded
// instead of clobbering fresher results.
type SearchController struct {
	catalog *omdb.Client
	delay   time.Duration
	logger  *logrus.Logger

	mu          sync.Mutex
	timer       *time.Timer
	pendingText string
	generation  uint64
	query       string
	page        int
	results     []models.MovieSummary
	end         bool
	searchErr   error
}

// NewSearchController creates a new search controller with the given
// debounce delay.
func NewSearchController(catalog *omdb.Client, delay time.Duration, logger *logrus.Logger) *SearchController {
	return &SearchController{
		catalog: catalog,
		delay:   delay,
		logger:  logger,
	}
}

// Input registers a keystroke. The pending timer (at most one) is cleared;
// after the debounce delay the text becomes the active query at page 1. An
// empty text resets the result state immediately.
func (c *SearchController) Input(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}

	if text == "" {
		c.query = ""
		c.results = nil
		c.end = false
		c.searchErr = nil
		return
	}

	c.pendingText = text
	c.timer = time.AfterFunc(c.delay, func() {
		c.fire(text)
	})
}

// Flush runs the pending debounced search immediately. Used where the
// caller needs deterministic completion.
func (c *SearchController) Flush() {
	c.mu.Lock()
	t := c.timer
	text := c.pendingText
	c.timer = nil
	c.mu.Unlock()

	if t != nil && t.Stop() {
		c.fire(text)
	}
}

// fire starts a fresh query at page 1.
func (c *SearchController) fire(text string) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.query = text
	c.page = 1
	c.end = false
	c.mu.Unlock()

	c.fetch(gen, text, 1)
}

// NextPage requests the page after the last applied one. No-op when there
// is no active query or the end of results was reached.
func (c *SearchController) NextPage() {
	c.mu.Lock()
	if c.query == "" || c.end {
		c.mu.Unlock()
		return
	}
	gen := c.generation
	query := c.query
	page := c.page + 1
	c.mu.Unlock()

	c.fetch(gen, query, page)
}

func (c *SearchController) fetch(gen uint64, query string, page int) {
	movies, err := c.catalog.Search(context.Background(), query, page)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		c.logger.WithFields(logrus.Fields{
			"query": query,
			"page":  page,
		}).Debug("Discarding stale search result")
		return
	}

	if err != nil {
		if errors.Is(err, models.ErrNotFound) && page > 1 {
			c.end = true
			return
		}
		c.results = nil
		c.searchErr = err
		return
	}

	if page == 1 {
		c.results = movies
	} else {
		c.results = append(c.results, movies...)
	}
	c.page = page
	c.searchErr = nil
}

// Results returns the accumulated result pages, whether the end of results
// was reached, and the current search error if any.
func (c *SearchController) Results() ([]models.MovieSummary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.MovieSummary(nil), c.results...), c.end, c.searchErr
}
