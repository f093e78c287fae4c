package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amaumene/watchlistarr/internal/config"
	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/services/omdb"
	"github.com/amaumene/watchlistarr/internal/session"
	"github.com/amaumene/watchlistarr/internal/storage/memory"
	"github.com/amaumene/watchlistarr/internal/store"
	"github.com/amaumene/watchlistarr/internal/watchlist"
)

type seqIDGenerator struct{ n int }

func (g *seqIDGenerator) NewID(userID, name string) string {
	g.n++
	return string(rune('a' + g.n - 1))
}

func newCatalog(t *testing.T, baseURL string) *omdb.Client {
	t.Helper()
	catalog, err := omdb.NewClient(&config.Config{
		OMDbURL:    baseURL,
		OMDbAPIKey: "testkey",
	}, quietLogger())
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return catalog
}

func newWatchlistFixture(t *testing.T, catalog *omdb.Client) (*WatchlistController, *store.Store) {
	t.Helper()
	s := store.New(memory.NewStore(), session.NewMemoryIdentity(), quietLogger())
	s.SetCurrentSession("alice")
	s.RefreshWatchlists()
	return NewWatchlistController(s, catalog, &seqIDGenerator{}, quietLogger()), s
}

func TestCreateRequiresSession(t *testing.T) {
	s := store.New(memory.NewStore(), session.NewMemoryIdentity(), quietLogger())
	c := NewWatchlistController(s, nil, &seqIDGenerator{}, quietLogger())

	if _, err := c.Create("Horror", "", ""); !errors.Is(err, models.ErrNoSession) {
		t.Errorf("Expected ErrNoSession, got %v", err)
	}
}

func TestCreateRequiresName(t *testing.T) {
	c, _ := newWatchlistFixture(t, nil)

	if _, err := c.Create("", "about", ""); !errors.Is(err, models.ErrEmptyField) {
		t.Errorf("Expected ErrEmptyField, got %v", err)
	}
}

func TestCreateAndGet(t *testing.T) {
	c, s := newWatchlistFixture(t, nil)

	id, err := c.Create("Horror", "scary stuff", "tt0133093")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	w, ok := c.Get(id)
	if !ok {
		t.Fatal("Expected to find the created watchlist")
	}
	if w.Name != "Horror" || w.About != "scary stuff" {
		t.Errorf("Unexpected fields: %+v", w)
	}
	if len(w.Movies) != 1 || w.Movies[0].ID != "tt0133093" || w.Movies[0].Watched {
		t.Errorf("Expected one unwatched seed movie, got %+v", w.Movies)
	}
	if s.Watchlists().Len() != 1 {
		t.Errorf("Expected one watchlist in the store, got %d", s.Watchlists().Len())
	}
}

func TestMutationsFlowThroughStore(t *testing.T) {
	c, s := newWatchlistFixture(t, nil)
	id, _ := c.Create("Horror", "", "")

	if err := c.AddMovie(id, "tt1"); err != nil {
		t.Fatalf("AddMovie failed: %v", err)
	}
	if err := c.ToggleWatched(id, "tt1"); err != nil {
		t.Fatalf("ToggleWatched failed: %v", err)
	}
	if err := c.Rename(id, watchlist.FieldAbout, "late night"); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	w, _ := c.Get(id)
	if len(w.Movies) != 1 || !w.Movies[0].Watched {
		t.Errorf("Expected tt1 watched, got %+v", w.Movies)
	}
	if w.About != "late night" {
		t.Errorf("Expected about updated, got %q", w.About)
	}

	if err := c.RemoveMovie(id, "tt1"); err != nil {
		t.Fatalf("RemoveMovie failed: %v", err)
	}
	w, _ = c.Get(id)
	if len(w.Movies) != 0 {
		t.Errorf("Expected empty movie list, got %+v", w.Movies)
	}

	if err := c.Delete(id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !s.Watchlists().None() {
		t.Error("Deleting the last watchlist must leave no collection")
	}
}

func TestMutationsWithoutCollection(t *testing.T) {
	c, s := newWatchlistFixture(t, nil)

	if err := c.AddMovie("w1", "tt1"); err != nil {
		t.Fatalf("AddMovie failed: %v", err)
	}
	if err := c.Delete("w1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !s.Watchlists().None() {
		t.Error("Mutations with no collection must stay a no-op")
	}
}

func TestFetchMovies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("i")
		w.Write([]byte(`{"imdbID": "` + id + `", "Title": "Movie ` + id + `"}`))
	}))
	t.Cleanup(server.Close)
	catalog := newCatalog(t, server.URL)

	c, _ := newWatchlistFixture(t, catalog)
	id, _ := c.Create("Horror", "", "tt1")
	c.AddMovie(id, "tt2")

	details, err := c.FetchMovies(context.Background(), id)
	if err != nil {
		t.Fatalf("FetchMovies failed: %v", err)
	}
	if len(details) != 2 || details[0].ID != "tt1" || details[1].ID != "tt2" {
		t.Errorf("Expected details for tt1 and tt2 in order, got %+v", details)
	}
}

func TestFetchMoviesUnknownWatchlist(t *testing.T) {
	c, _ := newWatchlistFixture(t, nil)

	if _, err := c.FetchMovies(context.Background(), "missing"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
