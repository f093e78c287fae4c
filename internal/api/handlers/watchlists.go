package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/controllers"
	"github.com/amaumene/watchlistarr/internal/watchlist"
)

// WatchlistsHandler exposes the watchlist actions of the session user.
type WatchlistsHandler struct {
	ctrl   *controllers.WatchlistController
	logger *logrus.Logger
}

// NewWatchlistsHandler creates a new watchlists handler.
func NewWatchlistsHandler(ctrl *controllers.WatchlistController, logger *logrus.Logger) *WatchlistsHandler {
	return &WatchlistsHandler{ctrl: ctrl, logger: logger}
}

type createWatchlistRequest struct {
	Name    string `json:"name"`
	About   string `json:"about"`
	MovieID string `json:"movie_id"`
}

type renameRequest struct {
	Field string `json:"field"`
	Text  string `json:"text"`
}

type addMovieRequest struct {
	MovieID string `json:"movie_id"`
}

// List handles GET /api/watchlists?q=. An empty query returns the whole
// collection (the listing page behaviour).
func (h *WatchlistsHandler) List(w http.ResponseWriter, r *http.Request) {
	results := h.ctrl.SearchLocal(r.URL.Query().Get("q"), watchlist.FilterListing)
	writeJSON(w, http.StatusOK, results)
}

// SearchDropdown handles GET /api/watchlists/search?q=. An empty query
// returns nothing and results are capped (the navbar preview behaviour).
func (h *WatchlistsHandler) SearchDropdown(w http.ResponseWriter, r *http.Request) {
	results := h.ctrl.SearchLocal(r.URL.Query().Get("q"), watchlist.FilterDropdown)
	writeJSON(w, http.StatusOK, results)
}

// Create handles POST /api/watchlists.
func (h *WatchlistsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createWatchlistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	id, err := h.ctrl.Create(req.Name, req.About, req.MovieID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// Get handles GET /api/watchlists/{id}.
func (h *WatchlistsHandler) Get(w http.ResponseWriter, r *http.Request) {
	wl, ok := h.ctrl.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "Watchlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, wl)
}

// Delete handles DELETE /api/watchlists/{id}.
func (h *WatchlistsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Delete(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Rename handles POST /api/watchlists/{id}/rename.
func (h *WatchlistsHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	field := watchlist.Field(req.Field)
	if field != watchlist.FieldName && field != watchlist.FieldAbout {
		http.Error(w, "Unknown field", http.StatusBadRequest)
		return
	}

	if err := h.ctrl.Rename(r.PathValue("id"), field, req.Text); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

// AddMovie handles POST /api/watchlists/{id}/movies.
func (h *WatchlistsHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req addMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	if err := h.ctrl.AddMovie(r.PathValue("id"), req.MovieID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// RemoveMovie handles DELETE /api/watchlists/{id}/movies/{movieID}.
func (h *WatchlistsHandler) RemoveMovie(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.RemoveMovie(r.PathValue("id"), r.PathValue("movieID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ToggleWatched handles POST /api/watchlists/{id}/movies/{movieID}/toggle.
func (h *WatchlistsHandler) ToggleWatched(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.ToggleWatched(r.PathValue("id"), r.PathValue("movieID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "toggled"})
}

// Movies handles GET /api/watchlists/{id}/movies, resolving each reference
// against the catalog.
func (h *WatchlistsHandler) Movies(w http.ResponseWriter, r *http.Request) {
	details, err := h.ctrl.FetchMovies(r.Context(), r.PathValue("id"))
	if err != nil {
		h.logger.WithError(err).Warn("Failed to resolve watchlist movies")
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}
