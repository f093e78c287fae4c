package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/controllers"
	"github.com/amaumene/watchlistarr/internal/services/omdb"
)

// MoviesHandler exposes catalog lookups and the paginated search feed.
type MoviesHandler struct {
	catalog *omdb.Client
	search  *controllers.SearchController
	logger  *logrus.Logger
}

// NewMoviesHandler creates a new movies handler.
func NewMoviesHandler(catalog *omdb.Client, search *controllers.SearchController, logger *logrus.Logger) *MoviesHandler {
	return &MoviesHandler{catalog: catalog, search: search, logger: logger}
}

// Detail handles GET /api/movies/{id}.
func (h *MoviesHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type searchResponse struct {
	Movies interface{} `json:"movies"`
	End    bool        `json:"end"`
	Error  string      `json:"error,omitempty"`
}

// Search handles GET /api/movies?s=<query>. Passing more=1 instead of a new
// query appends the next page to the running feed, until the end flag
// reports the catalog is exhausted.
func (h *MoviesHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("s")
	more := r.URL.Query().Get("more") != ""

	switch {
	case more:
		h.search.NextPage()
	case query != "":
		h.search.Input(query)
		h.search.Flush()
	default:
		http.Error(w, "Missing search query", http.StatusBadRequest)
		return
	}

	movies, end, err := h.search.Results()
	resp := searchResponse{Movies: movies, End: end}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}
