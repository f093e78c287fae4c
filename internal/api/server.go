package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/api/handlers"
	"github.com/amaumene/watchlistarr/internal/api/middleware"
	"github.com/amaumene/watchlistarr/internal/config"
	"github.com/amaumene/watchlistarr/internal/controllers"
	"github.com/amaumene/watchlistarr/internal/services/omdb"
	"github.com/amaumene/watchlistarr/internal/session"
	"github.com/amaumene/watchlistarr/internal/store"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// Deps bundles everything the route handlers need.
type Deps struct {
	Store      *store.Store
	Identity   session.Identity
	Auth       *controllers.AuthController
	Watchlists *controllers.WatchlistController
	Search     *controllers.SearchController
	Catalog    *omdb.Client
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, deps Deps, logger *logrus.Logger) *Server {
	s := &Server{logger: logger}

	mux := http.NewServeMux()
	s.setupRoutes(mux, deps)

	handler := middleware.SessionGate(mux, deps.Identity)
	handler = middleware.Logging(handler, logger)

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux, deps Deps) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	mux.Handle("GET /health", healthHandler)

	statusHandler := handlers.NewStatusHandler(deps.Store, s.logger)
	mux.Handle("GET /status", statusHandler)

	authHandler := handlers.NewAuthHandler(deps.Auth, s.logger)
	mux.HandleFunc("POST /api/register", authHandler.Register)
	mux.HandleFunc("POST /api/login", authHandler.Login)
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/account", authHandler.SaveAccount)

	wlHandler := handlers.NewWatchlistsHandler(deps.Watchlists, s.logger)
	mux.HandleFunc("GET /api/watchlists", wlHandler.List)
	mux.HandleFunc("GET /api/watchlists/search", wlHandler.SearchDropdown)
	mux.HandleFunc("POST /api/watchlists", wlHandler.Create)
	mux.HandleFunc("GET /api/watchlists/{id}", wlHandler.Get)
	mux.HandleFunc("DELETE /api/watchlists/{id}", wlHandler.Delete)
	mux.HandleFunc("POST /api/watchlists/{id}/rename", wlHandler.Rename)
	mux.HandleFunc("GET /api/watchlists/{id}/movies", wlHandler.Movies)
	mux.HandleFunc("POST /api/watchlists/{id}/movies", wlHandler.AddMovie)
	mux.HandleFunc("DELETE /api/watchlists/{id}/movies/{movieID}", wlHandler.RemoveMovie)
	mux.HandleFunc("POST /api/watchlists/{id}/movies/{movieID}/toggle", wlHandler.ToggleWatched)

	moviesHandler := handlers.NewMoviesHandler(deps.Catalog, deps.Search, s.logger)
	mux.HandleFunc("GET /api/movies", moviesHandler.Search)
	mux.HandleFunc("GET /api/movies/{id}", moviesHandler.Detail)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
