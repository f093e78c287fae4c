package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/store"
)

// StatusHandler reports a summary of the current state.
type StatusHandler struct {
	store  *store.Store
	logger *logrus.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(st *store.Store, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{store: st, logger: logger}
}

// StatusResponse represents the status response
type StatusResponse struct {
	RegisteredUsers int    `json:"registered_users"`
	SessionUser     string `json:"session_user,omitempty"`
	Watchlists      int    `json:"watchlists"`
	Movies          int    `json:"movies"`
	Watched         int    `json:"watched"`
}

// ServeHTTP handles the status endpoint
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, _ := h.store.RegisteredUsers()
	sessionUser, _ := h.store.CurrentUserID()
	set := h.store.Watchlists()

	response := StatusResponse{
		RegisteredUsers: len(users),
		SessionUser:     sessionUser,
		Watchlists:      set.Len(),
	}
	for _, wl := range set.Lists() {
		response.Movies += len(wl.Movies)
		for _, m := range wl.Movies {
			if m.Watched {
				response.Watched++
			}
		}
	}

	writeJSON(w, http.StatusOK, response)
}
