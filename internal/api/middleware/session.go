package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/amaumene/watchlistarr/internal/session"
)

// open lists the paths reachable without an active session.
var open = map[string]bool{
	"/api/register": true,
	"/api/login":    true,
	"/health":       true,
}

// SessionGate rejects requests with 401 until a session flag is set. It is
// the boundary check in front of everything except registration and login.
func SessionGate(next http.Handler, id session.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if open[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := id.Get(); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "not logged in"})
			return
		}

		next.ServeHTTP(w, r)
	})
}
