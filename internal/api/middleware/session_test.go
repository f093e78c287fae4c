package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amaumene/watchlistarr/internal/session"
)

func TestSessionGate(t *testing.T) {
	identity := session.NewMemoryIdentity()
	gated := SessionGate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), identity)

	cases := []struct {
		name     string
		path     string
		loggedIn bool
		want     int
	}{
		{"register open while logged out", "/api/register", false, http.StatusOK},
		{"login open while logged out", "/api/login", false, http.StatusOK},
		{"health open while logged out", "/health", false, http.StatusOK},
		{"watchlists blocked while logged out", "/api/watchlists", false, http.StatusUnauthorized},
		{"movies blocked while logged out", "/api/movies", false, http.StatusUnauthorized},
		{"watchlists allowed with session", "/api/watchlists", true, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.loggedIn {
				identity.Set("alice")
			} else {
				identity.Clear()
			}

			rec := httptest.NewRecorder()
			gated.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))

			if rec.Code != tc.want {
				t.Errorf("Expected status %d, got %d", tc.want, rec.Code)
			}
			if tc.want == http.StatusUnauthorized && !strings.Contains(rec.Body.String(), "not logged in") {
				t.Errorf("Expected error payload, got %q", rec.Body.String())
			}
		})
	}
}
