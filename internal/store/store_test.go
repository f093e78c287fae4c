package store

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/session"
	"github.com/amaumene/watchlistarr/internal/storage/memory"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestStore() (*Store, *memory.Store, *session.MemoryIdentity) {
	st := memory.NewStore()
	id := session.NewMemoryIdentity()
	return New(st, id, quietLogger()), st, id
}

func TestSetRegisteredUsersPersists(t *testing.T) {
	s, st, _ := newTestStore()

	users := []models.User{{ID: "alice", Email: "a@x.com"}}
	if err := s.SetRegisteredUsers(users); err != nil {
		t.Fatalf("SetRegisteredUsers failed: %v", err)
	}

	stored, ok := st.LoadUsers()
	if !ok || len(stored) != 1 || stored[0].ID != "alice" {
		t.Errorf("Expected alice persisted, got %+v (ok=%v)", stored, ok)
	}

	got, loaded := s.RegisteredUsers()
	if !loaded || len(got) != 1 {
		t.Errorf("Expected loaded slice with 1 user, got %+v (loaded=%v)", got, loaded)
	}
}

func TestRegisteredUsersUnloadedUntilRefresh(t *testing.T) {
	s, st, _ := newTestStore()

	if _, loaded := s.RegisteredUsers(); loaded {
		t.Error("Slice should start unloaded")
	}

	st.SaveUsers([]models.User{{ID: "bob", Email: "b@x.com"}})
	s.RefreshUsers()

	users, loaded := s.RegisteredUsers()
	if !loaded || len(users) != 1 || users[0].ID != "bob" {
		t.Errorf("Expected bob after refresh, got %+v", users)
	}
}

func TestSetWatchlistsScopedToSession(t *testing.T) {
	s, st, id := newTestStore()
	id.Set("alice")

	lists := []models.Watchlist{{ID: "w1", Name: "Horror", Movies: []models.MovieRef{}}}
	if err := s.SetWatchlists(models.SomeWatchlists(lists)); err != nil {
		t.Fatalf("SetWatchlists failed: %v", err)
	}

	if got := st.LoadWatchlists("alice"); len(got) != 1 || got[0].ID != "w1" {
		t.Errorf("Expected watchlist stored under alice, got %+v", got)
	}
	if got := st.LoadWatchlists("bob"); got != nil {
		t.Errorf("Nothing should be stored under bob, got %+v", got)
	}
}

func TestSetWatchlistsNoSessionSkipsPersist(t *testing.T) {
	s, st, _ := newTestStore()

	lists := []models.Watchlist{{ID: "w1", Name: "Horror"}}
	if err := s.SetWatchlists(models.SomeWatchlists(lists)); err != nil {
		t.Fatalf("SetWatchlists failed: %v", err)
	}

	// In-memory slice updates, durable storage does not.
	if s.Watchlists().Len() != 1 {
		t.Error("In-memory slice should hold the watchlist")
	}
	if got := st.LoadWatchlists(""); got != nil {
		t.Errorf("Durable write should be skipped without a session, got %+v", got)
	}
}

func TestSetWatchlistsNoneDeletesEntry(t *testing.T) {
	s, st, id := newTestStore()
	id.Set("alice")

	s.SetWatchlists(models.SomeWatchlists([]models.Watchlist{{ID: "w1", Name: "x"}}))
	s.SetWatchlists(models.NoWatchlists())

	if got := st.LoadWatchlists("alice"); got != nil {
		t.Errorf("None set should remove the durable entry, got %+v", got)
	}
	if !s.Watchlists().None() {
		t.Error("In-memory state should be None")
	}
}

func TestRefreshWatchlistsForSessionUser(t *testing.T) {
	s, st, id := newTestStore()

	st.SaveWatchlists("alice", models.SomeWatchlists([]models.Watchlist{{ID: "w1", Name: "Horror"}}))
	id.Set("alice")
	s.RefreshWatchlists()

	set := s.Watchlists()
	if set.None() || set.Len() != 1 {
		t.Fatalf("Expected alice's watchlist hydrated, got %+v", set.Lists())
	}

	id.Set("bob")
	s.RefreshWatchlists()
	if !s.Watchlists().None() {
		t.Error("User without an entry hydrates to None")
	}
}

func TestRenameUserKeyMovesEntry(t *testing.T) {
	s, st, id := newTestStore()
	id.Set("alice")

	lists := []models.Watchlist{{ID: "w1", Name: "Horror", Movies: []models.MovieRef{{ID: "tt1"}}}}
	s.SetWatchlists(models.SomeWatchlists(lists))

	if err := s.RenameUserKey("alice", "alicia"); err != nil {
		t.Fatalf("RenameUserKey failed: %v", err)
	}
	id.Set("alicia")
	s.RefreshWatchlists()

	set := s.Watchlists()
	if set.None() || set.Len() != 1 || set.Lists()[0].ID != "w1" {
		t.Errorf("Watchlists should follow the renamed key unchanged, got %+v", set.Lists())
	}
	if got := st.LoadWatchlists("alice"); got != nil {
		t.Errorf("Old key should be gone, got %+v", got)
	}
}

func TestSubscribersNotifiedSynchronously(t *testing.T) {
	s, _, id := newTestStore()
	id.Set("alice")

	var snaps []Snapshot
	s.Subscribe(func(snap Snapshot) {
		snaps = append(snaps, snap)
	})

	s.SetRegisteredUsers([]models.User{{ID: "alice", Email: "a@x.com"}})
	s.SetWatchlists(models.SomeWatchlists([]models.Watchlist{{ID: "w1", Name: "x"}}))

	if len(snaps) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(snaps))
	}
	if len(snaps[0].RegisteredUsers) != 1 || snaps[0].CurrentUserID != "alice" {
		t.Errorf("First snapshot mismatch: %+v", snaps[0])
	}
	if snaps[1].Watchlists.Len() != 1 {
		t.Errorf("Second snapshot should carry the watchlist, got %+v", snaps[1].Watchlists)
	}
}

func TestClearSessionResetsWatchlists(t *testing.T) {
	s, _, id := newTestStore()
	id.Set("alice")
	s.SetWatchlists(models.SomeWatchlists([]models.Watchlist{{ID: "w1", Name: "x"}}))

	if err := s.ClearSession(); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}

	if _, ok := s.CurrentUserID(); ok {
		t.Error("Session should be cleared")
	}
	if !s.Watchlists().None() {
		t.Error("Watchlist slice should reset on logout")
	}
}
