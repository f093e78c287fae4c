package bolt

import (
	"io"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"

	"github.com/amaumene/watchlistarr/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"), quietLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// corruptKey overwrites a stored key with bytes that do not parse as JSON.
func corruptKey(t *testing.T, store *Store, key string) {
	t.Helper()
	err := store.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte("{not json"))
	})
	if err != nil {
		t.Fatalf("Failed to corrupt key: %v", err)
	}
}

func TestLoadUsersAbsent(t *testing.T) {
	store := openTestStore(t)

	users, ok := store.LoadUsers()
	if ok || users != nil {
		t.Errorf("Expected absent users, got %+v (ok=%v)", users, ok)
	}
}

func TestSaveLoadUsers(t *testing.T) {
	store := openTestStore(t)

	want := []models.User{
		{ID: "alice", Email: "a@x.com", Img: "p1.png"},
		{ID: "bob", Email: "b@x.com"},
	}
	if err := store.SaveUsers(want); err != nil {
		t.Fatalf("SaveUsers failed: %v", err)
	}

	got, ok := store.LoadUsers()
	if !ok {
		t.Fatal("Expected users to be present")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestCorruptUsersDropped(t *testing.T) {
	store := openTestStore(t)
	store.SaveUsers([]models.User{{ID: "alice", Email: "a@x.com"}})
	corruptKey(t, store, "registeredUsers")

	users, ok := store.LoadUsers()
	if ok || users != nil {
		t.Errorf("Corrupt blob must read as absent, got %+v (ok=%v)", users, ok)
	}

	// The key is gone, so a fresh save starts clean.
	if err := store.SaveUsers([]models.User{{ID: "bob", Email: "b@x.com"}}); err != nil {
		t.Fatalf("SaveUsers after corruption failed: %v", err)
	}
	got, ok := store.LoadUsers()
	if !ok || len(got) != 1 || got[0].ID != "bob" {
		t.Errorf("Expected clean state after corruption, got %+v", got)
	}
}

func TestSaveLoadWatchlists(t *testing.T) {
	store := openTestStore(t)

	lists := []models.Watchlist{
		{ID: "w1", Name: "Horror", About: "scary", Movies: []models.MovieRef{{ID: "tt1", Watched: true}}},
	}
	if err := store.SaveWatchlists("alice", models.SomeWatchlists(lists)); err != nil {
		t.Fatalf("SaveWatchlists failed: %v", err)
	}
	store.SaveWatchlists("bob", models.SomeWatchlists([]models.Watchlist{{ID: "w2", Name: "Comedy"}}))

	got := store.LoadWatchlists("alice")
	if !reflect.DeepEqual(got, lists) {
		t.Errorf("Expected %+v, got %+v", lists, got)
	}
	if got := store.LoadWatchlists("carol"); got != nil {
		t.Errorf("Expected nil for a user with no entry, got %+v", got)
	}
}

func TestSaveNoneRemovesEntry(t *testing.T) {
	store := openTestStore(t)
	store.SaveWatchlists("alice", models.SomeWatchlists([]models.Watchlist{{ID: "w1", Name: "Horror"}}))
	store.SaveWatchlists("bob", models.SomeWatchlists([]models.Watchlist{{ID: "w2", Name: "Comedy"}}))

	if err := store.SaveWatchlists("alice", models.NoWatchlists()); err != nil {
		t.Fatalf("SaveWatchlists failed: %v", err)
	}

	if got := store.LoadWatchlists("alice"); got != nil {
		t.Errorf("Expected alice's entry removed, got %+v", got)
	}
	if got := store.LoadWatchlists("bob"); len(got) != 1 {
		t.Errorf("Other users' entries must survive, got %+v", got)
	}
}

func TestCorruptWatchlistsDropped(t *testing.T) {
	store := openTestStore(t)
	store.SaveWatchlists("alice", models.SomeWatchlists([]models.Watchlist{{ID: "w1", Name: "Horror"}}))
	corruptKey(t, store, "watchlists")

	if got := store.LoadWatchlists("alice"); got != nil {
		t.Errorf("Corrupt mapping must read as absent, got %+v", got)
	}

	// Next save starts from an empty mapping instead of failing.
	if err := store.SaveWatchlists("bob", models.SomeWatchlists([]models.Watchlist{{ID: "w2", Name: "Comedy"}})); err != nil {
		t.Fatalf("SaveWatchlists after corruption failed: %v", err)
	}
	if got := store.LoadWatchlists("bob"); len(got) != 1 || got[0].ID != "w2" {
		t.Errorf("Expected clean state after corruption, got %+v", got)
	}
}

func TestRenameUserKey(t *testing.T) {
	store := openTestStore(t)
	lists := []models.Watchlist{{ID: "w1", Name: "Horror", Movies: []models.MovieRef{{ID: "tt1"}}}}
	store.SaveWatchlists("alice", models.SomeWatchlists(lists))

	if err := store.RenameUserKey("alice", "alicia"); err != nil {
		t.Fatalf("RenameUserKey failed: %v", err)
	}

	if got := store.LoadWatchlists("alice"); got != nil {
		t.Errorf("Old key must be gone, got %+v", got)
	}
	if got := store.LoadWatchlists("alicia"); !reflect.DeepEqual(got, lists) {
		t.Errorf("Expected %+v under the new key, got %+v", lists, got)
	}
}

func TestRenameUserKeyMissingOld(t *testing.T) {
	store := openTestStore(t)
	store.SaveWatchlists("bob", models.SomeWatchlists([]models.Watchlist{{ID: "w2", Name: "Comedy"}}))

	if err := store.RenameUserKey("ghost", "phantom"); err != nil {
		t.Fatalf("RenameUserKey failed: %v", err)
	}
	if got := store.LoadWatchlists("phantom"); got != nil {
		t.Errorf("Rename of a missing key must not create an entry, got %+v", got)
	}
	if got := store.LoadWatchlists("bob"); len(got) != 1 {
		t.Errorf("Unrelated entries must survive, got %+v", got)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.SaveUsers([]models.User{{ID: "alice", Email: "a@x.com"}})
	store.SaveWatchlists("alice", models.SomeWatchlists([]models.Watchlist{{ID: "w1", Name: "Horror"}}))
	store.Close()

	reopened, err := Open(path, quietLogger())
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	users, ok := reopened.LoadUsers()
	if !ok || len(users) != 1 || users[0].ID != "alice" {
		t.Errorf("Expected users to survive reopen, got %+v", users)
	}
	if lists := reopened.LoadWatchlists("alice"); len(lists) != 1 || lists[0].Name != "Horror" {
		t.Errorf("Expected watchlists to survive reopen, got %+v", lists)
	}
}
