// Package storage defines the durable store port. The state store is the
// only writer; adapters must survive malformed data by resetting the
// offending key instead of returning an error.
package storage

import "github.com/amaumene/watchlistarr/internal/models"

// Store persists the registered-user list and the per-user watchlist
// mapping across restarts.
type Store interface {
	// SaveUsers replaces the registered user list.
	SaveUsers(users []models.User) error
	// LoadUsers returns the stored list, or ok=false when nothing (valid)
	// is stored.
	LoadUsers() (users []models.User, ok bool)

	// SaveWatchlists replaces the watchlist entry for userID. A None set
	// removes the entry.
	SaveWatchlists(userID string, set models.WatchlistSet) error
	// LoadWatchlists returns the watchlists stored for userID, nil when
	// the user has no entry.
	LoadWatchlists(userID string) []models.Watchlist

	// RenameUserKey moves the watchlist entry from oldID to newID in a
	// single read-modify-write. Missing source entry is a no-op.
	RenameUserKey(oldID, newID string) error

	Close() error
}
