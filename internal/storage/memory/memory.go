// Package memory provides a map-backed storage.Store for tests.
package memory

import (
	"sync"

	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/storage"
)

// Store keeps everything in process memory.
type Store struct {
	mu         sync.RWMutex
	users      []models.User
	usersSet   bool
	watchlists map[string][]models.Watchlist
}

var _ storage.Store = (*Store)(nil)

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{watchlists: make(map[string][]models.Watchlist)}
}

func (s *Store) SaveUsers(users []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append([]models.User(nil), users...)
	s.usersSet = true
	return nil
}

func (s *Store) LoadUsers() ([]models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.usersSet {
		return nil, false
	}
	return append([]models.User(nil), s.users...), true
}

func (s *Store) SaveWatchlists(userID string, set models.WatchlistSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if set.None() {
		delete(s.watchlists, userID)
		return nil
	}
	s.watchlists[userID] = append([]models.Watchlist(nil), set.Lists()...)
	return nil
}

func (s *Store) LoadWatchlists(userID string) []models.Watchlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lists, ok := s.watchlists[userID]
	if !ok {
		return nil
	}
	return append([]models.Watchlist(nil), lists...)
}

func (s *Store) RenameUserKey(oldID, newID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists, ok := s.watchlists[oldID]
	if !ok {
		return nil
	}
	delete(s.watchlists, oldID)
	s.watchlists[newID] = lists
	return nil
}

func (s *Store) Close() error {
	return nil
}
