// Package store is the in-memory, subscribable state container for the
// registered-user list and the active user's watchlists. It is the sole
// writer to durable storage; controllers never touch the storage adapter
// directly.
package store

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/session"
	"github.com/amaumene/watchlistarr/internal/storage"
)

// Snapshot is the state handed to subscribers after each action.
type Snapshot struct {
	RegisteredUsers []models.User
	CurrentUserID   string
	Watchlists      models.WatchlistSet
}

// Store mediates all reads and writes between callers and the durable
// layer. Both slices stay unloaded until first hydrated.
type Store struct {
	mu          sync.Mutex
	storage     storage.Store
	identity    session.Identity
	logger      *logrus.Logger
	users       []models.User
	usersLoaded bool
	watchlists  models.WatchlistSet
	subscribers []func(Snapshot)
}

// New creates a store over the given persistence and identity ports.
func New(st storage.Store, id session.Identity, logger *logrus.Logger) *Store {
	return &Store{
		storage:    st,
		identity:   id,
		logger:     logger,
		watchlists: models.NoWatchlists(),
	}
}

// Subscribe registers a callback invoked synchronously after every action.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) snapshotLocked() Snapshot {
	userID, _ := s.identity.Get()
	return Snapshot{
		RegisteredUsers: append([]models.User(nil), s.users...),
		CurrentUserID:   userID,
		Watchlists:      s.watchlists,
	}
}

// notify fires subscribers outside the lock so they may read the store.
func (s *Store) notify(snap Snapshot, subs []func(Snapshot)) {
	for _, fn := range subs {
		fn(snap)
	}
}

// SetRegisteredUsers replaces the user slice and persists it verbatim.
func (s *Store) SetRegisteredUsers(users []models.User) error {
	s.mu.Lock()
	s.users = append([]models.User(nil), users...)
	s.usersLoaded = true

	err := s.storage.SaveUsers(users)
	snap, subs := s.snapshotLocked(), s.subscribers
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to persist registered users: %w", err)
	}
	s.notify(snap, subs)
	return nil
}

// SetCurrentSession marks userID as the active session.
func (s *Store) SetCurrentSession(userID string) error {
	s.mu.Lock()
	err := s.identity.Set(userID)
	snap, subs := s.snapshotLocked(), s.subscribers
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	s.notify(snap, subs)
	return nil
}

// ClearSession logs the active user out.
func (s *Store) ClearSession() error {
	s.mu.Lock()
	err := s.identity.Clear()
	s.watchlists = models.NoWatchlists()
	snap, subs := s.snapshotLocked(), s.subscribers
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.notify(snap, subs)
	return nil
}

// RefreshUsers re-hydrates the registered user slice from durable storage.
func (s *Store) RefreshUsers() {
	s.mu.Lock()
	users, ok := s.storage.LoadUsers()
	s.users = users
	s.usersLoaded = ok
	snap, subs := s.snapshotLocked(), s.subscribers
	s.mu.Unlock()

	s.notify(snap, subs)
}

// SetWatchlists replaces the watchlist slice and persists it under the
// session user. A None set is the deletion signal. Without an active
// session the durable write is skipped.
func (s *Store) SetWatchlists(set models.WatchlistSet) error {
	s.mu.Lock()
	s.watchlists = set

	var err error
	if userID, ok := s.identity.Get(); ok {
		err = s.storage.SaveWatchlists(userID, set)
	} else {
		s.logger.Debug("No active session, skipping watchlist persistence")
	}
	snap, subs := s.snapshotLocked(), s.subscribers
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("failed to persist watchlists: %w", err)
	}
	s.notify(snap, subs)
	return nil
}

// RefreshWatchlists re-hydrates the watchlist slice for the session user.
func (s *Store) RefreshWatchlists() {
	s.mu.Lock()
	userID, ok := s.identity.Get()
	if !ok {
		s.watchlists = models.NoWatchlists()
	} else if lists := s.storage.LoadWatchlists(userID); lists == nil {
		s.watchlists = models.NoWatchlists()
	} else {
		s.watchlists = models.SomeWatchlists(lists)
	}
	snap, subs := s.snapshotLocked(), s.subscribers
	s.mu.Unlock()

	s.notify(snap, subs)
}

// RenameUserKey moves the durable watchlist entry between user ids. The
// in-memory slice is not re-keyed; callers reload after the session id
// changes.
func (s *Store) RenameUserKey(oldID, newID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storage.RenameUserKey(oldID, newID)
}

// RegisteredUsers returns the user slice and whether it has been loaded.
func (s *Store) RegisteredUsers() ([]models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.users...), s.usersLoaded
}

// CurrentUserID returns the active session user.
func (s *Store) CurrentUserID() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.Get()
}

// Watchlists returns the current watchlist set.
func (s *Store) Watchlists() models.WatchlistSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watchlists
}
