// Package bolt implements the durable store on top of a single-file bbolt
// database. Layout mirrors the two logical keys of the app: a flat
// registered-user list and a user-id -> watchlists mapping, each stored as
// one JSON blob.
package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"

	"github.com/amaumene/watchlistarr/internal/models"
	"github.com/amaumene/watchlistarr/internal/storage"
)

var (
	bucketName    = []byte("watchlistarr")
	keyUsers      = []byte("registeredUsers")
	keyWatchlists = []byte("watchlists")
)

// Store is a bbolt-backed storage.Store.
type Store struct {
	db     *bbolt.DB
	logger *logrus.Logger
}

var _ storage.Store = (*Store)(nil)

// Open opens (or creates) the database file.
func Open(path string, logger *logrus.Logger) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveUsers replaces the registered user list.
func (s *Store) SaveUsers(users []models.User) error {
	data, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal users: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(keyUsers, data)
	})
}

// LoadUsers returns the stored user list. A corrupt blob is dropped and
// reported as absent.
func (s *Store) LoadUsers() ([]models.User, bool) {
	var users []models.User
	ok := false

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)
		data := b.Get(keyUsers)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &users); err != nil {
			s.logger.WithError(err).Warn("Corrupt registered user data, resetting key")
			users = nil
			return b.Delete(keyUsers)
		}
		ok = true
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to load registered users")
		return nil, false
	}

	return users, ok
}

// SaveWatchlists replaces the watchlist entry for userID. If the stored
// mapping is corrupt the whole key is dropped and nothing is written; the
// next save starts from an empty mapping.
func (s *Store) SaveWatchlists(userID string, set models.WatchlistSet) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)

		all, err := s.readMapping(b)
		if err != nil {
			return b.Delete(keyWatchlists)
		}

		if set.None() {
			delete(all, userID)
		} else {
			all[userID] = set.Lists()
		}

		data, err := json.Marshal(all)
		if err != nil {
			return fmt.Errorf("failed to marshal watchlists: %w", err)
		}
		return b.Put(keyWatchlists, data)
	})
}

// LoadWatchlists returns the watchlists stored for userID, nil when there is
// no entry. A corrupt mapping is dropped.
func (s *Store) LoadWatchlists(userID string) []models.Watchlist {
	var lists []models.Watchlist

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)

		all, err := s.readMapping(b)
		if err != nil {
			return b.Delete(keyWatchlists)
		}
		lists = all[userID]
		return nil
	})
	if err != nil {
		s.logger.WithError(err).Error("Failed to load watchlists")
		return nil
	}

	return lists
}

// RenameUserKey moves the watchlist entry from oldID to newID in one
// transaction. On corruption the key is dropped and no partial write occurs.
func (s *Store) RenameUserKey(oldID, newID string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketName)

		all, err := s.readMapping(b)
		if err != nil {
			return b.Delete(keyWatchlists)
		}

		lists, exists := all[oldID]
		if !exists {
			return nil
		}
		delete(all, oldID)
		all[newID] = lists

		data, err := json.Marshal(all)
		if err != nil {
			return fmt.Errorf("failed to marshal watchlists: %w", err)
		}
		return b.Put(keyWatchlists, data)
	})
}

// readMapping decodes the full user-id -> watchlists mapping. An absent key
// yields an empty mapping.
func (s *Store) readMapping(b *bbolt.Bucket) (map[string][]models.Watchlist, error) {
	all := make(map[string][]models.Watchlist)

	data := b.Get(keyWatchlists)
	if data == nil {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		s.logger.WithError(err).Warn("Corrupt watchlist data, resetting key")
		return nil, err
	}
	return all, nil
}
