// Package session tracks which registered user is currently active. It is a
// plain durable flag, the moral equivalent of the auth cookie the web client
// sets: no expiry, no signing, no server validation.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Identity stores the current user's id across restarts.
type Identity interface {
	// Set marks userID as the active session.
	Set(userID string) error
	// Get returns the active user id, ok=false when logged out.
	Get() (string, bool)
	// Clear logs out.
	Clear() error
}

type sessionFile struct {
	AuthID string `json:"auth_id"`
}

// FileIdentity implements Identity using a small JSON file.
type FileIdentity struct {
	filepath string
}

var _ Identity = (*FileIdentity)(nil)

// NewFileIdentity creates a file-backed identity store.
func NewFileIdentity(filepath string) *FileIdentity {
	return &FileIdentity{filepath: filepath}
}

func (s *FileIdentity) Set(userID string) error {
	data, err := json.Marshal(sessionFile{AuthID: userID})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return os.WriteFile(s.filepath, data, 0600)
}

func (s *FileIdentity) Get() (string, bool) {
	data, err := os.ReadFile(s.filepath)
	if err != nil {
		return "", false
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		// Treat a mangled session file as logged out.
		os.Remove(s.filepath)
		return "", false
	}
	if f.AuthID == "" {
		return "", false
	}
	return f.AuthID, true
}

func (s *FileIdentity) Clear() error {
	err := os.Remove(s.filepath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// MemoryIdentity implements Identity in process memory, for tests.
type MemoryIdentity struct {
	mu     sync.Mutex
	userID string
}

var _ Identity = (*MemoryIdentity)(nil)

// NewMemoryIdentity returns a logged-out in-memory identity.
func NewMemoryIdentity() *MemoryIdentity {
	return &MemoryIdentity{}
}

func (s *MemoryIdentity) Set(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	return nil
}

func (s *MemoryIdentity) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != ""
}

func (s *MemoryIdentity) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	return nil
}
