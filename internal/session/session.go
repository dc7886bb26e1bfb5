// Package session provides durable storage for the authenticated session.
//
// The session file is the Go analogue of the browser's localStorage pair
// (auth token + serialized user record): it is read at startup to restore a
// session without re-authenticating, rewritten on login and profile updates,
// and removed on logout.
//
// Thread-safety:
//   - All operations are protected by mutex
//   - Safe for concurrent access from multiple goroutines
//   - In-memory state is updated only after a successful write
package session

import (
	"encoding/json"
	"os"
	"sync"
)

// record is the on-disk shape of a persisted session.
type record struct {
	Token string          `json:"authToken"`
	User  json.RawMessage `json:"user"`
}

// Store provides thread-safe durable storage for the session.
//
// Data flow:
//
//	Read:  file → load into memory at New → serve from memory
//	Write: write file → update memory (only after successful write)
//	Clear: remove file → zero memory
type Store struct {
	mu    sync.Mutex
	path  string
	token string
	user  json.RawMessage
}

// New creates a session store backed by the given file and loads any
// previously persisted session from it.
func New(path string) *Store {
	s := &Store{path: path}
	s.loadFromFile()
	return s
}

// loadFromFile restores a persisted session, if one exists.
//
// A missing file is normal on first run. A corrupt file is treated as no
// session: the user simply has to log in again.
func (s *Store) loadFromFile() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return
	}

	s.token = rec.Token
	s.user = rec.User
}

// Save persists the token and serialized user record, then updates the
// in-memory mirror. Either both survive a restart or neither does.
func (s *Store) Save(token string, user json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(record{Token: token, User: user})
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return err
	}

	s.token = token
	s.user = append(json.RawMessage(nil), user...)
	return nil
}

// Token returns the persisted bearer token, or empty if signed out.
//
// Callers building authenticated requests source the token from here on
// every call rather than caching it, so a logout elsewhere is seen
// immediately.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns the serialized persisted user record, or nil if signed out.
func (s *Store) User() json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	return append(json.RawMessage(nil), s.user...)
}

// HasSession reports whether both a token and a user record are persisted.
func (s *Store) HasSession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && len(s.user) > 0
}

// Clear removes the persisted session. Idempotent: clearing an already
// cleared session is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil

	err := os.Remove(s.path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}
