// Package state remembers the last work read in each collection.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const (
	stateFileName = "positions.json"
	hashBytes     = 8192 // First 8KB for content hash
)

// Position is the saved place in one collection.
type Position struct {
	Index  int    `json:"index"`
	WorkID string `json:"work_id,omitempty"`
}

// Store persists positions keyed by collection identity.
type Store struct {
	path string
	data map[string]Position
	mu   sync.RWMutex
}

// NewStore creates or loads state from XDG_STATE_HOME/mihiraki/.
func NewStore() (*Store, error) {
	return Open(filepath.Join(Dir(), stateFileName))
}

// Open creates or loads state from path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: path,
		data: make(map[string]Position),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]Position)
	}
	return store, nil
}

// Dir returns XDG_STATE_HOME/mihiraki or ~/.local/state/mihiraki
func Dir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "mihiraki")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "mihiraki")
}

// Key identifies a collection source: a content hash for files, a hash of the
// address for URLs.
func Key(source string, remote bool) (string, error) {
	if remote {
		sum := sha256.Sum256([]byte(source))
		return hex.EncodeToString(sum[:16]), nil
	}
	return ComputeHash(source)
}

// ComputeHash generates content hash for file identity
func ComputeHash(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, hashBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}

	hash := sha256.Sum256(buf[:n])
	return hex.EncodeToString(hash[:16]), nil
}

// Get returns the saved position for key.
func (s *Store) Get(key string) (Position, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.data[key]
	return p, ok
}

// Set saves the position for key.
func (s *Store) Set(key string, p Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = p
	return s.save()
}

// Clear removes the saved position for key.
func (s *Store) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("save positions: %w", err)
	}
	return nil
}
