// Package store persists the client and user collections as two flat
// JSON files, read fully into memory and rewritten fully on update.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/amiseo/cockpit/internal/models"
)

var ErrNotFound = errors.New("record not found")

// readJSONFile loads a whole collection. A missing file is an empty
// collection, so a fresh deployment works before any seeding.
func readJSONFile[T any](path string) ([]T, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// writeJSONFile rewrites the collection all-or-nothing: marshal to a
// temp file in the same directory, then rename over the target. A
// failure at any point leaves the previous file untouched.
func writeJSONFile[T any](path string, data []T) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("commit %s: %w", path, err)
	}
	return nil
}

// ClientStore serves client records from clients.json through an
// in-memory cache. Writers are serialized; concurrent saves of the same
// record resolve last-writer-wins.
type ClientStore struct {
	path string

	mu      sync.RWMutex
	clients []models.ClientRecord
}

func OpenClients(path string) (*ClientStore, error) {
	clients, err := readJSONFile[models.ClientRecord](path)
	if err != nil {
		return nil, err
	}
	return &ClientStore{path: path, clients: clients}, nil
}

// Path returns the backing file location.
func (s *ClientStore) Path() string { return s.path }

func (s *ClientStore) List() []models.ClientRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ClientRecord, len(s.clients))
	copy(out, s.clients)
	return out
}

func (s *ClientStore) Get(id string) (models.ClientRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return models.ClientRecord{}, ErrNotFound
}

// Put replaces the record with the same id, or appends when the id is
// new, and rewrites the whole file. The input record is echoed back
// unchanged. On write failure the cache and the file keep their
// previous state.
func (s *ClientStore) Put(rec models.ClientRecord) (models.ClientRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.ClientRecord, len(s.clients))
	copy(next, s.clients)

	replaced := false
	for i, c := range next {
		if c.ID == rec.ID {
			next[i] = rec
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, rec)
	}

	if err := writeJSONFile(s.path, next); err != nil {
		return models.ClientRecord{}, err
	}
	s.clients = next
	return rec, nil
}

// Reload re-reads the backing file, replacing the cache.
func (s *ClientStore) Reload() error {
	clients, err := readJSONFile[models.ClientRecord](s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.clients = clients
	s.mu.Unlock()
	return nil
}

// UserStore serves user records from users.json. Users are only ever
// edited out-of-band, so there is no write path.
type UserStore struct {
	path string

	mu    sync.RWMutex
	users []models.UserRecord
}

func OpenUsers(path string) (*UserStore, error) {
	users, err := readJSONFile[models.UserRecord](path)
	if err != nil {
		return nil, err
	}
	return &UserStore{path: path, users: users}, nil
}

func (s *UserStore) Path() string { return s.path }

func (s *UserStore) List() []models.UserRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.UserRecord, len(s.users))
	copy(out, s.users)
	return out
}

// ByUsername looks a user up case-insensitively.
func (s *UserStore) ByUsername(username string) (models.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return models.UserRecord{}, ErrNotFound
}

func (s *UserStore) Reload() error {
	users, err := readJSONFile[models.UserRecord](s.path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.users = users
	s.mu.Unlock()
	return nil
}
