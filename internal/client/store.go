package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// ErrNoToken — в хранилище нет сохранённого токена.
var ErrNoToken = errors.New("no token stored")

// StoredToken — сохранённый access-токен и момент его истечения.
type StoredToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// TokenStore абстрагирует хранение access-токена между запусками клиента.
// Реализации обязаны быть потокобезопасными.
type TokenStore interface {
	Save(t StoredToken) error
	Load() (StoredToken, error)
	Clear() error
}

// MemoryStore хранит токен в памяти процесса.
type MemoryStore struct {
	mu    sync.Mutex
	token StoredToken
	set   bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(t StoredToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = t
	s.set = true
	return nil
}

func (s *MemoryStore) Load() (StoredToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return StoredToken{}, ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = StoredToken{}
	s.set = false
	return nil
}

// FileStore хранит токен в JSON-файле с правами 0600.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(t StoredToken) error {
	const op = "client.store.FileStore.Save"

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *FileStore) Load() (StoredToken, error) {
	const op = "client.store.FileStore.Load"

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return StoredToken{}, ErrNoToken
		}
		return StoredToken{}, fmt.Errorf("%s: %w", op, err)
	}

	var t StoredToken
	if err := json.Unmarshal(raw, &t); err != nil {
		return StoredToken{}, fmt.Errorf("%s: %w", op, err)
	}

	if t.AccessToken == "" {
		return StoredToken{}, ErrNoToken
	}
	return t, nil
}

func (s *FileStore) Clear() error {
	const op = "client.store.FileStore.Clear"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
