package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"iticket-storefront/internal/models"
)

// Fixed storage keys. recordFile holds the structured session record;
// legacyTokenFile is the old bare-token representation that gets migrated
// into the record once at startup and then deleted.
const (
	recordFile      = "auth-storage.json"
	legacyTokenFile = "accessToken"
)

// Record is the single persisted representation of the session.
type Record struct {
	AccessToken string       `json:"accessToken"`
	User        *models.User `json:"user,omitempty"`
}

// Storage persists the session record across restarts.
type Storage interface {
	Load() (*Record, bool, error)
	Save(record *Record) error
	Delete() error

	// LoadLegacyToken reads the old bare-token key, if present.
	LoadLegacyToken() (string, bool, error)
	DeleteLegacyToken() error
}

// FileStorage keeps the session record in a JSON file under a state
// directory, the durable-storage analog of the browser's localStorage.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a file-backed storage rooted at dir. The
// directory is created on first save, not here.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (s *FileStorage) Load() (*Record, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, recordFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read session record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		// Corrupted record is treated as absent rather than fatal
		return nil, false, nil
	}
	return &record, true, nil
}

func (s *FileStorage) Save(record *Record) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal session record: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, recordFile), data, 0o600); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}
	return nil
}

func (s *FileStorage) Delete() error {
	err := os.Remove(filepath.Join(s.dir, recordFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

func (s *FileStorage) LoadLegacyToken() (string, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, legacyTokenFile))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read legacy token: %w", err)
	}
	return string(data), true, nil
}

func (s *FileStorage) DeleteLegacyToken() error {
	err := os.Remove(filepath.Join(s.dir, legacyTokenFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete legacy token: %w", err)
	}
	return nil
}

// MemoryStorage is an in-memory Storage for tests.
type MemoryStorage struct {
	record      *Record
	legacyToken string
	hasLegacy   bool
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// SetLegacyToken seeds the legacy bare-token key (for migration tests).
func (s *MemoryStorage) SetLegacyToken(token string) {
	s.legacyToken = token
	s.hasLegacy = true
}

func (s *MemoryStorage) Load() (*Record, bool, error) {
	if s.record == nil {
		return nil, false, nil
	}
	copied := *s.record
	return &copied, true, nil
}

func (s *MemoryStorage) Save(record *Record) error {
	copied := *record
	s.record = &copied
	return nil
}

func (s *MemoryStorage) Delete() error {
	s.record = nil
	return nil
}

func (s *MemoryStorage) LoadLegacyToken() (string, bool, error) {
	return s.legacyToken, s.hasLegacy, nil
}

func (s *MemoryStorage) DeleteLegacyToken() error {
	s.legacyToken = ""
	s.hasLegacy = false
	return nil
}
