package session

import (
	"fmt"
	"sync"

	"iticket-storefront/internal/models"
)

// State is the lifecycle phase of the session store.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// IsValidToken is the single authoritative token predicate. Storage can
// hand back garbage after a bad write ("undefined"/"null" literals), so
// those are rejected alongside the empty string.
func IsValidToken(token string) bool {
	return token != "" && token != "undefined" && token != "null"
}

// Store is the single source of truth for "am I logged in". It is
// constructed once at startup and passed by reference to consumers;
// every mutation is written through to durable storage.
type Store struct {
	mu          sync.RWMutex
	state       State
	accessToken string
	user        *models.User
	storage     Storage
}

// NewStore creates a store in the Uninitialized state. Call Initialize
// before first use.
func NewStore(storage Storage) *Store {
	return &Store{
		state:   StateUninitialized,
		storage: storage,
	}
}

// Initialize reconciles durable storage into the store. Idempotent: the
// second and later calls are no-ops. If only the legacy bare-token key
// exists it is migrated into the structured record and then removed, so
// exactly one persisted representation survives startup.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return nil
	}
	s.state = StateInitializing

	record, found, err := s.storage.Load()
	if err != nil {
		s.state = StateUnauthenticated
		return fmt.Errorf("failed to load session record: %w", err)
	}

	if !found {
		record, err = s.migrateLegacyToken()
		if err != nil {
			s.state = StateUnauthenticated
			return err
		}
	}

	if record != nil && IsValidToken(record.AccessToken) {
		s.accessToken = record.AccessToken
		s.user = record.User
		s.state = StateAuthenticated
	} else {
		s.state = StateUnauthenticated
	}
	return nil
}

// migrateLegacyToken folds the old bare-token key into a structured
// record. Called once, under the store lock, during Initialize.
func (s *Store) migrateLegacyToken() (*Record, error) {
	token, found, err := s.storage.LoadLegacyToken()
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy token: %w", err)
	}
	if !found {
		return nil, nil
	}

	var record *Record
	if IsValidToken(token) {
		record = &Record{AccessToken: token}
		if err := s.storage.Save(record); err != nil {
			return nil, fmt.Errorf("failed to migrate legacy token: %w", err)
		}
	}

	if err := s.storage.DeleteLegacyToken(); err != nil {
		return nil, fmt.Errorf("failed to remove legacy token: %w", err)
	}
	return record, nil
}

// SetToken stores the token (and user, if given) in memory and durable
// storage. A nil user keeps the previously known profile, matching login
// responses that omit it.
func (s *Store) SetToken(token string, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = token
	if user != nil {
		s.user = user
	}
	s.state = StateAuthenticated
	if !IsValidToken(token) {
		// Stored as-is; the predicate rejects it at read time
		s.state = StateUnauthenticated
	}

	if err := s.storage.Save(&Record{AccessToken: token, User: s.user}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Clear removes the token and user from memory and durable storage.
// Idempotent: safe to call when already logged out.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = ""
	s.user = nil
	if s.state != StateUninitialized {
		s.state = StateUnauthenticated
	}

	if err := s.storage.Delete(); err != nil {
		return fmt.Errorf("failed to clear persisted session: %w", err)
	}
	return nil
}

// Current returns the access token and user profile.
func (s *Store) Current() (string, *models.User) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.user
}

// Token returns the access token if it passes the validity predicate,
// otherwise the empty string.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !IsValidToken(s.accessToken) {
		return ""
	}
	return s.accessToken
}

// IsAuthenticated reports whether the current token passes the validity
// predicate. This is the only "am I logged in" computation in the app.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return IsValidToken(s.accessToken)
}

// CurrentState returns the lifecycle state (for the route guard's
// "checking authentication" placeholder and for tests).
func (s *Store) CurrentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}
