package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrInvalidRole = errors.New("session profile has unknown role")
	ErrClosed      = errors.New("session provider closed")
	ErrNoSessionID = errors.New("session id required")
)

// Manager builds Providers that share one Store.
type Manager struct {
	store Store
	ttl   time.Duration
	log   zerolog.Logger
}

// NewManager creates a new Manager. ttl bounds how long a persisted blob lives.
func NewManager(store Store, ttl time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		log:   log.With().Str("component", "session").Logger(),
	}
}

// NewSessionID returns a fresh random session identifier.
func (m *Manager) NewSessionID() string {
	return uuid.New().String()
}

// NewProvider returns an unresolved Provider for sessionID.
func (m *Manager) NewProvider(sessionID string) *Provider {
	return newProvider(m.store, sessionID, m.ttl, m.log)
}
