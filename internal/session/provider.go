// Package session resolves the current dashboard user from the persisted
// session blob and holds it in memory for the rest of the session.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/smileie/smileie-backend/internal/config"
	"github.com/smileie/smileie-backend/internal/model"
)

// State is the resolution state of a Provider.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateResolved
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateResolved:
		return "resolved"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// EventType names a session lifecycle event published on the session channel.
type EventType string

const EventLogout EventType = "logout"

// Event is the payload published on a session's event channel.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

// Provider is the single source of truth for one session's profile.
// The store is read at most once; afterwards reads are served from memory.
// Login and Logout are the only writers.
type Provider struct {
	store     Store
	sessionID string
	ttl       time.Duration
	log       zerolog.Logger

	initOnce sync.Once
	ready    chan struct{}

	mu      sync.RWMutex
	state   State
	profile *model.SessionProfile
}

func newProvider(store Store, sessionID string, ttl time.Duration, log zerolog.Logger) *Provider {
	return &Provider{
		store:     store,
		sessionID: sessionID,
		ttl:       ttl,
		log:       log.With().Str("session_id", sessionID).Logger(),
		ready:     make(chan struct{}),
	}
}

// SessionID returns the key the provider resolves.
func (p *Provider) SessionID() string {
	return p.sessionID
}

// Init starts resolution. Only the first call has an effect; resolution runs
// on its own goroutine so callers see StateResolving until it settles.
func (p *Provider) Init(ctx context.Context) {
	p.initOnce.Do(func() {
		p.mu.Lock()
		if p.state == StateIdle {
			p.state = StateResolving
		}
		p.mu.Unlock()
		go p.resolve(ctx)
	})
}

func (p *Provider) resolve(ctx context.Context) {
	defer close(p.ready)

	profile := p.load(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateClosed {
		return
	}
	p.profile = profile
	p.state = StateResolved
}

// load never fails: a missing, unreadable or malformed blob means "not logged in".
func (p *Provider) load(ctx context.Context) *model.SessionProfile {
	if p.sessionID == "" {
		return nil
	}

	blob, err := p.store.Load(ctx, config.CacheKey.SessionKey(p.sessionID))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			p.log.Warn().Err(err).Msg("Session blob unreadable, treating as logged out")
		}
		return nil
	}

	var profile model.SessionProfile
	if err := json.Unmarshal(blob, &profile); err != nil {
		p.log.Debug().Err(err).Msg("Malformed session blob")
		return nil
	}
	if !profile.Role.Valid() {
		p.log.Debug().Str("role", string(profile.Role)).Msg("Session blob carries unknown role")
		return nil
	}
	return &profile
}

// State returns the current resolution state.
func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Ready is closed once resolution has settled.
func (p *Provider) Ready() <-chan struct{} {
	return p.ready
}

// Resolve starts resolution if needed and waits for it. It returns false if
// there is no session or ctx ends first.
func (p *Provider) Resolve(ctx context.Context) (model.SessionProfile, bool) {
	p.Init(ctx)
	select {
	case <-p.ready:
		return p.Profile()
	default:
	}
	select {
	case <-p.ready:
	case <-ctx.Done():
		return model.SessionProfile{}, false
	}
	return p.Profile()
}

// Profile is the synchronous in-memory read. It never touches the store.
func (p *Provider) Profile() (model.SessionProfile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.profile == nil {
		return model.SessionProfile{}, false
	}
	return *p.profile, true
}

// Login persists profile and then makes it the in-memory value.
func (p *Provider) Login(ctx context.Context, profile model.SessionProfile) error {
	if p.sessionID == "" {
		return ErrNoSessionID
	}
	if !profile.Role.Valid() {
		return ErrInvalidRole
	}
	if err := p.settle(ctx); err != nil {
		return err
	}

	blob, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	if err := p.store.Save(ctx, config.CacheKey.SessionKey(p.sessionID), blob, p.ttl); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == StateClosed {
		return ErrClosed
	}
	p.profile = &profile
	return nil
}

// Logout removes the persisted blob and the in-memory profile. Both are gone
// before Logout returns; the logout event is published afterwards.
func (p *Provider) Logout(ctx context.Context) error {
	if err := p.settle(ctx); err != nil {
		return err
	}

	if err := p.store.Delete(ctx, config.CacheKey.SessionKey(p.sessionID)); err != nil {
		return err
	}

	p.mu.Lock()
	p.profile = nil
	p.mu.Unlock()

	payload, _ := json.Marshal(Event{Type: EventLogout, SessionID: p.sessionID, At: time.Now().UTC()})
	if err := p.store.Publish(ctx, config.CacheKey.SessionEventsChannel(p.sessionID), payload); err != nil {
		p.log.Warn().Err(err).Msg("Failed to publish logout event")
	}
	return nil
}

// Close tears the provider down. Later reads report no session; the
// persisted blob is left untouched.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = StateClosed
	p.profile = nil
}

// settle waits for the initial read so a writer never races it.
func (p *Provider) settle(ctx context.Context) error {
	p.Init(ctx)
	select {
	case <-p.ready:
	default:
		select {
		case <-p.ready:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if p.State() == StateClosed {
		return ErrClosed
	}
	return nil
}
