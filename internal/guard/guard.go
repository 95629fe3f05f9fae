// Package guard gates protected dashboard screens. A guarded mount starts
// Resolving, waits for the session profile, and settles into Authorized or
// Redirecting. It never fails; every failure path is a redirect.
//
// Mount models a screen that stays mounted across route or role changes.
// HTTP middleware uses the one-shot Check, since each request is a fresh
// mount.
package guard

import (
	"context"
	"fmt"
	"sync"

	"github.com/smileie/smileie-backend/internal/access"
	"github.com/smileie/smileie-backend/internal/model"
)

// State is the guard state of one mount.
type State int

const (
	StateResolving State = iota
	StateAuthorized
	StateRedirecting
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthorized:
		return "authorized"
	case StateRedirecting:
		return "redirecting"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	switch string(text) {
	case "resolving":
		*s = StateResolving
	case "authorized":
		*s = StateAuthorized
	case "redirecting":
		*s = StateRedirecting
	default:
		return fmt.Errorf("guard: unknown state %q", text)
	}
	return nil
}

// ProfileSource resolves the current session profile. *session.Provider
// satisfies it.
type ProfileSource interface {
	Resolve(ctx context.Context) (model.SessionProfile, bool)
}

// Decision is the outcome of guarding one route.
type Decision struct {
	State    State      `json:"state"`
	Route    string     `json:"route"`
	Redirect string     `json:"redirect,omitempty"`
	Role     model.Role `json:"role,omitempty"`
}

// Guard evaluates routes through an access.Evaluator.
type Guard struct {
	evaluator *access.Evaluator
}

// New creates a new Guard.
func New(evaluator *access.Evaluator) *Guard {
	return &Guard{evaluator: evaluator}
}

// Check resolves the profile and decides route in one step.
func (g *Guard) Check(ctx context.Context, route string, src ProfileSource) Decision {
	profile, ok := src.Resolve(ctx)
	return g.decide(route, profile, ok)
}

func (g *Guard) decide(route string, profile model.SessionProfile, ok bool) Decision {
	if !ok {
		return Decision{State: StateRedirecting, Route: route, Redirect: model.RouteLogin}
	}

	d := Decision{Route: route, Role: profile.Role}
	if g.evaluator.CanAccessRoute(route, profile.Role) {
		d.State = StateAuthorized
		return d
	}

	d.State = StateRedirecting
	landing := g.evaluator.LandingRoute(profile.Role)
	if !g.evaluator.CanAccessRoute(landing, profile.Role) {
		landing = model.RouteLogin
	}
	d.Redirect = landing
	return d
}

// Mount is the guard state machine for one mounted screen.
type Mount struct {
	g *Guard

	mu       sync.Mutex
	gen      int
	route    string
	src      ProfileSource
	decision Decision
}

// Mount starts guarding route in StateResolving.
func (g *Guard) Mount(route string, src ProfileSource) *Mount {
	m := &Mount{g: g}
	m.reset(route, src)
	return m
}

func (m *Mount) reset(route string, src ProfileSource) {
	m.gen++
	m.route = route
	m.src = src
	m.decision = Decision{State: StateResolving, Route: route}
}

// Run performs the Resolving transition. A mount that already settled keeps
// its decision until Remount. If ctx ends while resolving the mount redirects
// to the login screen.
func (m *Mount) Run(ctx context.Context) Decision {
	m.mu.Lock()
	if m.decision.State != StateResolving {
		d := m.decision
		m.mu.Unlock()
		return d
	}
	gen, route, src := m.gen, m.route, m.src
	m.mu.Unlock()

	d := m.g.Check(ctx, route, src)

	m.mu.Lock()
	defer m.mu.Unlock()
	// A Remount while resolving supersedes this result.
	if m.gen != gen {
		return m.decision
	}
	m.decision = d
	return d
}

// Remount restarts the machine after a route or role change.
func (m *Mount) Remount(route string, src ProfileSource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset(route, src)
}

// State returns the current state.
func (m *Mount) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decision.State
}

// Decision returns the current decision.
func (m *Mount) Decision() Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decision
}

// Render calls screen only when the mount is Authorized and reports whether
// it did.
func (m *Mount) Render(screen func()) bool {
	if m.State() != StateAuthorized {
		return false
	}
	screen()
	return true
}
