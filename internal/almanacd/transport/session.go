// Package transport implements the correlation layer of the almanac MCP
// endpoint: it terminates HTTP calls carrying JSON-RPC messages, feeds them
// to a single sequential message processor as one ordered stream, and routes
// each reply back to the exact caller waiting for it.
package transport

import (
	"sync"

	"github.com/almanac-dev/almanac/internal/common/uuid"
)

// SessionState describes the lifecycle of a session.
type SessionState int

const (
	// SessionOpen accepts new requests and notifications.
	SessionOpen SessionState = iota
	// SessionClosing rejects new registrations while pending waiters drain.
	SessionClosing
	// SessionClosed is terminal.
	SessionClosed
)

// String returns the state name for logging.
func (s SessionState) String() string {
	switch s {
	case SessionOpen:
		return "open"
	case SessionClosing:
		return "closing"
	case SessionClosed:
		return "closed"
	}
	return "unknown"
}

// Session owns the session identifier and the open/closing/closed state
// machine. The identifier is generated once and stays stable for the
// lifetime of the conversation; it is echoed on every correlated reply so
// callers can detect a stale session.
type Session struct {
	id    uuid.UUID
	mu    sync.Mutex
	state SessionState
}

// NewSession creates an open session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		id:    uuid.New(),
		state: SessionOpen,
	}
}

// ID returns the stable session identifier.
func (s *Session) ID() string {
	return s.id.String()
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BeginClose transitions Open to Closing. Returns false if closing has
// already begun, so repeated termination calls are no-ops.
func (s *Session) BeginClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionOpen {
		return false
	}
	s.state = SessionClosing
	return true
}

// Finalize transitions Closing to Closed once pending waiters are resolved
// and the inbound stream is finished. Terminal; returns false if the session
// was not in the Closing state.
func (s *Session) Finalize() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionClosing {
		return false
	}
	s.state = SessionClosed
	return true
}
