package transport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, SessionOpen, s.State())

	// closing begins exactly once
	assert.True(t, s.BeginClose())
	assert.Equal(t, SessionClosing, s.State())
	assert.False(t, s.BeginClose())

	assert.True(t, s.Finalize())
	assert.Equal(t, SessionClosed, s.State())
	assert.False(t, s.Finalize())
	assert.False(t, s.BeginClose())
}

func TestSessionIDStable(t *testing.T) {
	s := NewSession()
	id := s.ID()
	s.BeginClose()
	s.Finalize()
	assert.Equal(t, id, s.ID())

	other := NewSession()
	assert.NotEqual(t, id, other.ID())
}

func TestSessionStateString(t *testing.T) {
	assert.Equal(t, "open", SessionOpen.String())
	assert.Equal(t, "closing", SessionClosing.String())
	assert.Equal(t, "closed", SessionClosed.String())
}
