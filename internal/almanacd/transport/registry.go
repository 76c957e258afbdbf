package transport

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
)

// resolution is the single value a waiter is resolved with: either a reply
// payload or a cancellation error, never both.
type resolution struct {
	payload json.RawMessage
	err     apperrors.Error
}

// Waiter represents one HTTP call blocked for a reply. Its queue position is
// fixed at registration and the one-shot channel makes resolving it twice
// structurally impossible.
type Waiter struct {
	seq  uint64
	done chan resolution // buffered; receives exactly one resolution
}

// Await suspends the caller until the waiter is resolved with a reply or a
// cancellation, or until ctx expires. A ctx expiry abandons the wait without
// disturbing the queue: the waiter keeps its slot so the eventual reply is
// still consumed in order, just dropped.
func (w *Waiter) Await(ctx context.Context) (json.RawMessage, apperrors.Error) {
	select {
	case res := <-w.done:
		return res.payload, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrWaitTimeout
		}
		return nil, ErrWaitAborted
	}
}

// Registry pairs each reply produced by the message processor with the
// oldest unresolved waiter. The pairing is FIFO because the processor is
// guaranteed to reply in exactly the order it received id-bearing messages;
// the public contract (Register/Deliver/CancelAll) does not expose that
// choice, so the internal strategy could be swapped for an id-keyed map
// without touching callers.
type Registry struct {
	session *Session

	mu         sync.Mutex
	queue      []*Waiter
	nextSeq    uint64
	maxPending int // 0 means unbounded
	cancelled  bool
}

// NewRegistry creates a registry bound to the given session. maxPending
// caps outstanding waiters; zero means unbounded.
func NewRegistry(session *Session, maxPending int) *Registry {
	return &Registry{
		session:    session,
		maxPending: maxPending,
	}
}

// Register allocates a new waiter at the tail of the queue. Fails once the
// session is Closing or Closed, or when the pending cap is reached.
func (r *Registry) Register() (*Waiter, apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancelled || r.session.State() != SessionOpen {
		return nil, ErrSessionClosed
	}
	if r.maxPending > 0 && len(r.queue) >= r.maxPending {
		return nil, ErrTooManyPending
	}
	r.nextSeq++
	w := &Waiter{
		seq:  r.nextSeq,
		done: make(chan resolution, 1),
	}
	r.queue = append(r.queue, w)
	return w, nil
}

// Withdraw removes a waiter that was registered but whose message never made
// it into the stream, so the queue does not hold a slot for a reply that will
// never come. No-op if the waiter was already resolved.
func (r *Registry) Withdraw(w *Waiter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, q := range r.queue {
		if q == w {
			r.queue = append(r.queue[:i], r.queue[i+1:]...)
			return
		}
	}
}

// Deliver resolves the head of the queue with the reply payload. A delivery
// with no waiter queued indicates a protocol violation upstream (more replies
// than outstanding requests); it is logged and dropped rather than crashing.
func (r *Registry) Deliver(payload json.RawMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		log.Warn().
			Str("session_id", r.session.ID()).
			Msg("reply delivered with no pending request; dropping")
		return
	}
	w := r.queue[0]
	r.queue = r.queue[1:]
	w.done <- resolution{payload: payload}
}

// CancelAll resolves every queued waiter with the given cancellation error
// and empties the queue. Called once by the session lifecycle when closing
// begins; registrations are rejected from then on.
func (r *Registry) CancelAll(reason apperrors.Error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelled = true
	for _, w := range r.queue {
		w.done <- resolution{err: reason}
	}
	if n := len(r.queue); n > 0 {
		log.Info().
			Str("session_id", r.session.ID()).
			Int("cancelled", n).
			Msg("cancelled pending requests")
	}
	r.queue = nil
}

// PendingCount returns the number of unresolved waiters.
func (r *Registry) PendingCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queue)
}
