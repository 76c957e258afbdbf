package transport

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/almanac-dev/almanac/internal/common/apperrors"
)

// Processor is the collaborator that turns decoded messages into encoded
// replies. It is called from a single goroutine, strictly in stream order,
// and must produce exactly one reply for every id-bearing message and nil
// for notifications. FIFO correlation depends on that contract.
type Processor interface {
	Process(ctx context.Context, msg json.RawMessage) json.RawMessage
}

// Options configures a Service.
type Options struct {
	MaxPending  int           // outstanding-request cap; 0 means unbounded
	IdleTimeout time.Duration // per-request wait timeout; 0 disables it
}

// Service wires the session, registry, and stream together and owns the
// single consumer goroutine feeding the processor.
type Service struct {
	session     *Session
	registry    *Registry
	stream      *Stream
	processor   Processor
	idleTimeout time.Duration

	// submitMu makes register+publish one atomic step relative to other
	// submissions and to Close, so waiter order always equals publish order.
	submitMu sync.Mutex
	wg       sync.WaitGroup
}

// NewService creates a service around the given processor.
func NewService(processor Processor, opts Options) *Service {
	session := NewSession()
	return &Service{
		session:     session,
		registry:    NewRegistry(session, opts.MaxPending),
		stream:      NewStream(),
		processor:   processor,
		idleTimeout: opts.IdleTimeout,
	}
}

// Session returns the session owned by this service.
func (s *Service) Session() *Session {
	return s.session
}

// PendingCount returns the number of requests awaiting replies.
func (s *Service) PendingCount() int {
	return s.registry.PendingCount()
}

// Start launches the consumer goroutine. It reads the stream one message at
// a time, invokes the processor, and delivers every non-nil reply to the
// oldest unresolved waiter. The goroutine exits when the stream is finished
// and drained.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			msg, ok := s.stream.Next()
			if !ok {
				return
			}
			reply := s.processor.Process(ctx, msg.Raw)
			if reply == nil {
				continue
			}
			if !msg.HasID {
				log.Warn().
					Str("session_id", s.session.ID()).
					Msg("processor produced a reply for a notification; dropping")
				continue
			}
			s.registry.Deliver(reply)
		}
	}()
}

// SubmitRequest registers a waiter and publishes the message as one atomic
// step. On a publish failure the waiter is withdrawn so no orphaned queue
// entry remains. The caller blocks on the returned waiter for the reply.
func (s *Service) SubmitRequest(raw json.RawMessage) (*Waiter, apperrors.Error) {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	w, err := s.registry.Register()
	if err != nil {
		return nil, err
	}
	if perr := s.stream.Publish(Message{HasID: true, Raw: raw}); perr != nil {
		s.registry.Withdraw(w)
		return nil, ErrSessionClosed
	}
	return w, nil
}

// SubmitNotification publishes a message that expects no reply. The caller
// never blocks on the registry.
func (s *Service) SubmitNotification(raw json.RawMessage) apperrors.Error {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	if err := s.stream.Publish(Message{HasID: false, Raw: raw}); err != nil {
		return ErrSessionClosed
	}
	return nil
}

// Close terminates the session: closing begins, the stream is finished, all
// pending waiters are cancelled, and the session is finalized. Returns false
// when closing had already begun; the second call is a no-op.
func (s *Service) Close() bool {
	s.submitMu.Lock()
	defer s.submitMu.Unlock()
	if !s.session.BeginClose() {
		return false
	}
	s.stream.Finish()
	s.registry.CancelAll(ErrSessionTerminated)
	s.session.Finalize()
	log.Info().Str("session_id", s.session.ID()).Msg("session closed")
	return true
}

// Shutdown closes the session and waits for the consumer goroutine to drain,
// bounded by ctx.
func (s *Service) Shutdown(ctx context.Context) error {
	s.Close()
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// idleContext derives the wait context for one request from the configured
// idle timeout. The cancel func must always be called.
func (s *Service) idleContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.idleTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.idleTimeout)
}
