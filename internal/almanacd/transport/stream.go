package transport

import (
	"encoding/json"
	"sync"
)

// Message is one decoded inbound envelope headed for the processor.
type Message struct {
	HasID bool            // caller supplied a correlation id
	Raw   json.RawMessage // encoded JSON-RPC message
}

// Stream presents many independently-arriving HTTP request bodies as one
// ordered logical stream. Publishes are serialized by the stream mutex, so
// the order in which Publish calls complete is the order the consumer sees;
// that ordering is what makes FIFO correlation in the registry valid.
type Stream struct {
	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Message
	finished bool
}

// NewStream creates an empty, unfinished stream.
func NewStream() *Stream {
	s := &Stream{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Publish appends a message to the stream. Fails once the stream is finished.
func (s *Stream) Publish(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return ErrStreamFinished
	}
	s.queue = append(s.queue, msg)
	s.cond.Signal()
	return nil
}

// Finish marks the stream exhausted. Queued messages remain consumable;
// further Publish calls fail. Idempotent.
func (s *Stream) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	s.cond.Broadcast()
}

// Next blocks until a message is available or the stream is finished and
// drained. The second return value is false once no more messages will
// arrive. Intended for a single consumer.
func (s *Stream) Next() (Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && !s.finished {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return Message{}, false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]
	return msg, true
}

// Finished reports whether the stream has been marked exhausted.
func (s *Stream) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}
