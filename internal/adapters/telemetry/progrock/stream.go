package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

// Stream is a progrock.Writer whose updates can be read back in write order.
// Read blocks until an update is available and returns io.EOF once the stream
// is closed and drained.
type Stream struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending []*progrock.StatusUpdate
	closed  bool
}

var _ progrock.Writer = (*Stream)(nil)

// NewStream creates an open Stream.
func NewStream() *Stream {
	s := &Stream{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// WriteStatus queues an update.
func (s *Stream) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return io.ErrClosedPipe
	}
	s.pending = append(s.pending, update)
	s.cond.Signal()
	return nil
}

// Read returns the oldest queued update.
func (s *Stream) Read() (*progrock.StatusUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.pending) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.pending) == 0 {
		return nil, io.EOF
	}
	update := s.pending[0]
	s.pending[0] = nil
	s.pending = s.pending[1:]
	return update, nil
}

// Close ends the stream. Queued updates remain readable.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cond.Broadcast()
	return nil
}
