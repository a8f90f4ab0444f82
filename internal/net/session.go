package net

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeTimeout = 10 * time.Second

// ErrSessionClosed is returned by Send after the session shut down.
var ErrSessionClosed = fmt.Errorf("session closed")

// Session represents a single connected lobby server. Frame reads run on
// the connection goroutine; writes drain through a dedicated goroutine.
// The outgoing queue is unbounded and FIFO, so enqueue order is delivery
// order for one session.
type Session struct {
	ID   uint64
	conn *websocket.Conn
	addr string

	// PeriodCh carries state-feedback period changes to the feedback
	// timer. Capacity 1 with try-send semantics: the newest value wins.
	PeriodCh chan time.Duration

	mu     sync.Mutex // guards out and closed
	cond   *sync.Cond
	out    []string
	closed bool

	closeCh   chan struct{}
	closeOnce sync.Once

	log *zap.Logger
}

func NewSession(conn *websocket.Conn, id uint64, log *zap.Logger) *Session {
	s := &Session{
		ID:       id,
		conn:     conn,
		addr:     conn.RemoteAddr().String(),
		PeriodCh: make(chan time.Duration, 1),
		closeCh:  make(chan struct{}),
		log:      log.With(zap.Uint64("session", id)),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Addr returns the transport-level peer identifier.
func (s *Session) Addr() string {
	return s.addr
}

// Done is closed when the session shuts down.
func (s *Session) Done() <-chan struct{} {
	return s.closeCh
}

// ReadText returns the next text frame. A binary frame is a protocol
// violation the reader cannot re-synchronize from, so it fails the read
// and the caller tears the session down.
func (s *Session) ReadText() (string, error) {
	mt, data, err := s.conn.ReadMessage()
	if err != nil {
		return "", err
	}
	if mt != websocket.TextMessage {
		return "", fmt.Errorf("non-text frame (type %d)", mt)
	}
	return string(data), nil
}

// Send queues one frame for delivery. Returns ErrSessionClosed when the
// session already shut down; the frame is dropped in that case.
func (s *Session) Send(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.out = append(s.out, frame)
	s.cond.Signal()
	return nil
}

// Close shuts the session down. Idempotent; wakes the writer so it can
// drain and exit.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		close(s.closeCh)
		s.cond.Broadcast()
		s.conn.Close()
	})
}

// writeLoop runs in its own goroutine. It drains the outgoing queue in
// batches and writes each frame as a WebSocket text message.
func (s *Session) writeLoop() {
	defer s.Close()

	for {
		s.mu.Lock()
		for len(s.out) == 0 && !s.closed {
			s.cond.Wait()
		}
		if len(s.out) == 0 && s.closed {
			s.mu.Unlock()
			return
		}
		batch := s.out
		s.out = nil
		s.mu.Unlock()

		for _, frame := range batch {
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				s.log.Debug("write failed", zap.Error(err))
				return
			}
		}
	}
}
