package packet

import (
	"fmt"

	"go.uber.org/zap"
)

// HandlerFunc is the callback signature for message handlers.
// The session pointer is passed as an opaque interface to avoid import cycles.
type HandlerFunc func(sess any, m Message)

// Registry maps message types to handlers.
type Registry struct {
	handlers map[MessageType]HandlerFunc
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[MessageType]HandlerFunc),
		log:      log,
	}
}

// Register maps a message type to a handler.
func (reg *Registry) Register(t MessageType, fn HandlerFunc) {
	reg.handlers[t] = fn
}

// Dispatch finds the handler for the message type and calls it. Messages
// with no handler (a client echoing back server-bound types) are logged
// and dropped without a reply.
func (reg *Registry) Dispatch(sess any, m Message) error {
	reg.log.Debug("message received", zap.Stringer("type", m.Type()))

	fn, ok := reg.handlers[m.Type()]
	if !ok {
		reg.log.Warn("no handler for message type", zap.Stringer("type", m.Type()))
		return nil
	}
	return reg.safeCall(fn, sess, m)
}

// safeCall executes a handler with panic recovery so a single bad frame
// cannot take down the session goroutine.
func (reg *Registry) safeCall(fn HandlerFunc, sess any, m Message) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			reg.log.Error("handler panic recovered",
				zap.Stringer("type", m.Type()),
				zap.Any("panic", rec),
			)
			err = fmt.Errorf("handler panic for %s: %v", m.Type(), rec)
		}
	}()
	fn(sess, m)
	return nil
}
