package net

import (
	"context"
	stdnet "net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Server accepts WebSocket connections from lobby servers and hands each
// session to the connection callback on its own goroutine.
type Server struct {
	httpSrv  *http.Server
	lnMu     sync.Mutex
	ln       stdnet.Listener
	upgrader websocket.Upgrader
	nextID   atomic.Uint64
	handle   func(*Session)
	log      *zap.Logger
}

func NewServer(bindAddr string, handle func(*Session), log *zap.Logger) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Lobby servers are backend peers, not browsers.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		handle: handle,
		log:    log,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleUpgrade)
	s.httpSrv = &http.Server{Addr: bindAddr, Handler: mux}
	return s
}

// ListenAndServe blocks serving upgrades. A bind failure here is the
// only fatal startup error in the process.
func (s *Server) ListenAndServe() error {
	ln, err := stdnet.Listen("tcp", s.httpSrv.Addr)
	if err != nil {
		return err
	}
	s.lnMu.Lock()
	s.ln = ln
	s.lnMu.Unlock()
	return s.httpSrv.Serve(ln)
}

// Addr returns the bound listen address, nil before ListenAndServe.
func (s *Server) Addr() stdnet.Addr {
	s.lnMu.Lock()
	defer s.lnMu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown stops accepting new connections.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleUpgrade(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed",
			zap.String("addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	id := s.nextID.Add(1)
	sess := NewSession(ws, id, s.log)
	s.log.Info("lobby server connected",
		zap.Uint64("session", id),
		zap.String("addr", sess.Addr()),
	)

	go sess.writeLoop()
	go s.handle(sess)
}
