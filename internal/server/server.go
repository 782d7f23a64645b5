package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/mcoot/tictacgame-go/internal/services/auth"
	"github.com/mcoot/tictacgame-go/internal/services/lobby"
	"github.com/mcoot/tictacgame-go/internal/services/session"
	"github.com/mcoot/tictacgame-go/internal/wire"
)

// Config holds configuration for the TCP game server
type Config struct {
	Host string
	Port int
}

// DefaultConfig returns sensible defaults for server configuration
func DefaultConfig() Config {
	return Config{
		Host: "",
		Port: 5050,
	}
}

// Server accepts game connections and runs one handler goroutine per
// client for the lifetime of its connection
type Server struct {
	config   Config
	auth     *auth.Service
	sessions *session.Registry
	lobbies  *lobby.Registry
	logger   *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[*wire.Conn]struct{}
	closed   bool

	wg sync.WaitGroup
}

// NewServer creates a new game server
func NewServer(
	config Config,
	auth *auth.Service,
	sessions *session.Registry,
	lobbies *lobby.Registry,
	logger *slog.Logger,
) *Server {
	return &Server{
		config:   config,
		auth:     auth,
		sessions: sessions,
		lobbies:  lobbies,
		logger:   logger,
		conns:    make(map[*wire.Conn]struct{}),
	}
}

// Start listens and serves until Shutdown is called. It blocks for the
// server's lifetime, like http.Server.ListenAndServe.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen error: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("starting game server", slog.String("addr", listener.Addr().String()))

	for {
		nc, err := listener.Accept()
		if err != nil {
			if s.isClosed() {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}
		s.serve(ctx, nc)
	}
}

func (s *Server) serve(ctx context.Context, nc net.Conn) {
	conn := wire.New(nc)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = conn.Close()
		return
	}
	s.conns[conn] = struct{}{}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
		}()
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in connection handler",
					slog.Any("panic", r),
					slog.String("remote_addr", conn.RemoteAddr()),
				)
				_ = conn.Close()
			}
		}()

		s.logger.Info("client connected", slog.String("remote_addr", conn.RemoteAddr()))
		NewHandler(conn, s.auth, s.sessions, s.lobbies, s.logger).Run(ctx)
		s.logger.Info("client disconnected", slog.String("remote_addr", conn.RemoteAddr()))
	}()
}

// Addr returns the bound listen address, useful when Port was 0.
// Empty until Start has bound the listener.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Shutdown stops accepting new connections, closes the live ones, and
// waits for their handlers to finish
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down game server")

	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("game server stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown error: %w", ctx.Err())
	}
}
