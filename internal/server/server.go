// Package server serves blackjack over WebSockets. Every connection plays
// its own private table.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/lox/blackjack/blackjack"
	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/randutil"
)

// Server represents the WebSocket server
type Server struct {
	cfg         *config.Config
	idleTimeout time.Duration
	upgrader    websocket.Upgrader
	logger      *log.Logger
	clock       quartz.Clock
	seed        *int64

	mu          sync.RWMutex
	connections map[string]*Connection
	sessions    int
}

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for idle timeouts
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithSeed makes every session's shoe reproducible. Session n is seeded
// from the n-th stream of seed.
func WithSeed(seed int64) Option {
	return func(s *Server) {
		s.seed = &seed
	}
}

// NewServer creates a new WebSocket server. cfg must already be validated.
func NewServer(cfg *config.Config, logger *log.Logger, opts ...Option) (*Server, error) {
	idle, err := cfg.Server.Timeout()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		cfg:         cfg,
		idleTimeout: idle,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("server"),
		clock:       quartz.NewReal(),
		connections: make(map[string]*Connection),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", s.handleHealth)
	r.Get("/tables", s.handleTables)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/ws/{table}", s.handleWebSocket)
	return r
}

// Start listens on the configured address until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ServerAddress(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", srv.Addr, "tables", len(s.cfg.Tables))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Stop()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop closes every open connection
func (s *Server) Stop() {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.connections))
	for _, c := range s.connections {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Close()
	}
}

// ActiveSessions returns the number of open connections
func (s *Server) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "table")
	if name == "" {
		name = s.cfg.Tables[0].Name
	}
	table, ok := s.cfg.Table(name)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown table %q", name), http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	session := NewSession(table, s.logger, s.gameOptions()...)
	client := NewConnection(conn, session, s.logger, s.clock, s.idleTimeout)

	s.mu.Lock()
	s.connections[session.ID] = client
	s.mu.Unlock()
	s.logger.Info("Client connected", "session", session.ID, "table", table.Name, "total", s.ActiveSessions())

	client.Start()
	go func() {
		<-client.Done()
		s.mu.Lock()
		delete(s.connections, session.ID)
		s.mu.Unlock()
		s.logger.Info("Client disconnected", "session", session.ID, "bankroll", session.Game().Bankroll())
	}()
}

func (s *Server) gameOptions() []blackjack.Option {
	s.mu.Lock()
	n := s.sessions
	s.sessions++
	s.mu.Unlock()

	if s.seed == nil {
		return nil
	}
	return []blackjack.Option{blackjack.WithRNG(randutil.New(randutil.Derive(*s.seed, n)))}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"ok": true, "sessions": s.ActiveSessions()})
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.cfg.Tables)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
