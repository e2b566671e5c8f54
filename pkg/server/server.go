package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vango-dev/formkit/pkg/form"
	"github.com/vango-dev/formkit/pkg/protocol"
)

// Builder creates the form served to one client. The server passes the
// options it needs (scroller, logger); Builders must apply them.
type Builder func(ctx context.Context, opts ...form.Option) (*form.Form, error)

// Server is the HTTP/WebSocket server for forms.
type Server struct {
	config *Config
	build  Builder
	router chi.Router

	// WebSocket upgrader
	upgrader websocket.Upgrader

	// Message sanitizer
	policy *bluemonday.Policy

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup

	// HTTP server
	httpServer *http.Server

	logger *slog.Logger
}

// New creates a new Server serving forms created by build. A nil config
// uses DefaultConfig.
func New(build Builder, config *Config) *Server {
	if build == nil {
		panic("server: nil Builder")
	}
	config = config.withDefaults()

	s := &Server{
		config: config,
		build:  build,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		policy:   bluemonday.StrictPolicy(),
		sessions: make(map[string]*Session),
		logger:   config.Logger.With("component", "server"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Post("/validate", s.handleValidate)
	r.Get("/ws", s.HandleWebSocket)
	s.router = r

	return s
}

// Mount attaches an extra handler, such as a metrics endpoint.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Handle(pattern, h)
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HandleWebSocket upgrades the request and runs a session until the
// connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	sess := newSession(conn, s.config, s.policy, s.logger)
	f, err := s.build(r.Context(),
		form.WithScroller(sess),
		form.WithLogger(sess.logger),
	)
	if err != nil {
		s.logger.Error("form build failed", "error", err)
		sess.sendError(protocol.ErrServerError, "form unavailable", true)
		sess.Close()
		return
	}
	sess.form = f

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.wg.Add(1)
	s.config.Observer.SessionOpened()
	sess.logger.Info("session started", "remote", r.RemoteAddr)

	go sess.WriteLoop()
	go func() {
		defer s.wg.Done()
		sess.ReadLoop()

		s.mu.Lock()
		delete(s.sessions, sess.ID)
		s.mu.Unlock()
		s.config.Observer.SessionClosed()
		sess.logger.Info("session ended")
	}()
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run starts the server and blocks until ctx is done or the listener
// fails. A cancelled ctx shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		ReadTimeout:       s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes all sessions and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	// Hijacked connections are not tracked by http.Server.
	s.mu.Lock()
	for _, sess := range s.sessions {
		sess.Close()
	}
	s.mu.Unlock()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Config returns the server configuration.
func (s *Server) Config() *Config {
	return s.config
}

// Logger returns the server logger.
func (s *Server) Logger() *slog.Logger {
	return s.logger
}

// sinceMillis is the Unix millisecond clock used in heartbeats.
func sinceMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}
