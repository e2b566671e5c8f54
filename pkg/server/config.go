package server

import (
	"log/slog"
	"net/http"
	"time"
)

// Observer is notified of session lifecycle and rejected frames.
// *middleware.Metrics implements it.
type Observer interface {
	SessionOpened()
	SessionClosed()
	FrameRejected(kind string)
}

type nopObserver struct{}

func (nopObserver) SessionOpened()       {}
func (nopObserver) SessionClosed()       {}
func (nopObserver) FrameRejected(string) {}

// Config holds configuration for the HTTP/WebSocket server.
type Config struct {
	// Address is the address to listen on (e.g., ":8080" or "localhost:3000").
	// Default: ":8080".
	Address string

	// ReadTimeout and WriteTimeout bound plain HTTP requests.
	// Default: 10 seconds.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ReadHeaderTimeout bounds reading request headers.
	// Default: 5 seconds.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 30 seconds.
	ShutdownTimeout time.Duration

	// Session configuration

	// SessionReadTimeout is the maximum time to wait for a client message.
	// Heartbeats keep healthy connections inside it.
	// Default: 60 seconds.
	SessionReadTimeout time.Duration

	// SessionWriteTimeout is the maximum time to wait when sending a frame.
	// Default: 10 seconds.
	SessionWriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings.
	// Default: 30 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64

	// ReadBufferSize and WriteBufferSize size the WebSocket buffers.
	// Default: 4096.
	ReadBufferSize  int
	WriteBufferSize int

	// CheckOrigin is called to validate the request origin.
	// Default: the gorilla/websocket same-origin check.
	CheckOrigin func(r *http.Request) bool

	// Observer receives session and frame events. Default: none.
	Observer Observer

	// Logger is the server logger. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Address:             ":8080",
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        10 * time.Second,
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownTimeout:     30 * time.Second,
		SessionReadTimeout:  60 * time.Second,
		SessionWriteTimeout: 10 * time.Second,
		HeartbeatInterval:   30 * time.Second,
		MaxMessageSize:      64 * 1024, // 64KB
		ReadBufferSize:      4096,
		WriteBufferSize:     4096,
	}
}

// withDefaults returns a copy of c with unset fields filled in.
func (c *Config) withDefaults() *Config {
	defaults := DefaultConfig()
	if c == nil {
		c = defaults
	}
	cfg := *c
	if cfg.Address == "" {
		cfg.Address = defaults.Address
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.SessionReadTimeout == 0 {
		cfg.SessionReadTimeout = defaults.SessionReadTimeout
	}
	if cfg.SessionWriteTimeout == 0 {
		cfg.SessionWriteTimeout = defaults.SessionWriteTimeout
	}
	if cfg.HeartbeatInterval == 0 {
		cfg.HeartbeatInterval = defaults.HeartbeatInterval
	}
	if cfg.MaxMessageSize == 0 {
		cfg.MaxMessageSize = defaults.MaxMessageSize
	}
	if cfg.ReadBufferSize == 0 {
		cfg.ReadBufferSize = defaults.ReadBufferSize
	}
	if cfg.WriteBufferSize == 0 {
		cfg.WriteBufferSize = defaults.WriteBufferSize
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &cfg
}
