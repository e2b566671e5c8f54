package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/microcosm-cc/bluemonday"

	"github.com/vango-dev/formkit/pkg/form"
	"github.com/vango-dev/formkit/pkg/formctx"
	"github.com/vango-dev/formkit/pkg/protocol"
)

// Session is one client connection and the form it drives.
type Session struct {
	// Identity
	ID string

	// Connection
	conn   *websocket.Conn
	config *Config
	policy *bluemonday.Policy

	// Form served to this client
	form *form.Form

	// Sequence number of the last patches frame sent
	sendSeq atomic.Uint64

	// Scroll patches queued while a submit runs, sent with its result.
	pending   []protocol.Patch
	pendingMu sync.Mutex

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	closed atomic.Bool

	// Serializes writes on conn
	mu sync.Mutex

	// Statistics
	CreatedAt  time.Time
	eventCount atomic.Uint64

	logger *slog.Logger
}

// generateSessionID generates a cryptographically random session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// SECURITY: Fatal on entropy failure - weak IDs are dangerous
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}

// newSession creates a new session with the given connection.
func newSession(conn *websocket.Conn, config *Config, policy *bluemonday.Policy, logger *slog.Logger) *Session {
	id := generateSessionID()
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:        id,
		conn:      conn,
		config:    config,
		policy:    policy,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
		CreatedAt: time.Now(),
		logger:    logger.With("session_id", id),
	}
}

// Form returns the form the session drives.
func (s *Session) Form() *form.Form {
	return s.form
}

// EventCount returns the number of client events handled.
func (s *Session) EventCount() uint64 {
	return s.eventCount.Load()
}

// ScrollIntoView implements form.Scroller. The patch is sent with the
// result of the submit that asked for it. Instant and auto both map to
// ScrollInstant.
func (s *Session) ScrollIntoView(_ context.Context, target form.Target) {
	behavior := protocol.ScrollInstant
	if target.Behavior == formctx.ScrollSmooth {
		behavior = protocol.ScrollSmooth
	}

	s.pendingMu.Lock()
	s.pending = append(s.pending, protocol.NewScrollIntoViewPatch(target.Selector, behavior))
	s.pendingMu.Unlock()
}

func (s *Session) takePending() []protocol.Patch {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	p := s.pending
	s.pending = nil
	return p
}

// Close closes the session. It is safe to call more than once.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.cancel()
	close(s.done)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.Close()
}

// Done returns a channel closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// handleEvent applies one client event to the form.
func (s *Session) handleEvent(ev *protocol.Event) {
	s.eventCount.Add(1)
	ctx := s.ctx

	switch ev.Type {
	case protocol.EventInput:
		err := s.form.SetFieldsValue(ctx, map[string]any{ev.Name: ev.Value})
		if err != nil {
			s.logger.Warn("input rejected", "field", ev.Name, "error", err)
			s.sendError(errorCode(err), err.Error(), false)
		}

	case protocol.EventSubmit:
		sc, err := s.form.Submit(ctx, form.NewEvent("submit", ev.Target))
		if err != nil {
			s.sendError(errorCode(err), "validation failed", false)
			return
		}
		patches := s.resultPatches(sc.Result)
		patches = append(patches, s.takePending()...)
		s.SendPatches(patches)

	case protocol.EventReset:
		if err := s.form.Reset(ctx, form.NewEvent("reset", ev.Target)); err != nil {
			s.logger.Error("form reset failed", "error", err)
			s.sendError(protocol.ErrServerError, "reset failed", false)
			return
		}
		s.SendPatches(s.resetPatches())
	}
}

// resultPatches reports every named field's errors, clearing fields that
// passed, followed by the overall outcome.
func (s *Session) resultPatches(r form.Result) []protocol.Patch {
	em, _ := r.(*form.ErrorMap)

	var patches []protocol.Patch
	for _, h := range s.form.Registry().Live() {
		name := h.Name()
		if name == "" || !h.HasValidate() {
			continue
		}
		var errs []string
		if em != nil {
			for _, d := range em.Errors(name) {
				errs = append(errs, s.policy.Sanitize(d.Message))
			}
		}
		if len(errs) == 0 {
			patches = append(patches, protocol.NewClearErrorsPatch(name))
			continue
		}
		patches = append(patches, protocol.NewFieldErrorsPatch(name, errs))
	}
	return append(patches, protocol.NewResultPatch(r.Valid()))
}

// resetPatches clears every named field's errors and sends its value.
func (s *Session) resetPatches() []protocol.Patch {
	var patches []protocol.Patch
	for _, h := range s.form.Registry().Live() {
		name := h.Name()
		if name == "" {
			continue
		}
		patches = append(patches, protocol.NewClearErrorsPatch(name))
		if v, ok := h.Value(); ok {
			patches = append(patches, protocol.NewSetValuePatch(name, stringify(v)))
		}
	}
	return patches
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
