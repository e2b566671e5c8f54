package server

import (
	"errors"
	"runtime/debug"
	"time"

	"github.com/gorilla/websocket"

	ferrors "github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/protocol"
)

// ReadLoop continuously reads messages from the WebSocket connection.
// It decodes frames, answers control messages and applies events to the
// form one at a time. This method blocks until the connection is closed
// or an error occurs.
func (s *Session) ReadLoop() {
	defer s.Close()

	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.SessionReadTimeout))

		_, msg, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Error("read error", "error", err)
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			s.logger.Error("frame decode error", "error", ferrors.New("F030").Wrap(err))
			s.config.Observer.FrameRejected("frame")
			s.sendError(protocol.ErrInvalidFrame, "Invalid frame", false)
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			s.handleEventFrame(frame.Payload)

		case protocol.FrameControl:
			s.handleControlFrame(frame.Payload)

		default:
			s.logger.Warn("unexpected frame type", "type", frame.Type)
			s.config.Observer.FrameRejected("type")
		}
	}
}

// handleEventFrame decodes an event and applies it.
func (s *Session) handleEventFrame(payload []byte) {
	ev, err := protocol.DecodeEvent(payload)
	if err != nil {
		s.logger.Error("event decode error", "error", ferrors.New("F031").Wrap(err))
		s.config.Observer.FrameRejected("event")
		s.sendError(protocol.ErrInvalidEvent, "Invalid event format", false)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("event panic",
				"event", ev.Type.String(),
				"panic", r,
				"stack", string(debug.Stack()))
			s.sendError(protocol.ErrServerError, "internal error", false)
		}
	}()
	s.handleEvent(ev)
}

// handleControlFrame answers pings. Pongs only refresh the read deadline.
func (s *Session) handleControlFrame(payload []byte) {
	c, err := protocol.DecodeControl(payload)
	if err != nil {
		s.logger.Error("control decode error", "error", ferrors.New("F030").WithDetail("control").Wrap(err))
		s.config.Observer.FrameRejected("control")
		return
	}

	switch c.Type {
	case protocol.ControlPing:
		s.writeFrame(protocol.FrameControl, protocol.EncodeControl(&protocol.Control{
			Type:      protocol.ControlPong,
			Timestamp: c.Timestamp,
		}))

	case protocol.ControlPong:
		s.logger.Debug("received pong")
	}
}

// WriteLoop sends heartbeats. It runs until the session is closed.
func (s *Session) WriteLoop() {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ping := protocol.EncodeControl(&protocol.Control{
				Type:      protocol.ControlPing,
				Timestamp: sinceMillis(),
			})
			if err := s.writeFrame(protocol.FrameControl, ping); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}

// SendPatches sends patches in one frame.
func (s *Session) SendPatches(patches []protocol.Patch) {
	if len(patches) == 0 {
		return
	}
	pf := &protocol.PatchesFrame{
		Seq:     s.sendSeq.Add(1),
		Patches: patches,
	}
	s.writeFrame(protocol.FramePatches, protocol.EncodePatches(pf))
}

// sendError sends an error frame to the client.
func (s *Session) sendError(code protocol.ErrorCode, message string, fatal bool) {
	em := protocol.NewError(code, message)
	if fatal {
		em = protocol.NewFatalError(code, message)
	}
	s.writeFrame(protocol.FrameError, protocol.EncodeErrorMessage(em))
}

func (s *Session) writeFrame(ft protocol.FrameType, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return ErrSessionClosed
	}

	s.conn.SetWriteDeadline(time.Now().Add(s.config.SessionWriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, protocol.NewFrame(ft, payload).Encode()); err != nil {
		s.logger.Error("write error", "error", err)
		return &SessionError{SessionID: s.ID, Op: "write", Err: err}
	}
	return nil
}

// errorCode maps form errors to protocol error codes.
func errorCode(err error) protocol.ErrorCode {
	var fe *ferrors.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case "F001", "F004":
			return protocol.ErrUnknownField
		}
		return protocol.ErrServerError
	}
	return protocol.ErrFieldFault
}
