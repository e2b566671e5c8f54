// Package protocol implements the binary wire protocol between a browser
// form and its server-side session.
//
// Clients send events (submit, reset, input); the server answers with
// patches (field errors, scroll-into-view, value updates, the overall
// result). Encoding uses no reflection.
//
// # Wire Format
//
// Every message is framed with a 4-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (2 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameEvent (0x01): client to server events
//   - FramePatches (0x02): server to client patches
//   - FrameControl (0x03): ping and pong
//   - FrameError (0x05): error message
//
// # Encoding
//
//   - Varint: unsigned integers, protobuf-style
//   - Length-prefixed: strings prefixed with their varint length
//   - Big-endian: fixed-width integers
//
// # Example
//
//	ev := &protocol.Event{Seq: 1, Type: protocol.EventInput, Name: "email", Value: "a@b.c"}
//	frame := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(ev))
//	conn.WriteMessage(websocket.BinaryMessage, frame.Encode())
package protocol
