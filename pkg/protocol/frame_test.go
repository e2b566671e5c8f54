package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestFrameEncodeDecode(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantLen int
	}{
		{"empty_payload", Frame{Type: FrameEvent, Payload: []byte{}}, FrameHeaderSize},
		{"with_payload", Frame{Type: FramePatches, Payload: []byte{0x01, 0x02, 0x03}}, FrameHeaderSize + 3},
		{"with_flags", Frame{Type: FrameControl, Flags: FlagFinal, Payload: []byte("ping")}, FrameHeaderSize + 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := tt.frame.Encode()
			if len(encoded) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(encoded), tt.wantLen)
			}

			got, err := DecodeFrame(encoded)
			if err != nil {
				t.Fatalf("DecodeFrame() error = %v", err)
			}
			if got.Type != tt.frame.Type {
				t.Errorf("Type = %v, want %v", got.Type, tt.frame.Type)
			}
			if got.Flags != tt.frame.Flags {
				t.Errorf("Flags = %v, want %v", got.Flags, tt.frame.Flags)
			}
			if !bytes.Equal(got.Payload, tt.frame.Payload) {
				t.Errorf("Payload = %v, want %v", got.Payload, tt.frame.Payload)
			}
		})
	}
}

func TestDecodeFrame_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short_header", []byte{0x01, 0x00}, io.ErrUnexpectedEOF},
		{"short_payload", []byte{0x01, 0x00, 0x00, 0x05, 0x01}, io.ErrUnexpectedEOF},
		{"bad_type", []byte{0x7F, 0x00, 0x00, 0x00}, ErrInvalidFrameType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeFrame(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("DecodeFrame() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWriteFrame(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, NewFrame(FrameError, []byte("x"))); err != nil {
		t.Fatalf("WriteFrame() error = %v", err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, []byte{0x05, 0x00, 0x00, 0x01, 'x'}) {
		t.Errorf("WriteFrame() wrote %v", got)
	}

	big := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1))
	if err := WriteFrame(&buf, big); err != ErrFrameTooLarge {
		t.Errorf("WriteFrame(big) error = %v, want ErrFrameTooLarge", err)
	}
}

func TestFrameType_String(t *testing.T) {
	if FramePatches.String() != "Patches" || FrameType(0x99).String() != "Unknown" {
		t.Error("unexpected FrameType names")
	}
}
