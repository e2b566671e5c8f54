package protocol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEventRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		event Event
	}{
		{"submit", Event{Seq: 1, Type: EventSubmit, Target: "signup"}},
		{"reset", Event{Seq: 2, Type: EventReset}},
		{"input", Event{Seq: 300, Type: EventInput, Name: "email", Value: "ada@example.com"}},
		{"input_empty", Event{Seq: 4, Type: EventInput, Name: "age"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent(EncodeEvent(&tt.event))
			if err != nil {
				t.Fatalf("DecodeEvent() error = %v", err)
			}
			if diff := cmp.Diff(tt.event, *got); diff != "" {
				t.Errorf("event mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeEvent_Errors(t *testing.T) {
	if _, err := DecodeEvent([]byte{0x01, 0x7F}); err != ErrUnknownEventType {
		t.Errorf("error = %v, want ErrUnknownEventType", err)
	}
	if _, err := DecodeEvent([]byte{0x01}); err == nil {
		t.Error("truncated event decoded")
	}
	if _, err := DecodeEvent([]byte{0x01, byte(EventInput), 0x05, 'a'}); err == nil {
		t.Error("truncated input decoded")
	}
}

func TestEventType_String(t *testing.T) {
	for et, want := range map[EventType]string{EventSubmit: "Submit", EventReset: "Reset", EventInput: "Input", 0: "Unknown"} {
		if got := et.String(); got != want {
			t.Errorf("EventType(%d).String() = %q, want %q", et, got, want)
		}
	}
}
