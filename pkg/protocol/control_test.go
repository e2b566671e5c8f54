package protocol

import "testing"

func TestControlRoundTrip(t *testing.T) {
	for _, c := range []Control{{ControlPing, 1700000000000}, {ControlPong, 0}} {
		got, err := DecodeControl(EncodeControl(&c))
		if err != nil {
			t.Fatalf("DecodeControl() error = %v", err)
		}
		if *got != c {
			t.Errorf("DecodeControl() = %+v, want %+v", *got, c)
		}
	}
	if _, err := DecodeControl([]byte{0x09}); err != ErrUnknownControlType {
		t.Errorf("error = %v, want ErrUnknownControlType", err)
	}
}
