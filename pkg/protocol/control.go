package protocol

import "errors"

// ControlType is the type of a control message.
type ControlType uint8

const (
	ControlPing ControlType = 0x01
	ControlPong ControlType = 0x02
)

func (ct ControlType) String() string {
	switch ct {
	case ControlPing:
		return "Ping"
	case ControlPong:
		return "Pong"
	default:
		return "Unknown"
	}
}

// ErrUnknownControlType is returned when decoding an unrecognised control
// type.
var ErrUnknownControlType = errors.New("protocol: unknown control type")

// Control is a ping or pong carrying the sender's clock in Unix
// milliseconds.
type Control struct {
	Type      ControlType
	Timestamp uint64
}

// EncodeControl encodes c to bytes.
func EncodeControl(c *Control) []byte {
	e := NewEncoder()
	e.WriteByte(byte(c.Type))
	e.WriteUint64(c.Timestamp)
	return e.Bytes()
}

// DecodeControl decodes a control message.
func DecodeControl(data []byte) (*Control, error) {
	d := NewDecoder(data)
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	ct := ControlType(t)
	if ct != ControlPing && ct != ControlPong {
		return nil, ErrUnknownControlType
	}
	ts, err := d.ReadUint64()
	if err != nil {
		return nil, err
	}
	return &Control{Type: ct, Timestamp: ts}, nil
}
