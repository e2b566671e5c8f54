package protocol

import "errors"

// EventType is the type of a client event.
type EventType uint8

const (
	EventSubmit EventType = 0x01 // Form submitted
	EventReset  EventType = 0x02 // Form reset
	EventInput  EventType = 0x03 // Field value changed
)

func (et EventType) String() string {
	switch et {
	case EventSubmit:
		return "Submit"
	case EventReset:
		return "Reset"
	case EventInput:
		return "Input"
	default:
		return "Unknown"
	}
}

// ErrUnknownEventType is returned when decoding an unrecognised event type.
var ErrUnknownEventType = errors.New("protocol: unknown event type")

// Event is a client event.
//
// Payload by type:
//
//	Submit, Reset: Target
//	Input:         Name, Value
type Event struct {
	Seq    uint64
	Type   EventType
	Target string // Element that raised a submit or reset
	Name   string // Field name for Input
	Value  string // Field value for Input
}

// EncodeEvent encodes e to bytes.
func EncodeEvent(e *Event) []byte {
	enc := NewEncoder()
	EncodeEventTo(enc, e)
	return enc.Bytes()
}

// EncodeEventTo encodes e using enc.
func EncodeEventTo(enc *Encoder, e *Event) {
	enc.WriteUvarint(e.Seq)
	enc.WriteByte(byte(e.Type))
	switch e.Type {
	case EventSubmit, EventReset:
		enc.WriteString(e.Target)
	case EventInput:
		enc.WriteString(e.Name)
		enc.WriteString(e.Value)
	}
}

// DecodeEvent decodes an event from data.
func DecodeEvent(data []byte) (*Event, error) {
	return DecodeEventFrom(NewDecoder(data))
}

// DecodeEventFrom decodes an event from d.
func DecodeEventFrom(d *Decoder) (*Event, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	t, err := d.ReadByte()
	if err != nil {
		return nil, err
	}

	e := &Event{Seq: seq, Type: EventType(t)}
	switch e.Type {
	case EventSubmit, EventReset:
		if e.Target, err = d.ReadString(); err != nil {
			return nil, err
		}
	case EventInput:
		if e.Name, err = d.ReadString(); err != nil {
			return nil, err
		}
		if e.Value, err = d.ReadString(); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownEventType
	}
	return e, nil
}
