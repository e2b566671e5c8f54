package protocol

import "errors"

// PatchOp is the type of a patch operation.
type PatchOp uint8

const (
	PatchScrollIntoView PatchOp = 0x01 // Scroll a field wrapper into view
	PatchFieldErrors    PatchOp = 0x02 // Show a field's error messages
	PatchClearErrors    PatchOp = 0x03 // Remove a field's error messages
	PatchSetValue       PatchOp = 0x04 // Set a field's input value
	PatchResult         PatchOp = 0x05 // Report the outcome of a submit
)

func (op PatchOp) String() string {
	switch op {
	case PatchScrollIntoView:
		return "ScrollIntoView"
	case PatchFieldErrors:
		return "FieldErrors"
	case PatchClearErrors:
		return "ClearErrors"
	case PatchSetValue:
		return "SetValue"
	case PatchResult:
		return "Result"
	default:
		return "Unknown"
	}
}

// ScrollBehavior is the scroll behavior of PatchScrollIntoView.
type ScrollBehavior uint8

const (
	ScrollInstant ScrollBehavior = 0
	ScrollSmooth  ScrollBehavior = 1
)

// ErrUnknownPatchOp is returned when decoding an unrecognised patch op.
var ErrUnknownPatchOp = errors.New("protocol: unknown patch op")

// Patch is a single client update.
//
// Payload by op:
//
//	ScrollIntoView: Selector, Behavior
//	FieldErrors:    Name, Messages
//	ClearErrors:    Name
//	SetValue:       Name, Value
//	Result:         Valid
type Patch struct {
	Op       PatchOp
	Name     string
	Selector string
	Behavior ScrollBehavior
	Messages []string
	Value    string
	Valid    bool
}

// PatchesFrame is a batch of patches sent in one frame.
type PatchesFrame struct {
	Seq     uint64
	Patches []Patch
}

// EncodePatches encodes pf to bytes.
func EncodePatches(pf *PatchesFrame) []byte {
	e := NewEncoder()
	EncodePatchesTo(e, pf)
	return e.Bytes()
}

// EncodePatchesTo encodes pf using e.
func EncodePatchesTo(e *Encoder, pf *PatchesFrame) {
	e.WriteUvarint(pf.Seq)
	e.WriteUvarint(uint64(len(pf.Patches)))
	for i := range pf.Patches {
		encodePatch(e, &pf.Patches[i])
	}
}

func encodePatch(e *Encoder, p *Patch) {
	e.WriteByte(byte(p.Op))
	switch p.Op {
	case PatchScrollIntoView:
		e.WriteString(p.Selector)
		e.WriteByte(byte(p.Behavior))
	case PatchFieldErrors:
		e.WriteString(p.Name)
		e.WriteStrings(p.Messages)
	case PatchClearErrors:
		e.WriteString(p.Name)
	case PatchSetValue:
		e.WriteString(p.Name)
		e.WriteString(p.Value)
	case PatchResult:
		e.WriteBool(p.Valid)
	}
}

// DecodePatches decodes a patches frame payload.
func DecodePatches(data []byte) (*PatchesFrame, error) {
	return DecodePatchesFrom(NewDecoder(data))
}

// DecodePatchesFrom decodes a patches frame payload from d.
func DecodePatchesFrom(d *Decoder) (*PatchesFrame, error) {
	seq, err := d.ReadUvarint()
	if err != nil {
		return nil, err
	}
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}

	patches := make([]Patch, count)
	for i := range patches {
		if err := decodePatch(d, &patches[i]); err != nil {
			return nil, err
		}
	}
	return &PatchesFrame{Seq: seq, Patches: patches}, nil
}

func decodePatch(d *Decoder, p *Patch) error {
	op, err := d.ReadByte()
	if err != nil {
		return err
	}
	p.Op = PatchOp(op)

	switch p.Op {
	case PatchScrollIntoView:
		if p.Selector, err = d.ReadString(); err != nil {
			return err
		}
		b, err := d.ReadByte()
		if err != nil {
			return err
		}
		p.Behavior = ScrollBehavior(b)
	case PatchFieldErrors:
		if p.Name, err = d.ReadString(); err != nil {
			return err
		}
		if p.Messages, err = d.ReadStrings(); err != nil {
			return err
		}
	case PatchClearErrors:
		if p.Name, err = d.ReadString(); err != nil {
			return err
		}
	case PatchSetValue:
		if p.Name, err = d.ReadString(); err != nil {
			return err
		}
		if p.Value, err = d.ReadString(); err != nil {
			return err
		}
	case PatchResult:
		if p.Valid, err = d.ReadBool(); err != nil {
			return err
		}
	default:
		return ErrUnknownPatchOp
	}
	return nil
}

// NewScrollIntoViewPatch creates a patch scrolling the element matching
// selector into view.
func NewScrollIntoViewPatch(selector string, behavior ScrollBehavior) Patch {
	return Patch{Op: PatchScrollIntoView, Selector: selector, Behavior: behavior}
}

// NewFieldErrorsPatch creates a patch showing messages under a field.
func NewFieldErrorsPatch(name string, messages []string) Patch {
	return Patch{Op: PatchFieldErrors, Name: name, Messages: messages}
}

// NewClearErrorsPatch creates a patch removing a field's messages.
func NewClearErrorsPatch(name string) Patch {
	return Patch{Op: PatchClearErrors, Name: name}
}

// NewSetValuePatch creates a patch setting a field's input value.
func NewSetValuePatch(name, value string) Patch {
	return Patch{Op: PatchSetValue, Name: name, Value: value}
}

// NewResultPatch creates a patch reporting whether a submit was valid.
func NewResultPatch(valid bool) Patch {
	return Patch{Op: PatchResult, Valid: valid}
}
