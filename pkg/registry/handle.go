package registry

import (
	"context"

	ferrors "github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/field"
)

// Handle is one attached field controller.
type Handle struct {
	pos  int
	gen  uint64
	name string
	ctrl any

	validator field.Validator
	resetter  field.Resetter
	valuer    field.Valuer
}

func newHandle(pos int, gen uint64, ctrl any) *Handle {
	h := &Handle{pos: pos, gen: gen, ctrl: ctrl}
	if n, ok := ctrl.(field.Named); ok {
		h.name = n.Name()
	}
	h.validator, _ = ctrl.(field.Validator)
	h.resetter, _ = ctrl.(field.Resetter)
	h.valuer, _ = ctrl.(field.Valuer)
	return h
}

// Position returns the render position the handle was attached at.
func (h *Handle) Position() int { return h.pos }

// Generation returns the render generation current when the handle was
// attached.
func (h *Handle) Generation() uint64 { return h.gen }

// Name returns the controller's name, or "" when it has none.
func (h *Handle) Name() string { return h.name }

// Controller returns the attached controller.
func (h *Handle) Controller() any { return h.ctrl }

// HasValidate reports whether the controller takes part in validation.
func (h *Handle) HasValidate() bool { return h.validator != nil }

// HasReset reports whether the controller takes part in reset.
func (h *Handle) HasReset() bool { return h.resetter != nil }

// HasValue reports whether the controller exposes a value.
func (h *Handle) HasValue() bool { return h.valuer != nil }

// Validate runs the controller's validation. Controllers without the
// capability pass.
func (h *Handle) Validate(ctx context.Context) (field.Report, error) {
	if h.validator == nil {
		return field.Pass(h.name), nil
	}
	return h.validator.Validate(ctx)
}

// ResetField resets the controller if it supports reset.
func (h *Handle) ResetField() {
	if h.resetter != nil {
		h.resetter.ResetField()
	}
}

// Value reads the controller's current value.
func (h *Handle) Value() (any, bool) {
	if h.valuer == nil {
		return nil, false
	}
	return h.valuer.Value(), true
}

// SetValue writes the controller's value.
func (h *Handle) SetValue(v any) error {
	if h.valuer == nil {
		return ferrors.New("F004").WithDetail("field " + quote(h.name))
	}
	h.valuer.SetValue(v)
	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}
