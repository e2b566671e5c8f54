package form

import "context"

// FormHandle is the imperative interface a form exposes to its owner.
type FormHandle interface {
	Submit(ctx context.Context, ev Event) (SubmitContext, error)
	Reset(ctx context.Context, ev Event) error
	Validate(ctx context.Context) (Result, error)
	GetFieldValue(name string) any
	SetFieldsValue(ctx context.Context, values map[string]any) error
}

var _ FormHandle = (*Handle)(nil)

// Handle delegates to its form. It stays valid across renders.
type Handle struct {
	form *Form
}

func (h *Handle) Submit(ctx context.Context, ev Event) (SubmitContext, error) {
	return h.form.Submit(ctx, ev)
}

func (h *Handle) Reset(ctx context.Context, ev Event) error {
	return h.form.Reset(ctx, ev)
}

func (h *Handle) Validate(ctx context.Context) (Result, error) {
	return h.form.Validate(ctx)
}

func (h *Handle) GetFieldValue(name string) any {
	return h.form.GetFieldValue(name)
}

func (h *Handle) SetFieldsValue(ctx context.Context, values map[string]any) error {
	return h.form.SetFieldsValue(ctx, values)
}
