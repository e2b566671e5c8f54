package form

import "context"

// Op names a form operation seen by middleware.
type Op string

const (
	OpValidate       Op = "validate"
	OpSubmit         Op = "submit"
	OpReset          Op = "reset"
	OpSetFieldsValue Op = "set_fields_value"
)

// Call describes one form operation. Fields and Result are filled in by the
// operation before next returns.
type Call struct {
	Op Op

	// Fields is the number of fields the operation touched.
	Fields int

	// Result is set by validate and submit once validation settled.
	Result Result
}

// Middleware wraps form operations.
type Middleware interface {
	Handle(ctx context.Context, call *Call, next func(ctx context.Context) error) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(ctx context.Context, call *Call, next func(ctx context.Context) error) error

func (f MiddlewareFunc) Handle(ctx context.Context, call *Call, next func(ctx context.Context) error) error {
	return f(ctx, call, next)
}

func (f *Form) run(ctx context.Context, call *Call, op func(ctx context.Context) error) error {
	next := op
	for i := len(f.cfg.middleware) - 1; i >= 0; i-- {
		mw, inner := f.cfg.middleware[i], next
		next = func(ctx context.Context) error {
			return mw.Handle(ctx, call, inner)
		}
	}
	return next(ctx)
}
