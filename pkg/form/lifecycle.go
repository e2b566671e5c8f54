package form

import (
	"context"
	"sync/atomic"
)

// Event is the trigger of a submit or reset. The form cancels its default
// action before doing anything else.
type Event interface {
	PreventDefault()
}

// NativeEvent is an Event raised by a rendered form element.
type NativeEvent struct {
	Type   string
	Target string

	prevented atomic.Bool
}

// NewEvent creates an event of typ raised on target.
func NewEvent(typ, target string) *NativeEvent {
	return &NativeEvent{Type: typ, Target: target}
}

// PreventDefault marks the event's default action as cancelled.
func (e *NativeEvent) PreventDefault() {
	e.prevented.Store(true)
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *NativeEvent) DefaultPrevented() bool {
	return e.prevented.Load()
}

// SubmitContext is passed to the submit callback.
type SubmitContext struct {
	Result     Result
	Event      Event
	FirstError string
}

// ResetContext is passed to the reset callback.
type ResetContext struct {
	Event Event
}

// Phase is the state of the form's submit lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Phase reports whether a submit is validating, has resolved, or has never
// run.
func (f *Form) Phase() Phase {
	switch {
	case f.inflight.Load() > 0:
		return PhaseValidating
	case f.resolved.Load():
		return PhaseResolved
	default:
		return PhaseIdle
	}
}

// Submit cancels ev's default action, validates every field and invokes the
// submit callback with the outcome, whether or not it is valid. ev may be
// nil. If validation fails to run, the error is returned and the callback
// is not invoked.
//
// Overlapping submits are not serialised; each one runs to completion and
// invokes the callback with its own result.
func (f *Form) Submit(ctx context.Context, ev Event) (SubmitContext, error) {
	if ev != nil {
		ev.PreventDefault()
	}

	f.inflight.Add(1)
	defer f.inflight.Add(-1)

	var sc SubmitContext
	call := &Call{Op: OpSubmit}
	err := f.run(ctx, call, func(ctx context.Context) error {
		result, err := f.Validate(ctx)
		if err != nil {
			return err
		}
		call.Result = result
		if m, ok := result.(*ErrorMap); ok {
			call.Fields = m.Len()
		}

		sc = SubmitContext{
			Result:     result,
			Event:      ev,
			FirstError: f.FirstError(ctx, result),
		}
		f.resolved.Store(true)
		if f.cfg.onSubmit != nil {
			f.cfg.onSubmit(sc)
		}
		return nil
	})
	if err != nil {
		f.cfg.logger.Error("form submit failed", "error", err)
		return SubmitContext{}, err
	}
	return sc, nil
}

// Reset cancels ev's default action, resets every field that supports it in
// position order, then invokes the reset callback. ev may be nil.
func (f *Form) Reset(ctx context.Context, ev Event) error {
	if ev != nil {
		ev.PreventDefault()
	}

	call := &Call{Op: OpReset}
	return f.run(ctx, call, func(ctx context.Context) error {
		for _, h := range f.registry.Live() {
			if !h.HasReset() {
				continue
			}
			h.ResetField()
			call.Fields++
		}
		if f.cfg.onReset != nil {
			f.cfg.onReset(ResetContext{Event: ev})
		}
		return nil
	})
}
