package vtest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vango-dev/formkit/pkg/field"
)

// Field is a configurable fake field controller. Configure it before
// attaching it to a form; the counters may be read at any time.
type Field struct {
	name    string
	errs    []field.ErrorDescriptor
	fault   error
	panicV  any
	delay   time.Duration
	onReset func(name string)

	mu    sync.Mutex
	value any

	validations atomic.Int32
	resets      atomic.Int32
}

// NewField creates a fake named name that passes validation.
func NewField(name string) *Field {
	return &Field{name: name}
}

// Fails makes validation report messages as errors.
func (f *Field) Fails(messages ...string) *Field {
	f.errs = field.Fail(f.name, messages...).Errors
	return f
}

// Reports makes validation report errs.
func (f *Field) Reports(errs ...field.ErrorDescriptor) *Field {
	f.errs = errs
	return f
}

// Faults makes validation return err.
func (f *Field) Faults(err error) *Field {
	f.fault = err
	return f
}

// Panics makes validation panic with v.
func (f *Field) Panics(v any) *Field {
	f.panicV = v
	return f
}

// Delay makes validation wait d before settling.
func (f *Field) Delay(d time.Duration) *Field {
	f.delay = d
	return f
}

// WithValue sets the initial value.
func (f *Field) WithValue(v any) *Field {
	f.value = v
	return f
}

// OnReset registers a callback run by every ResetField.
func (f *Field) OnReset(fn func(name string)) *Field {
	f.onReset = fn
	return f
}

func (f *Field) Name() string { return f.name }

func (f *Field) Value() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

func (f *Field) SetValue(v any) {
	f.mu.Lock()
	f.value = v
	f.mu.Unlock()
}

func (f *Field) Validate(ctx context.Context) (field.Report, error) {
	f.validations.Add(1)
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return field.Report{}, ctx.Err()
		}
	}
	if f.panicV != nil {
		panic(f.panicV)
	}
	if f.fault != nil {
		return field.Report{}, f.fault
	}
	return field.Report{Name: f.name, Errors: f.errs}, nil
}

func (f *Field) ResetField() {
	f.resets.Add(1)
	if f.onReset != nil {
		f.onReset(f.name)
	}
}

// Validations returns how many times Validate was called.
func (f *Field) Validations() int { return int(f.validations.Load()) }

// Resets returns how many times ResetField was called.
func (f *Field) Resets() int { return int(f.resets.Load()) }

// Bare is a controller with no capabilities.
type Bare struct{}

// Value is a controller exposing only a name and a value.
type Value struct {
	name string

	mu    sync.Mutex
	value any
}

// NewValue creates a value-only controller.
func NewValue(name string, v any) *Value {
	return &Value{name: name, value: v}
}

func (v *Value) Name() string { return v.name }

func (v *Value) Value() any {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.value
}

func (v *Value) SetValue(x any) {
	v.mu.Lock()
	v.value = x
	v.mu.Unlock()
}
