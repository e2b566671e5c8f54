package field

import (
	"context"
)

// Named is implemented by controllers addressable by a logical name.
type Named interface {
	Name() string
}

// Valuer is implemented by controllers owning a readable and writable value.
type Valuer interface {
	Value() any
	SetValue(v any)
}

// Validator is implemented by controllers that validate their own value.
type Validator interface {
	Validate(ctx context.Context) (Report, error)
}

// Resetter is implemented by controllers that can reset their own value.
type Resetter interface {
	ResetField()
}

// Severity distinguishes blocking errors from advisory ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ErrorDescriptor describes one validation failure of a field.
type ErrorDescriptor struct {
	Message string   `json:"message"`
	Type    Severity `json:"type,omitempty"`
	Rule    string   `json:"rule,omitempty"`
}

// Report is the outcome of validating one field controller.
type Report struct {
	Name   string
	Errors []ErrorDescriptor
}

// Passed reports whether the field validated without errors.
func (r Report) Passed() bool {
	return len(r.Errors) == 0
}

// Pass returns a passing report for name.
func Pass(name string) Report {
	return Report{Name: name}
}

// Fail returns a report for name carrying errs. Messages become error
// descriptors of SeverityError.
func Fail(name string, messages ...string) Report {
	errs := make([]ErrorDescriptor, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, ErrorDescriptor{Message: m, Type: SeverityError})
	}
	return Report{Name: name, Errors: errs}
}
