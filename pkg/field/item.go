package field

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"sync"

	"github.com/vango-dev/formkit/pkg/formctx"
)

// Item is a field controller holding one value, validated by a list of
// rules. It implements Named, Valuer, Validator and Resetter.
//
// Item is safe for concurrent use.
type Item struct {
	name     string
	initial  any
	rules    []Rule
	scope    *formctx.Scope
	onChange func(value any)

	mu     sync.RWMutex
	value  any
	errors []ErrorDescriptor

	// hint caches the rules parsed from the last published hint tag.
	hintTag   string
	hintRules []Rule
}

// ItemOption configures an Item.
type ItemOption func(*Item)

// WithRules sets the rules an Item validates against. An Item with rules
// ignores the form's rule hint for its name.
func WithRules(rules ...Rule) ItemOption {
	return func(i *Item) {
		i.rules = append(i.rules, rules...)
	}
}

// WithScope connects an Item to the shared options of its form.
func WithScope(scope *formctx.Scope) ItemOption {
	return func(i *Item) {
		i.scope = scope
	}
}

// WithOnChange registers a callback run after every SetValue and reset.
func WithOnChange(fn func(value any)) ItemOption {
	return func(i *Item) {
		i.onChange = fn
	}
}

// NewItem creates an Item named name starting at initial.
func NewItem(name string, initial any, opts ...ItemOption) *Item {
	i := &Item{
		name:    name,
		initial: initial,
		value:   initial,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Name returns the field name.
func (i *Item) Name() string {
	return i.name
}

// Value returns the current value.
func (i *Item) Value() any {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.value
}

// SetValue replaces the current value.
func (i *Item) SetValue(v any) {
	i.mu.Lock()
	i.value = v
	i.mu.Unlock()

	if i.onChange != nil {
		i.onChange(v)
	}
}

// Initial returns the value the Item was created with.
func (i *Item) Initial() any {
	return i.initial
}

// Errors returns the errors found by the last Validate.
func (i *Item) Errors() []ErrorDescriptor {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return slices.Clone(i.errors)
}

// Validate checks the current value against every rule and reports all
// failures. An error is returned only when a rule could not be evaluated or
// the published rule hint does not parse.
func (i *Item) Validate(ctx context.Context) (Report, error) {
	rules, err := i.activeRules()
	if err != nil {
		return Report{}, err
	}

	value := i.Value()
	var errs []ErrorDescriptor
	for _, r := range rules {
		err := r.Check(ctx, value)
		if err == nil {
			continue
		}
		var ve ValidationError
		if !errors.As(err, &ve) {
			return Report{}, err
		}
		errs = append(errs, ve.Descriptor())
	}

	i.mu.Lock()
	i.errors = errs
	i.mu.Unlock()

	return Report{Name: i.name, Errors: slices.Clone(errs)}, nil
}

// ResetField clears validation errors and resets the value according to
// the form's reset type: the zero value of the initial value's type for
// formctx.ResetEmpty, the initial value for formctx.ResetInitial.
func (i *Item) ResetField() {
	var next any
	if i.scope.Current().ResetType == formctx.ResetInitial {
		next = i.initial
	} else {
		next = zeroOf(i.initial)
	}

	i.mu.Lock()
	i.value = next
	i.errors = nil
	i.mu.Unlock()

	if i.onChange != nil {
		i.onChange(next)
	}
}

func (i *Item) activeRules() ([]Rule, error) {
	if len(i.rules) > 0 {
		return i.rules, nil
	}
	tag, ok := i.scope.Current().Rule(i.name)
	if !ok {
		return nil, nil
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if tag == i.hintTag && i.hintRules != nil {
		return i.hintRules, nil
	}
	rules, err := ParseRules(tag)
	if err != nil {
		return nil, err
	}
	i.hintTag, i.hintRules = tag, rules
	return rules, nil
}

func zeroOf(v any) any {
	if v == nil {
		return nil
	}
	return reflect.Zero(reflect.TypeOf(v)).Interface()
}
