package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/vango-dev/formkit/pkg/form"
)

// Type selects how a prompt asks for its value and converts the answer.
type Type string

const (
	TypeString   Type = ""
	TypePassword Type = "password"
	TypeInteger  Type = "integer"
	TypeNumber   Type = "number"
	TypeBoolean  Type = "boolean"
)

// Prompt asks for the value of one named field.
type Prompt struct {
	Name  string
	Label string
	Help  string
	Type  Type

	// Options turns the prompt into a single choice.
	Options []string
}

func (p Prompt) message() string {
	if p.Label != "" {
		return p.Label
	}
	return p.Name
}

// FillerOption configures a Filler.
type FillerOption func(*Filler)

// WithMaxAttempts bounds how many times failing fields are asked. Values
// below one are ignored.
func WithMaxAttempts(n int) FillerOption {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// Filler fills forms by prompting.
type Filler struct {
	driver      PromptDriver
	maxAttempts int
}

// NewFiller creates a Filler asking through driver. Failing fields are
// asked up to three times by default.
func NewFiller(driver PromptDriver, opts ...FillerOption) *Filler {
	f := &Filler{driver: driver, maxAttempts: 3}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fill prompts for every field, writes the answers with SetFieldsValue and
// validates. Fields that fail are asked again, showing their first error,
// until the form is valid or the attempts run out. The form is then
// submitted and the submit context returned.
//
// Current field values are offered as defaults.
func (fl *Filler) Fill(ctx context.Context, f *form.Form, prompts []Prompt) (form.SubmitContext, error) {
	byName := make(map[string]Prompt, len(prompts))
	for _, p := range prompts {
		byName[p.Name] = p
	}

	pending := prompts
	for attempt := 1; ; attempt++ {
		values := make(map[string]any, len(pending))
		for _, p := range pending {
			v, err := fl.ask(ctx, p, f.GetFieldValue(p.Name))
			if err != nil {
				return form.SubmitContext{}, err
			}
			values[p.Name] = v
		}
		if err := f.SetFieldsValue(ctx, values); err != nil {
			return form.SubmitContext{}, err
		}

		result, err := f.Validate(ctx)
		if err != nil {
			return form.SubmitContext{}, err
		}
		failed, ok := result.(*form.ErrorMap)
		if !ok || attempt >= fl.maxAttempts {
			break
		}

		pending = pending[:0:0]
		for _, name := range failed.Names() {
			p, ok := byName[name]
			if !ok {
				continue
			}
			msg := p.message()
			if errs := failed.Errors(name); len(errs) > 0 {
				msg += ": " + errs[0].Message
			}
			if err := fl.driver.Info(ctx, "✗ "+msg); err != nil {
				return form.SubmitContext{}, err
			}
			pending = append(pending, p)
		}
		// Only fields without a prompt failed; asking again cannot help.
		if len(pending) == 0 {
			break
		}
	}

	return f.Submit(ctx, form.NewEvent("submit", "tui"))
}

func (fl *Filler) ask(ctx context.Context, p Prompt, current any) (any, error) {
	if len(p.Options) > 0 {
		idx, err := fl.driver.Select(ctx, SelectConfig{
			Message:      p.message(),
			Options:      p.Options,
			DefaultIndex: indexOf(p.Options, stringify(current)),
			Help:         p.Help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(p.Options) {
			return "", nil
		}
		return p.Options[idx], nil
	}

	switch p.Type {
	case TypeBoolean:
		def, _ := current.(bool)
		return fl.driver.Confirm(ctx, ConfirmConfig{Message: p.message(), Default: def, Help: p.Help})
	case TypePassword:
		return fl.driver.Password(ctx, InputConfig{Message: p.message(), Help: p.Help})
	}

	raw, err := fl.driver.Input(ctx, InputConfig{Message: p.message(), Default: stringify(current), Help: p.Help})
	if err != nil {
		return nil, err
	}
	return convert(p.Type, raw), nil
}

// convert parses numeric answers. Unparseable answers stay strings so the
// field's rules can report them.
func convert(t Type, raw string) any {
	raw = strings.TrimSpace(raw)
	switch t {
	case TypeInteger:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case TypeNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n
		}
	}
	return raw
}

func stringify(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
