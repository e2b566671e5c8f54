package form

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/formkit/pkg/field"
	"github.com/vango-dev/formkit/pkg/formctx"
	"github.com/vango-dev/formkit/pkg/registry"
)

// Target identifies the field a Scroller should bring into view.
type Target struct {
	Name     string
	Selector string
	Behavior formctx.ScrollBehavior
}

// Scroller brings a rendered field into view. Implementations do nothing
// when no element matches the target.
type Scroller interface {
	ScrollIntoView(ctx context.Context, target Target)
}

// ScrollerFunc adapts a function to Scroller.
type ScrollerFunc func(ctx context.Context, target Target)

func (f ScrollerFunc) ScrollIntoView(ctx context.Context, target Target) {
	f(ctx, target)
}

// Validate validates every field that supports it and merges the reports.
//
// All validations run concurrently and are awaited; none is cancelled when
// another fails. Fields that cannot validate are left out. The error is set
// only when a field's validation failed to run, in which case the first
// such error in position order is returned unchanged. A panic in a field's
// validation is re-raised on the calling goroutine.
func (f *Form) Validate(ctx context.Context) (Result, error) {
	var result Result
	call := &Call{Op: OpValidate}
	err := f.run(ctx, call, func(ctx context.Context) error {
		handles := validatable(f.registry.Live())
		call.Fields = len(handles)

		r, err := validateAll(ctx, handles)
		if err != nil {
			return err
		}
		result, call.Result = r, r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func validatable(live []*registry.Handle) []*registry.Handle {
	out := live[:0]
	for _, h := range live {
		if h.HasValidate() {
			out = append(out, h)
		}
	}
	return out
}

func validateAll(ctx context.Context, handles []*registry.Handle) (Result, error) {
	if len(handles) == 0 {
		return Success, nil
	}

	reports := make([]field.Report, len(handles))
	errs := make([]error, len(handles))
	panics := make([]any, len(handles))

	var g errgroup.Group
	for i, h := range handles {
		i, h := i, h
		g.Go(func() error {
			defer func() {
				if p := recover(); p != nil {
					panics[i] = p
				}
			}()
			reports[i], errs[i] = h.Validate(ctx)
			return errs[i]
		})
	}
	_ = g.Wait()

	for i := range handles {
		if panics[i] != nil {
			panic(panics[i])
		}
	}
	for i := range handles {
		if errs[i] != nil {
			return nil, errs[i]
		}
	}
	return Merge(reports), nil
}

// FirstError returns the first message of the first failing field of r, or
// "" when r is Success. When the form's options enable scrolling to the
// first error and that field is rendered, the scroller is asked to bring
// it into view.
func (f *Form) FirstError(ctx context.Context, r Result) string {
	m, ok := r.(*ErrorMap)
	if !ok || m.Len() == 0 {
		return ""
	}
	name, errs := m.First()

	snap := f.scope.Current()
	if snap.ScrollToFirstError.Enabled() && f.cfg.scroller != nil && f.registry.Lookup(name) != nil {
		f.cfg.scroller.ScrollIntoView(ctx, Target{
			Name:     name,
			Selector: f.Selector(name),
			Behavior: snap.ScrollToFirstError,
		})
	}

	if len(errs) == 0 {
		return ""
	}
	return errs[0].Message
}
