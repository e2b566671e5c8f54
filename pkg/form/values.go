package form

import (
	"context"
	"fmt"
	"slices"
	"sort"

	ferrors "github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/registry"
)

// GetFieldValue returns the current value of the field named name. It
// returns nil when name is empty or no attached field of that name exposes
// a value. Among duplicates, the last one with a value is read.
func (f *Form) GetFieldValue(name string) any {
	h := f.registry.LookupValue(name)
	if h == nil {
		return nil
	}
	v, _ := h.Value()
	return v
}

// SetFieldsValue writes each value to the field of the same name.
//
// Every name must belong to an attached field that accepts values;
// otherwise nothing is written and the error names the first offending
// key in sorted order. Values are applied in field position order.
func (f *Form) SetFieldsValue(ctx context.Context, values map[string]any) error {
	call := &Call{Op: OpSetFieldsValue}
	return f.run(ctx, call, func(context.Context) error {
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)

		idx := f.registry.Index()
		targets := make([]*registry.Handle, 0, len(names))
		for _, name := range names {
			h, ok := idx[name]
			if !ok {
				return ferrors.New("F001").WithDetail(fmt.Sprintf("%q", name))
			}
			if !h.HasValue() {
				return ferrors.New("F004").WithDetail(fmt.Sprintf("%q", name))
			}
			targets = append(targets, h)
		}

		slices.SortFunc(targets, func(a, b *registry.Handle) int {
			return a.Position() - b.Position()
		})
		for _, h := range targets {
			if err := h.SetValue(values[h.Name()]); err != nil {
				return err
			}
			call.Fields++
		}
		return nil
	})
}
