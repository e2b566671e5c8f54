package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	ferrors "github.com/vango-dev/formkit/internal/errors"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithStrictNames makes attaching a controller whose name is already used
// by another live handle an error instead of a warning.
func WithStrictNames() Option {
	return func(r *Registry) {
		r.strictNames = true
	}
}

// Registry is the position-indexed set of a form's field controllers.
//
// Registry is safe for concurrent use.
type Registry struct {
	logger      *slog.Logger
	strictNames bool

	mu    sync.RWMutex
	slots []*Handle
	gen   uint64
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Sync resizes the registry for a render declaring n children and returns
// the new render generation. Slots at n and beyond are dropped; new slots
// start vacant. Surviving slots keep their handle until the child at that
// position re-attaches or detaches.
func (r *Registry) Sync(n int) uint64 {
	if n < 0 {
		n = 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case n < len(r.slots):
		for i := n; i < len(r.slots); i++ {
			r.slots[i] = nil
		}
		r.slots = r.slots[:n]
	case n > len(r.slots):
		r.slots = append(r.slots, make([]*Handle, n-len(r.slots))...)
	}
	r.gen++
	return r.gen
}

// Attach writes ctrl into slot pos, replacing whatever the slot held.
func (r *Registry) Attach(pos int, ctrl any) (*Handle, error) {
	if isNil(ctrl) {
		return nil, ferrors.New("F005").WithDetail(fmt.Sprintf("position %d", pos))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if pos < 0 || pos >= len(r.slots) {
		return nil, ferrors.New("F003").WithDetail(fmt.Sprintf("position %d of %d", pos, len(r.slots)))
	}

	h := newHandle(pos, r.gen, ctrl)
	if h.name != "" {
		for _, other := range r.slots {
			if other == nil || other.pos == pos || other.name != h.name {
				continue
			}
			if r.strictNames {
				return nil, ferrors.New("F002").WithDetail(fmt.Sprintf("%q at positions %d and %d", h.name, other.pos, pos))
			}
			r.logger.Warn("duplicate field name, last registered wins",
				"field", h.name, "position", pos, "previous", other.pos)
		}
	}

	r.slots[pos] = h
	return h, nil
}

// Detach vacates h's slot. It reports false when the slot no longer holds
// h, which happens when a newer controller attached there first.
func (r *Registry) Detach(h *Handle) bool {
	if h == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h.pos >= len(r.slots) || r.slots[h.pos] != h {
		return false
	}
	r.slots[h.pos] = nil
	return true
}

// Len returns the number of slots declared by the last Sync.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.slots)
}

// Generation returns the render generation of the last Sync.
func (r *Registry) Generation() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.gen
}

// At returns the handle in slot pos, or nil when the slot is vacant or out
// of range.
func (r *Registry) At(pos int) *Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if pos < 0 || pos >= len(r.slots) {
		return nil
	}
	return r.slots[pos]
}

// isNil reports whether ctrl is nil or a typed nil pointer, map, slice,
// func or channel.
func isNil(ctrl any) bool {
	if ctrl == nil {
		return true
	}
	switch v := reflect.ValueOf(ctrl); v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Live returns the attached handles in position order.
func (r *Registry) Live() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Handle, 0, len(r.slots))
	for _, h := range r.slots {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// Lookup returns the last handle in position order named name, or nil.
func (r *Registry) Lookup(name string) *Handle {
	if name == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.slots) - 1; i >= 0; i-- {
		if h := r.slots[i]; h != nil && h.name == name {
			return h
		}
	}
	return nil
}

// LookupValue returns the last handle in position order named name that
// exposes a value, or nil.
func (r *Registry) LookupValue(name string) *Handle {
	if name == "" {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.slots) - 1; i >= 0; i-- {
		if h := r.slots[i]; h != nil && h.name == name && h.HasValue() {
			return h
		}
	}
	return nil
}

// Index maps every name to its handle; on collisions the handle at the
// later position wins. Unnamed handles are left out.
func (r *Registry) Index() map[string]*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := make(map[string]*Handle, len(r.slots))
	for _, h := range r.slots {
		if h != nil && h.name != "" {
			idx[h.name] = h
		}
	}
	return idx
}
