package form

import (
	"log/slog"
	"sync/atomic"

	ferrors "github.com/vango-dev/formkit/internal/errors"
	"github.com/vango-dev/formkit/pkg/formctx"
	"github.com/vango-dev/formkit/pkg/registry"
)

// DefaultClassPrefix prefixes the class names used to locate field wrappers.
const DefaultClassPrefix = "t"

// Option configures a Form.
type Option func(*config)

type config struct {
	onSubmit    func(SubmitContext)
	onReset     func(ResetContext)
	scroller    Scroller
	middleware  []Middleware
	logger      *slog.Logger
	classPrefix string
	strictNames bool
}

// WithOnSubmit sets the callback invoked after every submit, valid or not.
func WithOnSubmit(fn func(SubmitContext)) Option {
	return func(c *config) {
		c.onSubmit = fn
	}
}

// WithOnReset sets the callback invoked after every reset.
func WithOnReset(fn func(ResetContext)) Option {
	return func(c *config) {
		c.onReset = fn
	}
}

// WithScroller sets what brings the first failing field into view.
func WithScroller(s Scroller) Option {
	return func(c *config) {
		c.scroller = s
	}
}

// WithMiddleware appends middleware wrapping every form operation. The
// first middleware is the outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mw...)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithClassPrefix overrides DefaultClassPrefix.
func WithClassPrefix(prefix string) Option {
	return func(c *config) {
		c.classPrefix = prefix
	}
}

// WithStrictNames rejects attaching a field whose name is already taken by
// another live field.
func WithStrictNames() Option {
	return func(c *config) {
		c.strictNames = true
	}
}

// Form coordinates the field controllers attached to it.
//
// Form is safe for concurrent use.
type Form struct {
	cfg      config
	registry *registry.Registry
	scope    *formctx.Scope
	handle   *Handle

	inflight atomic.Int32
	resolved atomic.Bool
}

// New creates a form with no fields.
func New(opts ...Option) *Form {
	cfg := config{classPrefix: DefaultClassPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	regOpts := []registry.Option{registry.WithLogger(cfg.logger)}
	if cfg.strictNames {
		regOpts = append(regOpts, registry.WithStrictNames())
	}

	f := &Form{
		cfg:      cfg,
		registry: registry.New(regOpts...),
		scope:    formctx.NewScope(),
	}
	f.handle = &Handle{form: f}
	return f
}

// Render starts a render pass declaring children fields, and publishes opts
// to them. Fields attach afterwards.
func (f *Form) Render(children int, opts formctx.Options) (formctx.Snapshot, error) {
	if err := opts.Validate(); err != nil {
		return formctx.Snapshot{}, ferrors.New("F011").Wrap(err)
	}
	snap := f.scope.Publish(opts)
	f.registry.Sync(children)
	return snap, nil
}

// Attach registers ctrl as the field at position pos of the current render.
func (f *Form) Attach(pos int, ctrl any) (*registry.Handle, error) {
	return f.registry.Attach(pos, ctrl)
}

// Detach unregisters a field, typically when it unmounts.
func (f *Form) Detach(h *registry.Handle) bool {
	return f.registry.Detach(h)
}

// Mount renders the form with one child per controller and attaches them
// in order. Nil controllers leave their slot vacant.
func (f *Form) Mount(opts formctx.Options, ctrls ...any) error {
	if _, err := f.Render(len(ctrls), opts); err != nil {
		return err
	}
	for pos, ctrl := range ctrls {
		if ctrl == nil {
			continue
		}
		if _, err := f.Attach(pos, ctrl); err != nil {
			return err
		}
	}
	return nil
}

// Registry returns the form's field registry.
func (f *Form) Registry() *registry.Registry {
	return f.registry
}

// Scope returns the shared options scope fields read from.
func (f *Form) Scope() *formctx.Scope {
	return f.scope
}

// Handle returns the form's external handle. The same pointer is returned
// for the lifetime of the form.
func (f *Form) Handle() *Handle {
	return f.handle
}

// Selector returns the CSS selector of the wrapper element of a field.
func (f *Form) Selector(name string) string {
	return "." + f.cfg.classPrefix + "-form-item__" + name
}
