package formctx

import (
	"maps"
	"sync"
)

// Snapshot is the immutable view of a form's options for one render.
type Snapshot struct {
	// Generation increases by one on every Publish.
	Generation uint64

	LabelWidth         string
	StatusIcon         bool
	LabelAlign         LabelAlign
	Layout             Layout
	Size               Size
	Colon              bool
	RequiredMark       bool
	ScrollToFirstError ScrollBehavior
	ShowErrorMessage   bool
	ResetType          ResetType

	rules map[string]string
}

// Rule returns the rule-hint tag published for a field name.
func (s Snapshot) Rule(name string) (string, bool) {
	tag, ok := s.rules[name]
	return tag, ok
}

// Rules returns a copy of all published rule hints.
func (s Snapshot) Rules() map[string]string {
	return maps.Clone(s.rules)
}

// Default returns the snapshot an unpublished scope reports.
func Default() Snapshot {
	return resolve(Options{}, 0)
}

func resolve(o Options, gen uint64) Snapshot {
	s := Snapshot{
		Generation:         gen,
		LabelWidth:         o.LabelWidth,
		StatusIcon:         o.StatusIcon,
		LabelAlign:         o.LabelAlign,
		Layout:             o.Layout,
		Size:               o.Size,
		Colon:              o.Colon,
		RequiredMark:       true,
		ScrollToFirstError: o.ScrollToFirstError,
		ShowErrorMessage:   true,
		ResetType:          o.ResetType,
		rules:              maps.Clone(o.Rules),
	}
	if s.LabelAlign == "" {
		s.LabelAlign = LabelRight
	}
	if s.Layout == "" {
		s.Layout = LayoutVertical
	}
	if s.Size == "" {
		s.Size = SizeMedium
	}
	if s.ResetType == "" {
		s.ResetType = ResetEmpty
	}
	if o.RequiredMark != nil {
		s.RequiredMark = *o.RequiredMark
	}
	if o.ShowErrorMessage != nil {
		s.ShowErrorMessage = *o.ShowErrorMessage
	}
	return s
}

// Scope publishes snapshots to the fields of one form.
//
// Scope is safe for concurrent use.
type Scope struct {
	mu      sync.RWMutex
	current Snapshot
	gen     uint64
}

// NewScope creates a scope reporting Default until the first Publish.
func NewScope() *Scope {
	return &Scope{current: Default()}
}

// Publish resolves opts against the defaults and makes the result the
// current snapshot.
func (s *Scope) Publish(opts Options) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.current = resolve(opts, s.gen)
	return s.current
}

// Current returns the most recently published snapshot. A nil scope reports
// Default, so fields can be used outside a form.
func (s *Scope) Current() Snapshot {
	if s == nil {
		return Default()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
