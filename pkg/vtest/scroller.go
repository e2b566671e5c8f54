package vtest

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/vango-dev/formkit/pkg/form"
)

// Scroller records scroll requests.
type Scroller struct {
	mu      sync.Mutex
	targets []form.Target
}

func (s *Scroller) ScrollIntoView(_ context.Context, target form.Target) {
	s.mu.Lock()
	s.targets = append(s.targets, target)
	s.mu.Unlock()
}

// Targets returns the recorded targets in order.
func (s *Scroller) Targets() []form.Target {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.targets)
}

// ExpectScrolledTo fails the test unless the last recorded target is name.
func ExpectScrolledTo(t testing.TB, s *Scroller, name string) {
	t.Helper()
	targets := s.Targets()
	if len(targets) == 0 {
		t.Errorf("expected scroll to %q, got none", name)
		return
	}
	if got := targets[len(targets)-1].Name; got != name {
		t.Errorf("scrolled to %q, want %q", got, name)
	}
}

// ExpectNoScroll fails the test if any target was recorded.
func ExpectNoScroll(t testing.TB, s *Scroller) {
	t.Helper()
	if targets := s.Targets(); len(targets) > 0 {
		t.Errorf("expected no scroll, got %d (first %q)", len(targets), targets[0].Name)
	}
}
