// Package screens holds the per-screen state containers. Each screen
// instance is constructed fresh on mount and discarded on unmount;
// nothing here is shared across screens or persisted across
// navigations. Fetches started by a screen deliver their results
// through a Guard so a response that arrives after the screen was
// unmounted (or remounted) is discarded instead of corrupting newer
// state.
package screens

import (
	"sync"

	"github.com/google/uuid"
)

// Screen is the common lifecycle of a mounted view: an identity minted
// on mount and a lock owning the view's state.
type Screen struct {
	mu      sync.Mutex
	id      uuid.UUID
	mounted bool
}

// Mount gives the screen a fresh identity. Previously issued guards
// become stale.
func (s *Screen) Mount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = uuid.New()
	s.mounted = true
}

// Unmount discards interest in any in-flight results.
func (s *Screen) Unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mounted = false
}

// Guard captures the current mount identity. Results delivered through
// it only apply while that identity is still current.
func (s *Screen) Guard() Guard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Guard{screen: s, id: s.id}
}

// Guard is a capture of one mount of a screen.
type Guard struct {
	screen *Screen
	id     uuid.UUID
}

// Apply runs fn under the screen lock if the guard's mount is still the
// current one, and reports whether it ran.
func (g Guard) Apply(fn func()) bool {
	g.screen.mu.Lock()
	defer g.screen.mu.Unlock()
	if !g.screen.mounted || g.screen.id != g.id {
		return false
	}
	fn()
	return true
}
