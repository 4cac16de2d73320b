// Package input holds the keyboard and pointer state reported by the map
// surface. A Tracker is passed explicitly to whatever needs it.
package input

import "sync"

// CollectKey is the key code that must be held to collect vertices (shift).
const CollectKey = 16

// Tracker records held keys and the last pointer position.
type Tracker struct {
	mu      sync.RWMutex
	pressed map[int]struct{}
	x, y    float64
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{pressed: make(map[int]struct{})}
}

// Press marks key as held.
func (t *Tracker) Press(key int) {
	t.mu.Lock()
	t.pressed[key] = struct{}{}
	t.mu.Unlock()
}

// Release marks key as no longer held.
func (t *Tracker) Release(key int) {
	t.mu.Lock()
	delete(t.pressed, key)
	t.mu.Unlock()
}

// IsPressed reports whether key is currently held.
func (t *Tracker) IsPressed(key int) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.pressed[key]
	return ok
}

// MoveTo records the pointer position in page coordinates.
func (t *Tracker) MoveTo(x, y float64) {
	t.mu.Lock()
	t.x, t.y = x, y
	t.mu.Unlock()
}

// Pointer returns the last known pointer position.
func (t *Tracker) Pointer() (x, y float64) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.x, t.y
}
