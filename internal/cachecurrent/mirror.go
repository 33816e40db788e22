// Package cachecurrent codifies the one idiom the core's "no synchronous
// read API" rule has a carved-out exception for: inside a single actor's
// driver goroutine, it is fine — and often the only way to compose
// several relay streams — to mirror each stream's latest value into a
// plain local and read them together when a trigger event fires.
//
// This is NOT a general-purpose cache. A Mirror has no locking: it is
// only ever safe to touch from the one goroutine that owns it, which is
// exactly why this idiom cannot be emulated from outside an actor (there
// is no "the" goroutine to own it). See internal/app/composer for the
// canonical use: three relay streams feeding a driver that composes them
// on a fourth.
package cachecurrent

// Mirror holds the most recently observed value of some stream, plus
// whether any value has arrived yet.
type Mirror[T any] struct {
	value T
	has   bool
}

// NewMirror builds an empty Mirror — Get returns ok=false until the
// first Update.
func NewMirror[T any]() *Mirror[T] {
	return &Mirror[T]{}
}

// NewMirrorWithInitial builds a Mirror pre-seeded with initial.
func NewMirrorWithInitial[T any](initial T) *Mirror[T] {
	return &Mirror[T]{value: initial, has: true}
}

// Update records v as the latest observed value.
func (m *Mirror[T]) Update(v T) {
	m.value = v
	m.has = true
}

// Get returns the latest observed value and whether one has arrived.
func (m *Mirror[T]) Get() (T, bool) {
	return m.value, m.has
}
