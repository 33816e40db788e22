package signal

import "github.com/novywave/reactivecore/internal/cell"

// FromCell builds the read-only Signal side of a Cell. This is the only
// sanctioned way to observe a Cell's value from outside its driver — there
// is deliberately no synchronous "peek" accessor (spec.md's Design Notes
// ban a synchronous read API so the cache-current-values idiom can't leak
// outside an actor).
func FromCell[T any](c *cell.Cell[T]) Signal[T] {
	return New(func(onValue func(T), onClose func()) func() {
		return c.Listen(onValue, onClose)
	})
}
