package signalvec

import (
	"github.com/novywave/reactivecore/internal/cell"
	"github.com/novywave/reactivecore/internal/signal"
)

// ToSignal collapses a diff stream down to a Signal carrying the full
// slice after every change.
//
// This is a deliberate escape hatch, not the default path: collapsing to
// a snapshot on every diff means a consumer that only cares about one
// changed element still reprocesses the whole collection, which is
// exactly the cost diff propagation exists to avoid. Reach for it when
// bridging to something that only understands whole values (e.g.
// serializing a snapshot for the debug graph's HTTP endpoint), never on
// a retained-mode UI's hot path — internal/app/ui patches its list
// widget straight from the SignalVec's diffs instead.
func ToSignal[T any](sv SignalVec[T]) signal.Signal[[]T] {
	return signal.New(func(onValue func([]T), onClose func()) func() {
		var mirror []T
		return sv.Subscribe(func(d cell.VecDiff[T]) {
			mirror = cell.ApplyVecDiff(mirror, d)
			onValue(append([]T(nil), mirror...))
		}, onClose)
	})
}
