package signalvec

import (
	"github.com/novywave/reactivecore/internal/cell"
	"github.com/novywave/reactivecore/internal/signal"
)

// Number is the constraint for SumSignal's element type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// SumSignal maintains the running sum of a numeric SignalVec. It keeps a
// local mirror and recomputes the total by a full pass after each diff
// rather than tracking per-index deltas — the teacher's codebase favors
// a plain, obviously-correct loop over shaving work out of a rarely-hot
// aggregate, and a tracked-files byte-count or duration-total never
// holds more than a few hundred entries.
func SumSignal[T Number](sv SignalVec[T]) signal.Signal[T] {
	return signal.New(func(onValue func(T), onClose func()) func() {
		var mirror []T
		return sv.Subscribe(func(d cell.VecDiff[T]) {
			mirror = cell.ApplyVecDiff(mirror, d)
			var total T
			for _, v := range mirror {
				total += v
			}
			onValue(total)
		}, onClose)
	})
}

// CountSignal is Len under the name spec.md's §9 aggregate glossary uses.
func CountSignal[T any](sv SignalVec[T]) signal.Signal[int] {
	return Len(sv)
}
