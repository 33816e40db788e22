package signalvec

import (
	"github.com/novywave/reactivecore/internal/cell"
	"github.com/novywave/reactivecore/internal/signal"
)

// Len projects a SignalVec down to a Signal of its element count,
// maintained incrementally from the diff kinds rather than by
// re-counting a mirrored slice on every change.
func Len[T any](sv SignalVec[T]) signal.Signal[int] {
	return signal.New(func(onValue func(int), onClose func()) func() {
		n := 0
		return sv.Subscribe(func(d cell.VecDiff[T]) {
			switch d.Kind {
			case cell.VecReplace:
				n = len(d.Values)
			case cell.VecInsertAt, cell.VecPush:
				n++
			case cell.VecRemoveAt, cell.VecPop:
				n--
			case cell.VecClear:
				n = 0
			case cell.VecUpdateAt, cell.VecMove:
				// length unchanged
			}
			onValue(n)
		}, onClose)
	})
}
