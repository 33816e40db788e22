package signalvec

import "github.com/novywave/reactivecore/internal/cell"

// Map transforms every element through f, preserving diff shape exactly:
// an InsertAt stays an InsertAt at the same index, a Move stays a Move,
// and so on. Only the element-carrying fields (Value, Values) are
// touched.
func Map[T, U any](sv SignalVec[T], f func(T) U) SignalVec[U] {
	return New(func(onDiff func(cell.VecDiff[U]), onClose func()) func() {
		return sv.Subscribe(func(d cell.VecDiff[T]) {
			out := cell.VecDiff[U]{
				Kind:      d.Kind,
				Index:     d.Index,
				FromIndex: d.FromIndex,
				ToIndex:   d.ToIndex,
			}
			switch d.Kind {
			case cell.VecReplace:
				vals := make([]U, len(d.Values))
				for i, v := range d.Values {
					vals[i] = f(v)
				}
				out.Values = vals
			case cell.VecInsertAt, cell.VecUpdateAt, cell.VecPush:
				out.Value = f(d.Value)
			}
			onDiff(out)
		}, onClose)
	})
}
