package signalvec

import "github.com/novywave/reactivecore/internal/cell"

// Filter yields only the elements for which pred holds, translating
// every source diff into the filtered index space. It keeps a local
// mirror of the source's values and inclusion state per subscriber —
// necessary because, unlike Map, a filtered diff's index generally
// differs from the source diff's index, and RemoveAt/Pop/Move carry no
// value to re-evaluate pred against.
func Filter[T any](sv SignalVec[T], pred func(T) bool) SignalVec[T] {
	return New(func(onDiff func(cell.VecDiff[T]), onClose func()) func() {
		var mirror []T
		var included []bool

		countTrue := func(bs []bool) int {
			n := 0
			for _, b := range bs {
				if b {
					n++
				}
			}
			return n
		}

		return sv.Subscribe(func(d cell.VecDiff[T]) {
			switch d.Kind {
			case cell.VecReplace:
				mirror = append([]T(nil), d.Values...)
				included = make([]bool, len(mirror))
				filtered := make([]T, 0, len(mirror))
				for i, v := range mirror {
					inc := pred(v)
					included[i] = inc
					if inc {
						filtered = append(filtered, v)
					}
				}
				onDiff(cell.VecDiff[T]{Kind: cell.VecReplace, Values: filtered})

			case cell.VecInsertAt:
				i := d.Index
				inc := pred(d.Value)
				fi := countTrue(included[:i])
				mirror = insertT(mirror, i, d.Value)
				included = insertBool(included, i, inc)
				if inc {
					onDiff(cell.VecDiff[T]{Kind: cell.VecInsertAt, Index: fi, Value: d.Value})
				}

			case cell.VecPush:
				inc := pred(d.Value)
				mirror = append(mirror, d.Value)
				included = append(included, inc)
				if inc {
					onDiff(cell.VecDiff[T]{Kind: cell.VecPush, Value: d.Value})
				}

			case cell.VecUpdateAt:
				i := d.Index
				wasInc := included[i]
				nowInc := pred(d.Value)
				fi := countTrue(included[:i])
				mirror[i] = d.Value
				included[i] = nowInc
				switch {
				case wasInc && nowInc:
					onDiff(cell.VecDiff[T]{Kind: cell.VecUpdateAt, Index: fi, Value: d.Value})
				case wasInc && !nowInc:
					onDiff(cell.VecDiff[T]{Kind: cell.VecRemoveAt, Index: fi})
				case !wasInc && nowInc:
					onDiff(cell.VecDiff[T]{Kind: cell.VecInsertAt, Index: fi, Value: d.Value})
				}

			case cell.VecRemoveAt:
				i := d.Index
				wasInc := included[i]
				fi := countTrue(included[:i])
				mirror = removeT(mirror, i)
				included = removeBool(included, i)
				if wasInc {
					onDiff(cell.VecDiff[T]{Kind: cell.VecRemoveAt, Index: fi})
				}

			case cell.VecPop:
				i := len(mirror) - 1
				if i < 0 {
					return
				}
				wasInc := included[i]
				mirror = mirror[:i]
				included = included[:i]
				if wasInc {
					onDiff(cell.VecDiff[T]{Kind: cell.VecPop})
				}

			case cell.VecClear:
				mirror = nil
				included = nil
				onDiff(cell.VecDiff[T]{Kind: cell.VecClear})

			case cell.VecMove:
				from, to := d.FromIndex, d.ToIndex
				wasInc := included[from]
				v := mirror[from]
				fiFrom := countTrue(included[:from])
				mirror = removeT(mirror, from)
				included = removeBool(included, from)
				mirror = insertT(mirror, to, v)
				included = insertBool(included, to, wasInc)
				if wasInc {
					fiTo := countTrue(included[:to])
					if fiFrom != fiTo {
						onDiff(cell.VecDiff[T]{Kind: cell.VecMove, FromIndex: fiFrom, ToIndex: fiTo})
					}
				}
			}
		}, onClose)
	})
}

func insertT[T any](s []T, i int, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	out = append(out, s[i:]...)
	return out
}

func removeT[T any](s []T, i int) []T {
	out := make([]T, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}

func insertBool(s []bool, i int, v bool) []bool {
	out := make([]bool, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, v)
	out = append(out, s[i:]...)
	return out
}

func removeBool(s []bool, i int) []bool {
	out := make([]bool, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out
}
