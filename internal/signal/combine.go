package signal

import "sync"

// Map2 is the two-input form of map_ref!: it waits until both sources
// have produced at least one value, then recomputes f on every update to
// either, deduping the combined output via eq (nil disables dedup).
func Map2[A, B, Out any](sa Signal[A], sb Signal[B], f func(A, B) Out, eq Equal[Out]) Signal[Out] {
	eq = orNever(eq)
	return Signal[Out]{subscribe: func(onValue func(Out), onClose func()) func() {
		var mu sync.Mutex
		var a A
		var b B
		var hasA, hasB, hasOut bool
		var last Out
		closed := 0

		maybeEmit := func() {
			if !hasA || !hasB {
				return
			}
			nv := f(a, b)
			if hasOut && eq(last, nv) {
				return
			}
			hasOut = true
			last = nv
			onValue(nv)
		}
		onSourceClose := func() {
			closed++
			if closed == 2 && onClose != nil {
				onClose()
			}
		}

		cancelA := sa.Subscribe(func(v A) {
			mu.Lock()
			defer mu.Unlock()
			a, hasA = v, true
			maybeEmit()
		}, onSourceClose)
		cancelB := sb.Subscribe(func(v B) {
			mu.Lock()
			defer mu.Unlock()
			b, hasB = v, true
			maybeEmit()
		}, onSourceClose)

		return func() { cancelA(); cancelB() }
	}}
}

// Map3 is the three-input form of map_ref!.
func Map3[A, B, C, Out any](sa Signal[A], sb Signal[B], sc Signal[C], f func(A, B, C) Out, eq Equal[Out]) Signal[Out] {
	eq = orNever(eq)
	return Signal[Out]{subscribe: func(onValue func(Out), onClose func()) func() {
		var mu sync.Mutex
		var a A
		var b B
		var c C
		var hasA, hasB, hasC, hasOut bool
		var last Out
		closed := 0

		maybeEmit := func() {
			if !hasA || !hasB || !hasC {
				return
			}
			nv := f(a, b, c)
			if hasOut && eq(last, nv) {
				return
			}
			hasOut = true
			last = nv
			onValue(nv)
		}
		onSourceClose := func() {
			closed++
			if closed == 3 && onClose != nil {
				onClose()
			}
		}

		cancelA := sa.Subscribe(func(v A) {
			mu.Lock()
			defer mu.Unlock()
			a, hasA = v, true
			maybeEmit()
		}, onSourceClose)
		cancelB := sb.Subscribe(func(v B) {
			mu.Lock()
			defer mu.Unlock()
			b, hasB = v, true
			maybeEmit()
		}, onSourceClose)
		cancelC := sc.Subscribe(func(v C) {
			mu.Lock()
			defer mu.Unlock()
			c, hasC = v, true
			maybeEmit()
		}, onSourceClose)

		return func() { cancelA(); cancelB(); cancelC() }
	}}
}

// CombineLatest fans in a fixed set of same-type signals into one
// Signal of their current values, recomputed whenever any one source
// changes, once all have produced an initial value. For use where the
// arity isn't known as a compile-time constant.
func CombineLatest[T any](signals []Signal[T]) Signal[[]T] {
	n := len(signals)
	return Signal[[]T]{subscribe: func(onValue func([]T), onClose func()) func() {
		var mu sync.Mutex
		values := make([]T, n)
		have := make([]bool, n)
		haveAll := false
		closed := 0

		cancels := make([]func(), n)
		for i := range signals {
			i := i
			cancels[i] = signals[i].Subscribe(func(v T) {
				mu.Lock()
				defer mu.Unlock()
				values[i] = v
				have[i] = true
				if !haveAll {
					haveAll = true
					for _, ok := range have {
						if !ok {
							haveAll = false
							break
						}
					}
				}
				if haveAll {
					snapshot := append([]T(nil), values...)
					onValue(snapshot)
				}
			}, func() {
				mu.Lock()
				closed++
				done := closed == n
				mu.Unlock()
				if done && onClose != nil {
					onClose()
				}
			})
		}

		return func() {
			for _, c := range cancels {
				c()
			}
		}
	}}
}
