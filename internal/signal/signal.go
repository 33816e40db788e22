// Package signal implements the core's cold, lazy, change-deduplicated
// read side: a Signal[T] only does work while it has at least one
// observer, and combinators (Map, Filter, MapRef-style combine) are built
// by composing subscribe functions rather than eagerly wiring a
// dataflow graph, so laziness falls out of the structure instead of
// needing separate refcounting, per spec.md §3/§4.3.
//
// Grounded on the teacher's select-loop consumer pattern
// (internal/handler/ws/delivery.go, internal/handler/grpc/delivery.go):
// there a connection's Recv() is drained in a loop for as long as
// something is listening; here the "listening" is a subscribe callback
// instead of a channel receive, because signal combinators need
// synchronous, ordered propagation to compose correctly (a map chained
// into another map must observe values in the order they changed, with
// no interleaving from a scheduler).
package signal

// Equal reports whether a and b are the same value for dedup purposes.
// Like cell.Equal, never assumed to be ==; callers supply it explicitly
// per spec.md's "explicit summary equality" Design Note.
type Equal[T any] func(a, b T) bool

// ComparableEqual builds an Equal from Go's built-in == for comparable
// types, for the common case where no custom summary equality is needed.
func ComparableEqual[T comparable]() Equal[T] {
	return func(a, b T) bool { return a == b }
}

func orNever[T any](eq Equal[T]) Equal[T] {
	if eq != nil {
		return eq
	}
	return func(T, T) bool { return false }
}

// Signal is a cold, observable latest-value stream: subscribing is the
// only thing that causes any work (including all of a combinator chain's
// upstream) to happen.
type Signal[T any] struct {
	subscribe func(onValue func(T), onClose func()) (cancel func())
}

// New builds a Signal from a raw subscribe function. Used by FromCell and
// by code outside this package that needs to bridge some other event
// source into a Signal.
func New[T any](subscribe func(onValue func(T), onClose func()) (cancel func())) Signal[T] {
	return Signal[T]{subscribe: subscribe}
}

// Subscribe registers onValue to be called with the current value
// immediately, then with every subsequent distinct value, synchronously,
// in order. onClose (optional) runs once when the upstream source
// terminates. The returned cancel function detaches the observer; once
// the last observer of a cold combinator chain cancels, the chain does
// no further work.
func (s Signal[T]) Subscribe(onValue func(T), onClose func()) (cancel func()) {
	return s.subscribe(onValue, onClose)
}

// Map transforms every value through f, suppressing re-emission when eq
// reports the mapped value is unchanged from the last one this Map
// emitted. Pass nil for eq to never suppress.
func Map[T, U any](s Signal[T], f func(T) U, eq Equal[U]) Signal[U] {
	eq = orNever(eq)
	return Signal[U]{subscribe: func(onValue func(U), onClose func()) func() {
		var has bool
		var last U
		return s.Subscribe(func(v T) {
			nv := f(v)
			if has && eq(last, nv) {
				return
			}
			has = true
			last = nv
			onValue(nv)
		}, onClose)
	}}
}

// Filter yields only values for which pred holds. An observer sees
// nothing until the first value that passes — there is no synthetic
// default, per spec.md §8's filter edge case.
func Filter[T any](s Signal[T], pred func(T) bool) Signal[T] {
	return Signal[T]{subscribe: func(onValue func(T), onClose func()) func() {
		return s.Subscribe(func(v T) {
			if pred(v) {
				onValue(v)
			}
		}, onClose)
	}}
}

// Dedupe suppresses consecutive equal values from a Signal that doesn't
// already dedupe at its source (e.g. one built from Cell.Set rather than
// SetIfChanged).
func Dedupe[T any](s Signal[T], eq Equal[T]) Signal[T] {
	eq = orNever(eq)
	return Signal[T]{subscribe: func(onValue func(T), onClose func()) func() {
		var has bool
		var last T
		return s.Subscribe(func(v T) {
			if has && eq(last, v) {
				return
			}
			has = true
			last = v
			onValue(v)
		}, onClose)
	}}
}

// Const returns a Signal that immediately yields v to every subscriber
// and never changes again — useful as a fixed input to MapRef-style
// combinators in tests.
func Const[T any](v T) Signal[T] {
	return Signal[T]{subscribe: func(onValue func(T), onClose func()) func() {
		onValue(v)
		return func() {}
	}}
}
