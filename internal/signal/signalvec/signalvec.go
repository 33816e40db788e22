// Package signalvec is the diff-preserving counterpart of
// internal/signal for collections: a SignalVec observes a CellVec's
// change stream without ever collapsing it to a full snapshot, so a
// retained-mode consumer (internal/app/ui's termui list) can patch its
// widget directly from diffs instead of re-rendering on every change,
// per spec.md §3/§4.3's "collections must be consumable as diff streams"
// invariant.
package signalvec

import "github.com/novywave/reactivecore/internal/cell"

// SignalVec is the cold, lazy diff-stream counterpart of Signal.
type SignalVec[T any] struct {
	subscribe func(onDiff func(cell.VecDiff[T]), onClose func()) (cancel func())
}

// New builds a SignalVec from a raw subscribe function.
func New[T any](subscribe func(onDiff func(cell.VecDiff[T]), onClose func()) (cancel func())) SignalVec[T] {
	return SignalVec[T]{subscribe: subscribe}
}

// Subscribe registers a diff observer. The first diff delivered is
// always a synthetic Replace carrying the current contents (propagated
// up from the CellVec at the root of the chain), so a subscriber never
// needs a separate "give me the initial state" call.
func (sv SignalVec[T]) Subscribe(onDiff func(cell.VecDiff[T]), onClose func()) (cancel func()) {
	return sv.subscribe(onDiff, onClose)
}

// FromCellVec builds the read-only SignalVec side of a CellVec.
func FromCellVec[T any](c *cell.CellVec[T]) SignalVec[T] {
	return New(func(onDiff func(cell.VecDiff[T]), onClose func()) func() {
		return c.Listen(onDiff, onClose)
	})
}
