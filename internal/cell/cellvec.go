package cell

import (
	"context"
	"sync"

	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/scheduler"
)

// VecWriteHandle is the private capability to mutate a CellVec, held only
// by its driver.
type VecWriteHandle[T any] struct {
	c *CellVec[T]
}

func (w *VecWriteHandle[T]) Replace(values []T) {
	d := vecReplace(values)
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}
func (w *VecWriteHandle[T]) InsertAt(i int, v T) {
	d := vecInsertAt(i, v)
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}
func (w *VecWriteHandle[T]) UpdateAt(i int, v T) {
	d := vecUpdateAt(i, v)
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}
func (w *VecWriteHandle[T]) RemoveAt(i int) {
	d := vecRemoveAt[T](i)
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}
func (w *VecWriteHandle[T]) Push(v T) {
	d := vecPush(v)
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}
func (w *VecWriteHandle[T]) Pop() {
	d := vecPop[T]()
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}
func (w *VecWriteHandle[T]) Clear() {
	d := vecClear[T]()
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}
func (w *VecWriteHandle[T]) Move(from, to int) {
	d := vecMove[T](from, to)
	w.c.emit(d, func(s []T) []T { return ApplyVecDiff(s, d) })
}

type vecListenerEntry[T any] struct {
	id      int
	active  bool
	onDiff  func(VecDiff[T])
	onClose func()
}

// CellVec is the single-owner reactive vector: observers subscribe to a
// diff stream (internal/signal/signalvec.FromCellVec) seeded with a
// synthetic Replace of the current contents, rather than re-deriving the
// whole collection on every change.
//
// Grounded on the teacher's registry.Hub sharded session map for the
// single-writer-per-entity discipline; the diff vocabulary itself follows
// the futures-signals style collection change-set this spec is modeled
// on (spec.md §3).
type CellVec[T any] struct {
	name string
	log  *obslog.Logger

	mu        sync.Mutex
	values    []T
	writing   bool
	closed    bool
	listeners []*vecListenerEntry[T]
	nextID    int
}

// VecDriverFunc is the sole writer of a CellVec's contents.
type VecDriverFunc[T any] func(ctx context.Context, w *VecWriteHandle[T])

// NewVec constructs a CellVec and spawns its driver via sched.
func NewVec[T any](ctx context.Context, sched scheduler.Scheduler, name string, log *obslog.Logger, initial []T, driver VecDriverFunc[T]) *CellVec[T] {
	c, w := newBareVec[T](name, log, initial)
	sched.Spawn(ctx, func(ctx context.Context) {
		c.runDriver(ctx, driver, w)
	})
	return c
}

func newBareVec[T any](name string, log *obslog.Logger, initial []T) (*CellVec[T], *VecWriteHandle[T]) {
	c := &CellVec[T]{name: name, log: log, values: append([]T(nil), initial...)}
	return c, &VecWriteHandle[T]{c: c}
}

func (c *CellVec[T]) runDriver(ctx context.Context, driver VecDriverFunc[T], w *VecWriteHandle[T]) {
	defer func() {
		if r := recover(); r != nil {
			if c.log != nil {
				c.log.Error("cellvec driver panicked", "cellvec", c.name, "panic", obslog.Summary(r))
			}
		}
		c.close()
	}()
	driver(ctx, w)
}

// emit applies apply to the current mirror under the reentrancy guard and
// broadcasts diff, mirroring Cell.write's synchronous fan-out.
func (c *CellVec[T]) emit(diff VecDiff[T], apply func([]T) []T) {
	c.mu.Lock()
	if c.writing {
		name := c.name
		c.mu.Unlock()
		panic(ErrReentrantWrite{Cell: name})
	}
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.writing = true
	c.values = apply(c.values)
	listeners := c.snapshotListenersLocked()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(diff)
	}

	c.mu.Lock()
	c.writing = false
	c.mu.Unlock()
}

func (c *CellVec[T]) snapshotListenersLocked() []func(VecDiff[T]) {
	live := c.listeners[:0]
	out := make([]func(VecDiff[T]), 0, len(c.listeners))
	for _, e := range c.listeners {
		if !e.active {
			continue
		}
		live = append(live, e)
		out = append(out, e.onDiff)
	}
	c.listeners = live
	return out
}

// Listen registers a synchronous diff observer. A synthetic Replace diff
// carrying the current contents is delivered immediately, before any
// future diff, regardless of when the observer subscribes — this is what
// lets a late-joining retained-mode UI bootstrap itself from nothing but
// the diff stream.
func (c *CellVec[T]) Listen(onDiff func(VecDiff[T]), onClose func()) (cancel func()) {
	c.mu.Lock()
	if c.closed {
		snapshot := vecReplace(c.values)
		c.mu.Unlock()
		onDiff(snapshot)
		if onClose != nil {
			onClose()
		}
		return func() {}
	}
	c.nextID++
	id := c.nextID
	entry := &vecListenerEntry[T]{id: id, active: true, onDiff: onDiff, onClose: onClose}
	c.listeners = append(c.listeners, entry)
	snapshot := vecReplace(c.values)
	c.mu.Unlock()

	onDiff(snapshot)

	return func() {
		c.mu.Lock()
		entry.active = false
		c.mu.Unlock()
	}
}

// Name reports the cellvec's debug name.
func (c *CellVec[T]) Name() string { return c.name }

func (c *CellVec[T]) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	entries := c.listeners
	c.listeners = nil
	c.mu.Unlock()

	for _, e := range entries {
		if e.active && e.onClose != nil {
			e.onClose()
		}
	}
}
