package cell

import (
	"context"
	"sync"

	"github.com/novywave/reactivecore/internal/obslog"
	"github.com/novywave/reactivecore/internal/scheduler"
)

// MapWriteHandle is the private capability to mutate a CellMap, held only
// by its driver.
type MapWriteHandle[K comparable, V any] struct {
	c *CellMap[K, V]
}

func (w *MapWriteHandle[K, V]) Insert(k K, v V) {
	w.c.emit(mapInsert(k, v), func(m map[K]V) map[K]V {
		m[k] = v
		return m
	})
}
func (w *MapWriteHandle[K, V]) Update(k K, v V) {
	w.c.emit(mapUpdate(k, v), func(m map[K]V) map[K]V {
		m[k] = v
		return m
	})
}
func (w *MapWriteHandle[K, V]) Remove(k K) {
	w.c.emit(mapRemove[K, V](k), func(m map[K]V) map[K]V {
		delete(m, k)
		return m
	})
}
func (w *MapWriteHandle[K, V]) Clear() {
	w.c.emit(mapClear[K, V](), func(m map[K]V) map[K]V { return map[K]V{} })
}
func (w *MapWriteHandle[K, V]) Replace(entries map[K]V) {
	w.c.emit(mapReplace(entries), func(m map[K]V) map[K]V {
		cp := make(map[K]V, len(entries))
		for k, v := range entries {
			cp[k] = v
		}
		return cp
	})
}

type mapListenerEntry[K comparable, V any] struct {
	id      int
	active  bool
	onDiff  func(MapDiff[K, V])
	onClose func()
}

// CellMap is the single-owner reactive map, the keyed counterpart to
// CellVec: observers get a synthetic Replace of the current entries on
// subscribe, then incremental Insert/Update/Remove/Clear diffs.
type CellMap[K comparable, V any] struct {
	name string
	log  *obslog.Logger

	mu        sync.Mutex
	entries   map[K]V
	writing   bool
	closed    bool
	listeners []*mapListenerEntry[K, V]
	nextID    int
}

// MapDriverFunc is the sole writer of a CellMap's contents.
type MapDriverFunc[K comparable, V any] func(ctx context.Context, w *MapWriteHandle[K, V])

// NewMap constructs a CellMap and spawns its driver via sched.
func NewMap[K comparable, V any](ctx context.Context, sched scheduler.Scheduler, name string, log *obslog.Logger, initial map[K]V, driver MapDriverFunc[K, V]) *CellMap[K, V] {
	c, w := newBareMap[K, V](name, log, initial)
	sched.Spawn(ctx, func(ctx context.Context) {
		c.runDriver(ctx, driver, w)
	})
	return c
}

func newBareMap[K comparable, V any](name string, log *obslog.Logger, initial map[K]V) (*CellMap[K, V], *MapWriteHandle[K, V]) {
	entries := make(map[K]V, len(initial))
	for k, v := range initial {
		entries[k] = v
	}
	c := &CellMap[K, V]{name: name, log: log, entries: entries}
	return c, &MapWriteHandle[K, V]{c: c}
}

func (c *CellMap[K, V]) runDriver(ctx context.Context, driver MapDriverFunc[K, V], w *MapWriteHandle[K, V]) {
	defer func() {
		if r := recover(); r != nil {
			if c.log != nil {
				c.log.Error("cellmap driver panicked", "cellmap", c.name, "panic", obslog.Summary(r))
			}
		}
		c.close()
	}()
	driver(ctx, w)
}

func (c *CellMap[K, V]) emit(diff MapDiff[K, V], apply func(map[K]V) map[K]V) {
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
	c.entries = apply(c.entries)
	listeners := c.snapshotListenersLocked()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(diff)
	}

	c.mu.Lock()
	c.writing = false
	c.mu.Unlock()
}

func (c *CellMap[K, V]) snapshotListenersLocked() []func(MapDiff[K, V]) {
	live := c.listeners[:0]
	out := make([]func(MapDiff[K, V]), 0, len(c.listeners))
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

// Listen registers a synchronous diff observer, seeded with a synthetic
// Replace of the current entries.
func (c *CellMap[K, V]) Listen(onDiff func(MapDiff[K, V]), onClose func()) (cancel func()) {
	c.mu.Lock()
	if c.closed {
		snapshot := mapReplace(c.entries)
		c.mu.Unlock()
		onDiff(snapshot)
		if onClose != nil {
			onClose()
		}
		return func() {}
	}
	c.nextID++
	id := c.nextID
	entry := &mapListenerEntry[K, V]{id: id, active: true, onDiff: onDiff, onClose: onClose}
	c.listeners = append(c.listeners, entry)
	snapshot := mapReplace(c.entries)
	c.mu.Unlock()

	onDiff(snapshot)

	return func() {
		c.mu.Lock()
		entry.active = false
		c.mu.Unlock()
	}
}

// Name reports the cellmap's debug name.
func (c *CellMap[K, V]) Name() string { return c.name }

func (c *CellMap[K, V]) close() {
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
