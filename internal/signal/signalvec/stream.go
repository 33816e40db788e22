package signalvec

import (
	"context"
	"sync"

	"github.com/novywave/reactivecore/internal/cell"
)

// ToStream bridges a SignalVec's callback subscription to a channel of
// raw diffs, never collapsing to a snapshot the way ToSignal does.
func (sv SignalVec[T]) ToStream(ctx context.Context) <-chan cell.VecDiff[T] {
	q := &diffQueue[T]{}
	q.cond = sync.NewCond(&q.mu)

	cancel := sv.Subscribe(func(d cell.VecDiff[T]) {
		q.mu.Lock()
		q.items = append(q.items, d)
		q.cond.Signal()
		q.mu.Unlock()
	}, func() {
		q.mu.Lock()
		q.closed = true
		q.cond.Broadcast()
		q.mu.Unlock()
	})

	out := make(chan cell.VecDiff[T])
	go func() {
		defer close(out)
		defer cancel()
		for {
			q.mu.Lock()
			for len(q.items) == 0 && !q.closed {
				q.cond.Wait()
			}
			if len(q.items) == 0 {
				q.mu.Unlock()
				return
			}
			d := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		<-ctx.Done()
		q.mu.Lock()
		q.closed = true
		q.cond.Broadcast()
		q.mu.Unlock()
	}()
	return out
}

type diffQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []cell.VecDiff[T]
	closed bool
}
