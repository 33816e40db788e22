package cell

import (
	"context"
	"testing"
	"time"

	"github.com/novywave/reactivecore/internal/scheduler"
)

// Scenario 6 from spec.md §8: an observer that synchronously writes back
// to the cell it is observing is a circular signal dependency. The
// runtime must fail loudly — panic — rather than deadlock or loop
// forever.
func TestReentrantWritePanics(t *testing.T) {
	c, w := newBare[int]("loopback", nil, nil, 0)

	c.Listen(func(v int) {
		if v == 1 {
			w.Set(2) // reentrant: still inside the write(1) call that invoked us
		}
	}, nil)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic from the reentrant write")
		}
		if _, ok := r.(ErrReentrantWrite); !ok {
			t.Fatalf("expected ErrReentrantWrite, got %#v", r)
		}
	}()

	w.Set(1)
	t.Fatal("unreachable: write should have panicked before returning")
}

// Wired through a real driver (as a reentrant signal-observer bug would
// surface in practice), the panic is caught by runDriver's recover and
// terminates the cell: no deadlock, no silent infinite loop, and no
// further notifications reach observers.
func TestDriverPanicFromReentrancyClosesCell(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var c *Cell[int]
	started := make(chan struct{})
	c = New[int](ctx, scheduler.New(), "loopback", nil, nil, 0, func(ctx context.Context, w *WriteHandle[int]) {
		c.Listen(func(v int) {
			if v == 1 {
				w.Set(2)
			}
		}, nil)
		close(started)
		w.Set(1)
		<-ctx.Done() // unreachable: the Set above panics and unwinds the driver
	})

	<-started

	closed := make(chan struct{})
	c.Listen(noop, func() { close(closed) })

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("cell did not close after its driver panicked")
	}
}

func noop(int) {}
