package composer

import (
	"context"
	"testing"
	"time"

	"github.com/novywave/reactivecore/internal/cell"
	"github.com/novywave/reactivecore/internal/scheduler"
	"github.com/novywave/reactivecore/internal/signal/signalvec"
)

// TestCacheCurrentValuesScenario drives spec.md §8 scenario 5's exact
// sequence with the message_sent_relay feedback wired in, and checks that
// each send composes the latest cached user and text. It does not observe
// the cached text being reset after a send.
func TestCacheCurrentValuesScenario(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	c := New(ctx, scheduler.New(), nil, nil)

	sv := signalvec.FromCellVec(c.Outbox)
	diffs := sv.ToStream(ctx)
	// first diff is always the synthetic Replace of the (empty) outbox.
	if d := <-diffs; d.Kind != cell.VecReplace || len(d.Values) != 0 {
		t.Fatalf("first diff = %v, want empty Replace", d)
	}

	c.UserChanged.Emit("Ada")
	c.TextChanged.Emit("hi")
	c.SendPressed.Emit(struct{}{})
	c.TextChanged.Emit("hello")
	c.SendPressed.Emit(struct{}{})

	var got []Message
	for len(got) < 2 {
		select {
		case d := <-diffs:
			if d.Kind == cell.VecPush {
				got = append(got, d.Value)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for 2 pushed messages, got %v", got)
		}
	}

	want := []Message{{User: "Ada", Text: "hi"}, {User: "Ada", Text: "hello"}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}
