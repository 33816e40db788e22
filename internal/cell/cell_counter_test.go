package cell

import "testing"

// Scenario 1 from spec.md §8: a counter cell driven by a sequence of
// deltas (+1, -2, +1, +1) must yield the exact value sequence
// [0, 1, -1, 0, 1] to an observer subscribed before any writes,
// including the initial value on subscribe.
func TestCounterYieldsExactValueSequence(t *testing.T) {
	c, w := newBare[int]("counter", nil, nil, 0)

	var got []int
	cancel := c.Listen(func(v int) {
		got = append(got, v)
	}, nil)
	defer cancel()

	for _, delta := range []int{1, -2, 1, 1} {
		w.Update(func(cur *int) { *cur += delta })
	}

	want := []int{0, 1, -1, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestLateSubscriberSeesOnlyCurrentValue(t *testing.T) {
	c, w := newBare[int]("counter", nil, nil, 0)

	for _, delta := range []int{1, -2, 1, 1} {
		w.Update(func(cur *int) { *cur += delta })
	}

	var got []int
	cancel := c.Listen(func(v int) { got = append(got, v) }, nil)
	defer cancel()

	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("late subscriber got %v, want [1]", got)
	}
}
