package cell

import "testing"

func equalInt(a, b int) bool { return a == b }

// Scenario 2 from spec.md §8: set_if_changed must suppress notification
// when the new value equals the current one (per the supplied Equal),
// while plain Set always notifies regardless of equality.
func TestSetIfChangedSuppressesDuplicateNotification(t *testing.T) {
	c, w := newBare[int]("theme", nil, equalInt, 5)

	var notifications []int
	cancel := c.Listen(func(v int) { notifications = append(notifications, v) }, nil)
	defer cancel()

	w.SetIfChanged(5) // no-op: equal to current
	w.SetIfChanged(7) // changes
	w.SetIfChanged(7) // no-op again
	w.Set(7)          // unconditional: notifies even though unchanged

	want := []int{5, 7, 7}
	if len(notifications) != len(want) {
		t.Fatalf("got %v, want %v", notifications, want)
	}
	for i := range want {
		if notifications[i] != want[i] {
			t.Fatalf("got %v, want %v", notifications, want)
		}
	}
}

func TestNilEqualNeverDedupes(t *testing.T) {
	c, w := newBare[int]("raw", nil, nil, 0)

	var count int
	cancel := c.Listen(func(int) { count++ }, nil)
	defer cancel()

	w.SetIfChanged(0)
	w.SetIfChanged(0)

	if count != 3 { // initial + 2 notifications, since nil Equal never treats values as equal
		t.Fatalf("got %d notifications, want 3", count)
	}
}
