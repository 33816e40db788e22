package cell

import "testing"

func TestCellMapBroadcastsDiffSequence(t *testing.T) {
	c, w := newBareMap[string, int]("scores", nil, nil)

	var diffs []MapDiff[string, int]
	cancel := c.Listen(func(d MapDiff[string, int]) { diffs = append(diffs, d) }, nil)
	defer cancel()

	w.Insert("alice", 1)
	w.Update("alice", 2)
	w.Insert("bob", 5)
	w.Remove("bob")
	w.Clear()

	wantKinds := []MapDiffKind{MapReplace, MapInsert, MapUpdate, MapInsert, MapRemove, MapClear}
	if len(diffs) != len(wantKinds) {
		t.Fatalf("got %d diffs, want %d", len(diffs), len(wantKinds))
	}
	for i, k := range wantKinds {
		if diffs[i].Kind != k {
			t.Fatalf("diff[%d].Kind = %v, want %v", i, diffs[i].Kind, k)
		}
	}

	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	if n != 0 {
		t.Fatalf("entries after Clear = %d, want 0", n)
	}
}

func TestCellMapLateSubscriberSeesSnapshot(t *testing.T) {
	c, w := newBareMap[string, int]("scores", nil, nil)
	w.Insert("alice", 1)
	w.Insert("bob", 2)

	var diffs []MapDiff[string, int]
	cancel := c.Listen(func(d MapDiff[string, int]) { diffs = append(diffs, d) }, nil)
	defer cancel()

	if len(diffs) != 1 || diffs[0].Kind != MapReplace {
		t.Fatalf("want exactly one synthetic Replace, got %v", diffs)
	}
	if len(diffs[0].Entries) != 2 {
		t.Fatalf("snapshot entries = %v, want 2 entries", diffs[0].Entries)
	}
}
