package cell

import (
	"reflect"
	"testing"
)

// Scenario 4 from spec.md §8: a CellVec must broadcast the exact
// sequence of diffs for a script of mutations, and a late subscriber
// must see a single synthetic Replace carrying the current contents
// rather than replaying history.
func TestCellVecBroadcastsDiffSequence(t *testing.T) {
	c, w := newBareVec[string]("tabs", nil, nil)

	var diffs []VecDiff[string]
	cancel := c.Listen(func(d VecDiff[string]) { diffs = append(diffs, d) }, nil)
	defer cancel()

	w.Push("a")
	w.Push("b")
	w.InsertAt(1, "x")
	w.UpdateAt(0, "A")
	w.Move(2, 0)
	w.RemoveAt(1)
	w.Pop()

	wantKinds := []VecDiffKind{VecReplace, VecPush, VecPush, VecInsertAt, VecUpdateAt, VecMove, VecRemoveAt, VecPop}
	if len(diffs) != len(wantKinds) {
		t.Fatalf("got %d diffs %v, want %d", len(diffs), diffs, len(wantKinds))
	}
	for i, k := range wantKinds {
		if diffs[i].Kind != k {
			t.Fatalf("diff[%d].Kind = %v, want %v", i, diffs[i].Kind, k)
		}
	}

	c.mu.Lock()
	final := append([]string(nil), c.values...)
	c.mu.Unlock()
	want := []string{"x"}
	if !reflect.DeepEqual(final, want) {
		t.Fatalf("final contents = %v, want %v", final, want)
	}
}

func TestCellVecLateSubscriberSeesSnapshotNotHistory(t *testing.T) {
	c, w := newBareVec[int]("numbers", nil, nil)

	w.Push(1)
	w.Push(2)
	w.Push(3)

	var diffs []VecDiff[int]
	cancel := c.Listen(func(d VecDiff[int]) { diffs = append(diffs, d) }, nil)
	defer cancel()

	if len(diffs) != 1 {
		t.Fatalf("late subscriber got %d diffs, want exactly 1 synthetic Replace", len(diffs))
	}
	if diffs[0].Kind != VecReplace {
		t.Fatalf("late subscriber's first diff is %v, want Replace", diffs[0].Kind)
	}
	if !reflect.DeepEqual(diffs[0].Values, []int{1, 2, 3}) {
		t.Fatalf("synthetic Replace values = %v, want [1 2 3]", diffs[0].Values)
	}
}

func TestCellVecReentrantWritePanics(t *testing.T) {
	c, w := newBareVec[int]("loopback", nil, nil)

	c.Listen(func(d VecDiff[int]) {
		if d.Kind == VecPush && d.Value == 1 {
			w.Push(2)
		}
	}, nil)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic from the reentrant write")
		} else if _, ok := r.(ErrReentrantWrite); !ok {
			t.Fatalf("expected ErrReentrantWrite, got %#v", r)
		}
	}()

	w.Push(1)
	t.Fatal("unreachable")
}
