package signalvec

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/novywave/reactivecore/internal/cell"
)

func newTestSignalVec[T any]() (SignalVec[T], func(cell.VecDiff[T])) {
	var mu sync.Mutex
	var listeners []func(cell.VecDiff[T])
	sv := New(func(onDiff func(cell.VecDiff[T]), onClose func()) func() {
		mu.Lock()
		listeners = append(listeners, onDiff)
		mu.Unlock()
		return func() {}
	})
	emit := func(d cell.VecDiff[T]) {
		mu.Lock()
		ls := append([]func(cell.VecDiff[T])(nil), listeners...)
		mu.Unlock()
		for _, l := range ls {
			l(d)
		}
	}
	return sv, emit
}

func TestMapPreservesDiffShape(t *testing.T) {
	sv, emit := newTestSignalVec[int]()
	doubled := Map(sv, func(v int) int { return v * 2 })

	var diffs []cell.VecDiff[int]
	cancel := doubled.Subscribe(func(d cell.VecDiff[int]) { diffs = append(diffs, d) }, nil)
	defer cancel()

	emit(cell.VecDiff[int]{Kind: cell.VecReplace, Values: []int{1, 2, 3}})
	emit(cell.VecDiff[int]{Kind: cell.VecInsertAt, Index: 1, Value: 10})

	if len(diffs) != 2 {
		t.Fatalf("got %d diffs, want 2", len(diffs))
	}
	if diffs[0].Kind != cell.VecReplace || diffs[0].Values[0] != 2 || diffs[0].Values[1] != 4 || diffs[0].Values[2] != 6 {
		t.Fatalf("replace diff not mapped correctly: %v", diffs[0])
	}
	if diffs[1].Kind != cell.VecInsertAt || diffs[1].Index != 1 || diffs[1].Value != 20 {
		t.Fatalf("insert diff not mapped correctly: %v", diffs[1])
	}
}

func TestFilterTranslatesIndices(t *testing.T) {
	sv, emit := newTestSignalVec[int]()
	evens := Filter(sv, func(v int) bool { return v%2 == 0 })

	var diffs []cell.VecDiff[int]
	cancel := evens.Subscribe(func(d cell.VecDiff[int]) { diffs = append(diffs, d) }, nil)
	defer cancel()

	emit(cell.VecDiff[int]{Kind: cell.VecReplace, Values: []int{1, 2, 3, 4, 5}})
	if diffs[0].Kind != cell.VecReplace {
		t.Fatalf("want Replace, got %v", diffs[0])
	}
	if len(diffs[0].Values) != 2 || diffs[0].Values[0] != 2 || diffs[0].Values[1] != 4 {
		t.Fatalf("filtered replace = %v, want [2 4]", diffs[0].Values)
	}

	// insert an odd number at source index 0: invisible to the filter
	emit(cell.VecDiff[int]{Kind: cell.VecInsertAt, Index: 0, Value: 7})
	if len(diffs) != 1 {
		t.Fatalf("expected insert of odd value to produce no filtered diff, got %v", diffs[len(diffs)-1])
	}

	// source is now [7,1,2,3,4,5]; insert an even number at source index 2
	// (between the 1 and the 2): should appear as filtered index 0.
	emit(cell.VecDiff[int]{Kind: cell.VecInsertAt, Index: 2, Value: 8})
	if len(diffs) != 2 {
		t.Fatalf("expected one filtered diff for the even insert, got %d", len(diffs))
	}
	last := diffs[len(diffs)-1]
	if last.Kind != cell.VecInsertAt || last.Index != 0 || last.Value != 8 {
		t.Fatalf("got %v, want InsertAt(0, 8)", last)
	}

	// update the newly inserted 8 to an odd value: must disappear (RemoveAt)
	emit(cell.VecDiff[int]{Kind: cell.VecUpdateAt, Index: 2, Value: 9})
	last = diffs[len(diffs)-1]
	if last.Kind != cell.VecRemoveAt || last.Index != 0 {
		t.Fatalf("got %v, want RemoveAt(0)", last)
	}
}

func TestLenTracksCountIncrementally(t *testing.T) {
	sv, emit := newTestSignalVec[string]()
	lengths := Len(sv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ch := lengths.ToStream(ctx)

	emit(cell.VecDiff[string]{Kind: cell.VecReplace, Values: []string{"a", "b"}})
	emit(cell.VecDiff[string]{Kind: cell.VecPush, Value: "c"})
	emit(cell.VecDiff[string]{Kind: cell.VecRemoveAt, Index: 0})
	emit(cell.VecDiff[string]{Kind: cell.VecClear})

	want := []int{2, 3, 2, 0}
	for i, w := range want {
		select {
		case v := <-ch:
			if v != w {
				t.Fatalf("value %d: got %d, want %d", i, v, w)
			}
		case <-ctx.Done():
			t.Fatalf("timed out waiting for value %d", i)
		}
	}
}

func TestToSignalCollapsesToSnapshot(t *testing.T) {
	sv, emit := newTestSignalVec[int]()
	snapshots := ToSignal(sv)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ch := snapshots.ToStream(ctx)

	emit(cell.VecDiff[int]{Kind: cell.VecReplace, Values: []int{1, 2}})
	emit(cell.VecDiff[int]{Kind: cell.VecPush, Value: 3})

	first := <-ch
	second := <-ch
	if len(first) != 2 || len(second) != 3 || second[2] != 3 {
		t.Fatalf("got %v then %v", first, second)
	}
}
