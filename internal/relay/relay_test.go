package relay

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestEmitOrderPreserved(t *testing.T) {
	sender, stream := New[int]("counter_delta_relay", nil, nil, "")

	for i := 0; i < 5; i++ {
		sender.Emit(i)
	}

	for i := 0; i < 5; i++ {
		got, ok := stream.Next()
		if !ok {
			t.Fatalf("stream closed early at i=%d", i)
		}
		if got != i {
			t.Fatalf("want %d, got %d", i, got)
		}
	}
}

func TestEmitToDroppedConsumerIsNonBlocking(t *testing.T) {
	sender, stream := New[string]("thing_happened_relay", nil, nil, "")
	stream.Close()

	err := sender.TryEmit("x")
	if err == nil {
		t.Fatal("expected EmitError for dropped consumer")
	}

	// Emit (infallible) must never panic nor block.
	done := make(chan struct{})
	go func() {
		sender.Emit("y")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a dropped consumer")
	}
}

func TestSenderSurvivesConsumerDrop(t *testing.T) {
	sender, stream := New[int]("value_changed_relay", nil, nil, "")
	stream.Close()

	// Sender clones remain usable (they just discard).
	clone := sender
	if err := clone.TryEmit(1); err == nil {
		t.Fatal("expected error after consumer dropped")
	}
}

func TestChanRespectsContextCancellation(t *testing.T) {
	sender, stream := New[int]("value_changed_relay", nil, nil, "")
	ctx, cancel := context.WithCancel(context.Background())
	ch := stream.Chan(ctx)

	sender.Emit(1)
	if v := <-ch; v != 1 {
		t.Fatalf("want 1, got %d", v)
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected channel to close after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Chan did not close after context cancellation")
	}
}

func TestValidateNameRejectsImperatives(t *testing.T) {
	cases := map[string]bool{
		"file_dropped_relay":  true,
		"parse_completed_relay": true,
		"add_file":            false,
		"set_theme":           false,
		"file_dropped":        false, // missing _relay suffix
	}
	for name, wantOK := range cases {
		err := ValidateName(name)
		if (err == nil) != wantOK {
			t.Errorf("ValidateName(%q) = %v, want ok=%v", name, err, wantOK)
		}
	}
}

func TestConcurrentEmitIsRaceFree(t *testing.T) {
	sender, stream := New[int]("value_changed_relay", nil, nil, "")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			sender.Emit(v)
		}(i)
	}
	wg.Wait()

	seen := 0
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for seen < 20 {
		if _, ok := stream.next(ctx); !ok {
			t.Fatalf("stream closed early, only saw %d", seen)
		}
		seen++
	}
}
