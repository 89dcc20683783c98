package watcher

import (
	"context"
	"testing"
	"time"
)

func TestDebouncer_BatchesBurst(t *testing.T) {
	input := make(chan ChangeEvent)
	d := NewDebouncer(input, 50*time.Millisecond, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < 3; i++ {
		input <- ChangeEvent{Paths: []string{"model.shx"}, Timestamp: time.Now()}
	}

	select {
	case event := <-d.Events():
		if len(event.Paths) != 3 {
			t.Errorf("Expected 3 accumulated paths, got %d", len(event.Paths))
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for debounced event")
	}

	// Quiet channel: no further flushes.
	select {
	case event := <-d.Events():
		t.Errorf("Unexpected extra event: %v", event.Paths)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_MaxWaitCapsDelay(t *testing.T) {
	input := make(chan ChangeEvent)
	d := NewDebouncer(input, 200*time.Millisecond, 300*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Keep the input busy so the quiet period never elapses.
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		timeout := time.After(time.Second)
		for {
			select {
			case <-ticker.C:
				select {
				case input <- ChangeEvent{Paths: []string{"model.shx"}, Timestamp: time.Now()}:
				case <-timeout:
					return
				}
			case <-timeout:
				return
			}
		}
	}()

	start := time.Now()
	select {
	case <-d.Events():
		if elapsed := time.Since(start); elapsed > 800*time.Millisecond {
			t.Errorf("Flush took %v, maxWait should have capped it near 300ms", elapsed)
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout: maxWait never flushed")
	}
	<-done
}

func TestDebouncer_FlushesOnShutdown(t *testing.T) {
	input := make(chan ChangeEvent, 1)
	d := NewDebouncer(input, time.Minute, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	input <- ChangeEvent{Paths: []string{"model.shx"}, Timestamp: time.Now()}
	time.Sleep(20 * time.Millisecond) // let the debouncer accumulate
	cancel()

	select {
	case event, ok := <-d.Events():
		if !ok {
			t.Fatal("Channel closed without the pending flush")
		}
		if len(event.Paths) != 1 {
			t.Errorf("Expected 1 pending path, got %d", len(event.Paths))
		}
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for shutdown flush")
	}
}
