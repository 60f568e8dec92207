package shutdown

import (
	"context"
	"testing"
	"time"
)

func TestShutdownRunsLIFO(t *testing.T) {
	m := New(time.Second)

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		m.Register(func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	m.Shutdown()

	want := []string{"third", "second", "first"}
	if len(order) != len(want) {
		t.Fatalf("ran %d shutdown funcs, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("shutdown order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

// A drain registered after the resource closers must complete before they
// run, so a worker can finish its in-flight writes against an open resource.
func TestShutdownDrainsWorkerBeforeClosers(t *testing.T) {
	m := New(time.Second)

	closed := false
	m.Register(func(ctx context.Context) error {
		closed = true
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan bool, 1)
	go func() {
		<-ctx.Done()
		// The resource must still be open while the worker wraps up
		done <- closed
	}()

	m.Register(func(shutdownCtx context.Context) error {
		cancel()
		select {
		case closedDuringDrain := <-done:
			if closedDuringDrain {
				t.Error("resource closed while the worker was still draining")
			}
			return nil
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
	})

	m.Shutdown()

	if !closed {
		t.Error("resource closer never ran")
	}
}
