package sender

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestSameKeyJobsRunInOrder(t *testing.T) {
	d := NewDispatcher(Options{Workers: 4, QueueSize: 64})

	var (
		mu  sync.Mutex
		got []int
	)
	const adminChat = int64(900001)
	for i := 0; i < 50; i++ {
		i := i
		err := d.Enqueue(context.Background(), adminChat, "send.text", "sendMessage", func() error {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			return nil
		})
		if err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	d.Close()

	if len(got) != 50 {
		t.Fatalf("expected 50 executed jobs, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("jobs with one key ran out of order: position %d holds %d", i, v)
		}
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	d.Close()

	err := d.Enqueue(context.Background(), 1, "send.text", "sendMessage", func() error { return nil })
	if !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestEnqueueQueueFull(t *testing.T) {
	d := NewDispatcher(Options{Workers: 1, QueueSize: 1})
	defer d.Close()

	gate := make(chan struct{})
	block := func() error { <-gate; return nil }

	if err := d.Enqueue(context.Background(), 1, "send.text", "sendMessage", block); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	// Worker may or may not have picked up the first job yet; keep filling
	// until the queue rejects, which must happen within two accepted jobs.
	var full bool
	for i := 0; i < 2; i++ {
		err := d.Enqueue(context.Background(), 1, "send.text", "sendMessage", block)
		if errors.Is(err, ErrQueueFull) {
			full = true
			break
		}
		if err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	if !full {
		t.Fatal("expected ErrQueueFull once the worker queue saturated")
	}
	close(gate)
}
