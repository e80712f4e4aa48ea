package counter_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/Muostafa/Chat-app-system-sub001/internal/counter"
)

func TestIncrementStartsAtOne(t *testing.T) {
	m := counter.NewMemory()
	ctx := context.Background()

	n, err := m.Increment(ctx, "chats:app1")
	if err != nil {
		t.Fatalf("incrementing: %v", err)
	}
	if n != 1 {
		t.Errorf("first increment = %d, want 1", n)
	}
}

func TestIncrementScopesAreIndependent(t *testing.T) {
	m := counter.NewMemory()
	ctx := context.Background()

	m.Increment(ctx, "chats:app1")
	m.Increment(ctx, "chats:app1")
	n, _ := m.Increment(ctx, "chats:app2")
	if n != 1 {
		t.Errorf("fresh scope increment = %d, want 1", n)
	}
}

func TestConcurrentIncrementsAreDistinct(t *testing.T) {
	m := counter.NewMemory()
	ctx := context.Background()
	const workers = 50

	results := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := m.Increment(ctx, "messages:chat7")
			if err != nil {
				t.Errorf("incrementing: %v", err)
				return
			}
			results <- n
		}()
	}
	wg.Wait()
	close(results)

	var got []int64
	for n := range results {
		got = append(got, n)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, n := range got {
		if n != int64(i+1) {
			t.Fatalf("result[%d] = %d, want %d (set must be exactly 1..%d)", i, n, i+1, workers)
		}
	}
}

func TestSetAndGet(t *testing.T) {
	m := counter.NewMemory()
	ctx := context.Background()

	if _, ok, _ := m.Get(ctx, "chats:app1"); ok {
		t.Fatal("expected absent counter before first use")
	}

	if err := m.Set(ctx, "chats:app1", 42); err != nil {
		t.Fatalf("setting: %v", err)
	}
	v, ok, err := m.Get(ctx, "chats:app1")
	if err != nil {
		t.Fatalf("getting: %v", err)
	}
	if !ok || v != 42 {
		t.Errorf("got (%d, %v), want (42, true)", v, ok)
	}

	n, _ := m.Increment(ctx, "chats:app1")
	if n != 43 {
		t.Errorf("increment after set = %d, want 43", n)
	}
}

func TestFlushDropsAllState(t *testing.T) {
	m := counter.NewMemory()
	ctx := context.Background()

	m.Increment(ctx, "chats:app1")
	m.Increment(ctx, "messages:chat7")
	m.Flush()

	if _, ok, _ := m.Get(ctx, "chats:app1"); ok {
		t.Error("expected counter gone after flush")
	}
	n, _ := m.Increment(ctx, "messages:chat7")
	if n != 1 {
		t.Errorf("increment after flush = %d, want 1", n)
	}
}

func TestCancelledContext(t *testing.T) {
	m := counter.NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Increment(ctx, "chats:app1"); err == nil {
		t.Error("expected error from cancelled context")
	}
}
