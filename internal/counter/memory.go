package counter

import (
	"context"
	"sync"
)

// Memory is an in-process counter store keyed by scope. Counters start at
// zero, so the first Increment in a scope yields 1. All state is lost when
// the process exits; the reconciler rebuilds it from the durable store.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

// Increment atomically bumps the counter for scope and returns the new value.
func (m *Memory) Increment(ctx context.Context, scope string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[scope]++
	return m.counters[scope], nil
}

// Set overwrites the counter for scope. Used by the reconciler to raise a
// counter that has fallen behind the durable maximum.
func (m *Memory) Set(ctx context.Context, scope string, value int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[scope] = value
	return nil
}

// Get returns the current counter value and whether the scope has one.
func (m *Memory) Get(ctx context.Context, scope string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.counters[scope]
	return v, ok, nil
}

// Flush drops every counter, simulating a restart of the store.
func (m *Memory) Flush() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters = make(map[string]int64)
}
