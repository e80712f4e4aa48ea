// Package seq assigns dense per-scope sequence numbers using a fast atomic
// counter as the primary allocator and the durable store's unique index as
// the arbiter of record. The counter is a disposable cache; after it loses
// state the reconciler rebuilds it from the durable maximum, and until that
// happens the allocator's retry loop absorbs any collisions on its own.
package seq

import "context"

// CounterStore is the fast, atomic number source keyed by scope. The first
// Increment in a scope must yield 1.
type CounterStore interface {
	Increment(ctx context.Context, scope string) (int64, error)
	Set(ctx context.Context, scope string, value int64) error
	Get(ctx context.Context, scope string) (int64, bool, error)
}

// DurableStore is the read side of the system of record the core needs:
// scope existence, the true assigned maximum, membership of a single number,
// and a bounded sample of known scopes.
type DurableStore interface {
	ScopeExists(ctx context.Context, scope string) (bool, error)
	MaxNumber(ctx context.Context, scope string) (int64, error)
	NumberExists(ctx context.Context, scope string, number int64) (bool, error)
	SampleScopes(ctx context.Context, limit int) ([]string, error)
}

// InsertFunc attempts to persist an entity under the candidate number. It
// returns ErrDuplicateNumber when the unique (scope, number) index rejects
// the insert; any other error is treated as a persistence failure.
type InsertFunc func(ctx context.Context, number int64) error
