package seq

import (
	"context"
	"fmt"

	"github.com/Muostafa/Chat-app-system-sub001/internal/logs"
)

const defaultSampleSize = 100

// ReconcileResult records one scope's comparison: the counter value before,
// the value after any correction, and whether a corrective set was issued.
type ReconcileResult struct {
	Scope     string `json:"scope"`
	Before    int64  `json:"before"`
	After     int64  `json:"after"`
	Corrected bool   `json:"corrected"`
	Err       error  `json:"-"`
}

// Reconciler raises counters that have fallen behind the durable maximum.
// The comparison and the corrective set are not atomic with respect to live
// allocations; a race only leaves the counter low enough that the allocator's
// own retry loop finishes the correction.
type Reconciler struct {
	counters   CounterStore
	durable    DurableStore
	sampleSize int
}

func NewReconciler(counters CounterStore, durable DurableStore, sampleSize int) *Reconciler {
	if sampleSize <= 0 {
		sampleSize = defaultSampleSize
	}
	return &Reconciler{counters: counters, durable: durable, sampleSize: sampleSize}
}

// compareScope reads both sides for one scope. Shared with the monitor, which
// performs the same read without ever correcting.
func compareScope(ctx context.Context, counters CounterStore, durable DurableStore, scope string) (counterVal, dbMax int64, err error) {
	dbMax, err = durable.MaxNumber(ctx, scope)
	if err != nil {
		return 0, 0, fmt.Errorf("reading durable max: %w", err)
	}
	counterVal, _, err = counters.Get(ctx, scope)
	if err != nil {
		return 0, 0, fmt.Errorf("reading counter: %w", err)
	}
	return counterVal, dbMax, nil
}

// Reconcile corrects a single scope. Idempotent: a second call without
// intervening allocations reports Corrected == false.
func (r *Reconciler) Reconcile(ctx context.Context, scope string) (ReconcileResult, error) {
	counterVal, dbMax, err := compareScope(ctx, r.counters, r.durable, scope)
	if err != nil {
		return ReconcileResult{Scope: scope}, err
	}

	res := ReconcileResult{Scope: scope, Before: counterVal, After: counterVal}
	if counterVal >= dbMax {
		return res, nil
	}

	if err := r.counters.Set(ctx, scope, dbMax); err != nil {
		return res, fmt.Errorf("correcting counter: %w", err)
	}
	res.After = dbMax
	res.Corrected = true
	logs.Logger.Warningf("reconciled scope %s: counter %d -> %d", scope, counterVal, dbMax)
	return res, nil
}

// ReconcileAll runs Reconcile over a bounded sample of known scopes. A failure
// in one scope is recorded in its result and does not abort the rest; the
// returned error covers only the sampling itself. Safe to run repeatedly and
// concurrently with live traffic.
func (r *Reconciler) ReconcileAll(ctx context.Context) ([]ReconcileResult, error) {
	scopes, err := r.durable.SampleScopes(ctx, r.sampleSize)
	if err != nil {
		return nil, fmt.Errorf("sampling scopes: %w", err)
	}

	results := make([]ReconcileResult, 0, len(scopes))
	for _, scope := range scopes {
		res, err := r.Reconcile(ctx, scope)
		if err != nil {
			res.Err = err
			logs.Logger.Errorf("reconciling scope %s: %v", scope, err)
		}
		results = append(results, res)
	}
	return results, nil
}
