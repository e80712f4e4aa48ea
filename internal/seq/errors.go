package seq

import (
	"errors"
	"fmt"
)

var (
	// ErrScopeNotFound indicates the scope's parent entity does not exist.
	ErrScopeNotFound = errors.New("seq: scope not found")

	// ErrAllocationExhausted indicates the retry bound was hit. The counter
	// has drifted beyond what the retry loop self-corrects in one request;
	// reconciliation should run out-of-band.
	ErrAllocationExhausted = errors.New("seq: allocation retries exhausted")

	// ErrDuplicateNumber is the contract value an InsertFunc returns when the
	// durable store rejects the candidate on its unique (scope, number) index.
	ErrDuplicateNumber = errors.New("seq: duplicate sequence number")
)

// PersistenceError wraps a durable-store failure unrelated to numbering.
// Never retried by the allocator.
type PersistenceError struct {
	Scope string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("seq: persistence failure in scope %s: %v", e.Scope, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// AmbiguousCommitError reports an insert whose outcome is unknown: the call
// timed out and (Scope, Number) is now present in the durable store, so the
// insert may have committed. Retrying blindly could skip a number the caller
// actually owns; the caller decides, usually by re-reading its entity id.
type AmbiguousCommitError struct {
	Scope  string
	Number int64
	Err    error
}

func (e *AmbiguousCommitError) Error() string {
	return fmt.Sprintf("seq: commit outcome unknown for number %d in scope %s: %v", e.Number, e.Scope, e.Err)
}

func (e *AmbiguousCommitError) Unwrap() error { return e.Err }
