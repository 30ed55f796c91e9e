package engine

import "time"

// Idempotency Guard backoff, bounded per the re-read-on-duplicate-key
// policy: exponential, capped attempts, capped total wait.
const (
	duplicateKeyMaxAttempts  = 5
	duplicateKeyInitialWait  = 10 * time.Millisecond
	duplicateKeyMaxTotalWait = 500 * time.Millisecond
)

// Ledger-write retry bound for the paired-write step of a transfer.
const ledgerWriteMaxAttempts = 3

// History pagination.
const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// Consistency tolerance for verifyLedgerIntegrity.
const ledgerConsistencyEpsilon = 1e-6

// MinIdempotencyKeyLength is the minimum trimmed length the engine
// accepts; shorter keys are rejected as ValidationError.
const MinIdempotencyKeyLength = 8
