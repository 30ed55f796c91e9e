/*
Package engine implements the transactional wallet engine: the
idempotency protocol, the atomic debit/credit protocol, and the
double-entry ledger that keeps cached balances and ledger history
consistent under concurrent, possibly-retried requests.

Usage:

	facade := engine.NewFacade(gormStore, balanceCache, metrics)

	result, err := facade.TopUp(ctx, userID, "GOLD", 100, idempotencyKey, nil)
	balance, err := facade.GetBalance(ctx, userID, "GOLD")
	report, err := facade.VerifyLedgerIntegrity(ctx, userID, "GOLD")

All state lives in the Store; Facade and TransferEngine are stateless
and safe for concurrent use by many request handlers.

executeTransfer algorithm:

 1. Idempotency lookup by (idempotencyKey, assetType). A hit returns
    the prior Transaction with isReplay=true, without touching any
    account.
 2. Validation: amount normalized to the asset's decimal places,
    source != destination, optional max-amount check.
 3. Insert a pending Transaction under the unique (idempotencyKey,
    assetType) index. A duplicate-key race means a concurrent writer
    won; the engine re-reads with bounded backoff and returns that
    Transaction as a replay.
 4. Conditional debit on the source, always followed by an
    unconditional credit on the destination — fixed mutation order,
    independent of how the two account ids sort. A failed debit fails
    the transaction with no side effects. A failed credit after a
    successful debit triggers best-effort compensation (reversing the
    debit).
 5. Two paired LedgerEntries, with bounded retry per side.
 6. The Transaction is marked completed or failed; failures after step
    3 always flip the Transaction to failed with the cause recorded.
*/
package engine
