package engine

import "fmt"

// Kind classifies an Error so the transport layer can map it to a
// status code without inspecting message text.
type Kind string

const (
	KindValidation       Kind = "ValidationError"
	KindAssetNotFound    Kind = "AssetNotFound"
	KindWalletNotFound   Kind = "WalletNotFound"
	KindWalletInactive   Kind = "WalletInactive"
	KindAssetMismatch    Kind = "AssetMismatch"
	KindInvalidTransfer  Kind = "InvalidTransfer"
	KindInsufficientFund Kind = "InsufficientBalance"
	KindTransactionConf  Kind = "TransactionConflict"
	KindAmountExceeds    Kind = "AmountExceedsLimit"
	KindInternalStore    Kind = "InternalStoreError"
)

// Error is the engine's error taxonomy. Kind is stable and intended
// for switch-based mapping; Message is human-readable; Err (optional)
// wraps the underlying cause for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

func ValidationErr(message string) *Error { return newErr(KindValidation, message, nil) }

func AssetNotFoundErr(code string) *Error {
	return newErr(KindAssetNotFound, fmt.Sprintf("asset type %q not found or inactive", code), nil)
}

func WalletNotFoundErr(userID string) *Error {
	return newErr(KindWalletNotFound, fmt.Sprintf("wallet for user %q not found", userID), nil)
}

func WalletInactiveErr(accountID string) *Error {
	return newErr(KindWalletInactive, fmt.Sprintf("account %q is inactive", accountID), nil)
}

func AssetMismatchErr(message string) *Error { return newErr(KindAssetMismatch, message, nil) }

func InvalidTransferErr(message string) *Error { return newErr(KindInvalidTransfer, message, nil) }

func InsufficientBalanceErr(accountID string) *Error {
	return newErr(KindInsufficientFund, fmt.Sprintf("account %q has insufficient balance", accountID), nil)
}

func TransactionConflictErr(idempotencyKey string) *Error {
	return newErr(KindTransactionConf, fmt.Sprintf("could not resolve concurrent writer for key %q", idempotencyKey), nil)
}

func AmountExceedsLimitErr(limit float64) *Error {
	return newErr(KindAmountExceeds, fmt.Sprintf("amount exceeds configured maximum of %v", limit), nil)
}

func InternalStoreErr(cause error) *Error {
	return newErr(KindInternalStore, "unexpected store failure", cause)
}
