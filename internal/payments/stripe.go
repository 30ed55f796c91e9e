// Package payments adapts external card-funding providers to the
// wallet engine's Facade. A funding provider is a pure caller of
// TopUp: it never reads or writes ledger state directly.
package payments

import (
	"context"
	"fmt"

	"walletengine/internal/engine"
	"walletengine/internal/models"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

// FundingRequest is a card-funding top-up: charge the card, then
// credit the wallet for the charged amount.
type FundingRequest struct {
	UserID      string
	AssetCode   string
	Amount      float64 // major units, e.g. dollars
	Currency    string  // ISO currency code for the card charge, e.g. "usd"
	CardToken   string  // Stripe token or test token (tok_visa, ...)
	Description string
}

// StripeFundingService charges a card via Stripe and, on success,
// tops up the caller's wallet through the Facade using the charge id
// as the idempotency key so a given charge is credited at most once.
type StripeFundingService struct {
	facade *engine.Facade
}

// NewStripeFundingService wires Stripe's secret key and returns an
// adapter bound to the given Facade.
func NewStripeFundingService(secretKey string, facade *engine.Facade) *StripeFundingService {
	stripe.Key = secretKey
	return &StripeFundingService{facade: facade}
}

// Fund charges the card and credits the wallet. The engine idempotency
// key is derived from the Stripe charge id alone, so one charge yields
// at most one top-up. No idempotency key is sent to Stripe: each call
// creates a new charge, and a retried request is charged and credited
// again.
func (s *StripeFundingService) Fund(ctx context.Context, req FundingRequest) (*engine.TransferResult, error) {
	if req.Amount <= 0 {
		return nil, engine.ValidationErr("funding amount must be positive")
	}

	params := &stripe.ChargeParams{
		Amount:      stripe.Int64(int64(req.Amount * 100)),
		Currency:    stripe.String(req.Currency),
		Description: stripe.String(req.Description),
	}
	params.SetSource(req.CardToken)

	ch, err := charge.New(params)
	if err != nil {
		return nil, fmt.Errorf("payments: stripe charge failed: %w", err)
	}
	if !ch.Paid {
		return nil, fmt.Errorf("payments: stripe charge %s was not paid", ch.ID)
	}

	idempotencyKey := "stripe-charge-" + ch.ID
	metadata := models.NewJSON(map[string]interface{}{
		"stripeChargeId": ch.ID,
	})

	return s.facade.TopUp(ctx, req.UserID, req.AssetCode, req.Amount, idempotencyKey, metadata)
}
