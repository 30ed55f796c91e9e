package handlers

import (
	"github.com/gofiber/fiber/v2"

	"walletengine/internal/payments"
)

// FundingHandler exposes card-funding top-ups through the Stripe
// adapter.
type FundingHandler struct {
	funding *payments.StripeFundingService
}

// NewFundingHandler wires a FundingHandler around a
// StripeFundingService.
func NewFundingHandler(funding *payments.StripeFundingService) *FundingHandler {
	return &FundingHandler{funding: funding}
}

type fundRequest struct {
	UserID    string  `json:"userId" validate:"required"`
	AssetCode string  `json:"assetCode" validate:"required"`
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"required"`
	CardToken string  `json:"cardToken" validate:"required"`
}

// Fund handles POST /api/wallets/fund: charge a card via Stripe, then
// top up the wallet for the charged amount.
func (h *FundingHandler) Fund(c *fiber.Ctx) error {
	var req fundRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}
	result, err := h.funding.Fund(c.Context(), payments.FundingRequest{
		UserID:      req.UserID,
		AssetCode:   req.AssetCode,
		Amount:      req.Amount,
		Currency:    req.Currency,
		CardToken:   req.CardToken,
		Description: "wallet funding",
	})
	if err != nil {
		return handleEngineErr(c, err)
	}
	return okReplay(c, result.Transaction, result.IsReplay)
}
