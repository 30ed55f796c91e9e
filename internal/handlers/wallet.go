package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/go-playground/validator/v10"

	"walletengine/internal/engine"
	"walletengine/internal/middleware"
	"walletengine/internal/models"
)

var validate = validator.New()

// WalletHandler exposes the balance/history/verify reads and the
// topup/bonus/spend writes over the Facade.
type WalletHandler struct {
	facade *engine.Facade
}

// NewWalletHandler wires a WalletHandler around an engine Facade.
func NewWalletHandler(facade *engine.Facade) *WalletHandler {
	return &WalletHandler{facade: facade}
}

// GetBalance handles GET /api/wallets/:userId/balance/:assetCode.
func (h *WalletHandler) GetBalance(c *fiber.Ctx) error {
	userID := c.Params("userId")
	assetCode := c.Params("assetCode")

	view, err := h.facade.GetBalance(c.Context(), userID, assetCode)
	if err != nil {
		return handleEngineErr(c, err)
	}
	return ok(c, fiber.StatusOK, view)
}

// GetHistory handles GET /api/wallets/:userId/history/:assetCode.
func (h *WalletHandler) GetHistory(c *fiber.Ctx) error {
	userID := c.Params("userId")
	assetCode := c.Params("assetCode")

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	history, err := h.facade.GetHistory(c.Context(), userID, assetCode, page, limit)
	if err != nil {
		return handleEngineErr(c, err)
	}
	return ok(c, fiber.StatusOK, history)
}

// VerifyLedger handles GET /api/wallets/:userId/verify/:assetCode.
func (h *WalletHandler) VerifyLedger(c *fiber.Ctx) error {
	userID := c.Params("userId")
	assetCode := c.Params("assetCode")

	report, err := h.facade.VerifyLedgerIntegrity(c.Context(), userID, assetCode)
	if err != nil {
		return handleEngineErr(c, err)
	}
	return ok(c, fiber.StatusOK, report)
}

type topUpRequest struct {
	UserID    string                 `json:"userId" validate:"required"`
	AssetCode string                 `json:"assetCode" validate:"required"`
	Amount    float64                `json:"amount" validate:"required,gt=0"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// TopUp handles POST /api/wallets/topup.
func (h *WalletHandler) TopUp(c *fiber.Ctx) error {
	var req topUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	key := middleware.IdempotencyKey(c)
	result, err := h.facade.TopUp(c.Context(), req.UserID, req.AssetCode, req.Amount, key, models.NewJSON(req.Metadata))
	if err != nil {
		return handleEngineErr(c, err)
	}
	return okReplay(c, result.Transaction, result.IsReplay)
}

type bonusRequest struct {
	UserID    string                 `json:"userId" validate:"required"`
	AssetCode string                 `json:"assetCode" validate:"required"`
	Amount    float64                `json:"amount" validate:"required,gt=0"`
	Reason    string                 `json:"reason" validate:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Bonus handles POST /api/wallets/bonus.
func (h *WalletHandler) Bonus(c *fiber.Ctx) error {
	var req bonusRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	key := middleware.IdempotencyKey(c)
	result, err := h.facade.Bonus(c.Context(), req.UserID, req.AssetCode, req.Amount, key, req.Reason, models.NewJSON(req.Metadata))
	if err != nil {
		return handleEngineErr(c, err)
	}
	return okReplay(c, result.Transaction, result.IsReplay)
}

type spendRequest struct {
	UserID    string                 `json:"userId" validate:"required"`
	AssetCode string                 `json:"assetCode" validate:"required"`
	Amount    float64                `json:"amount" validate:"required,gt=0"`
	ItemID    string                 `json:"itemId" validate:"required"`
	Metadata  map[string]interface{} `json:"metadata"`
}

// Spend handles POST /api/wallets/spend.
func (h *WalletHandler) Spend(c *fiber.Ctx) error {
	var req spendRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	key := middleware.IdempotencyKey(c)
	result, err := h.facade.Spend(c.Context(), req.UserID, req.AssetCode, req.Amount, key, req.ItemID, models.NewJSON(req.Metadata))
	if err != nil {
		return handleEngineErr(c, err)
	}
	return okReplay(c, result.Transaction, result.IsReplay)
}
