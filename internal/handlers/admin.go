package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"walletengine/internal/models"
)

// AdminHandler exposes asset-type/account provisioning and read-only
// reporting. It is explicitly out-of-core: it talks to the database
// directly rather than through the engine's Store contract, since
// none of it participates in the transfer algorithm.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler wires an AdminHandler around the global GORM handle.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

type createAssetTypeRequest struct {
	Code          string `json:"code" validate:"required"`
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description"`
	DecimalPlaces int    `json:"decimalPlaces" validate:"gte=0,lte=8"`
}

// CreateAssetType handles POST /api/admin/asset-types.
func (h *AdminHandler) CreateAssetType(c *fiber.Ctx) error {
	var req createAssetTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	at := models.AssetType{
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:          req.Name,
		Description:   req.Description,
		DecimalPlaces: req.DecimalPlaces,
		IsActive:      true,
	}
	if err := h.db.Create(&at).Error; err != nil {
		return fail(c, fiber.StatusConflict, "asset type code already exists")
	}
	return ok(c, fiber.StatusCreated, at)
}

// ListAssetTypes handles GET /api/admin/asset-types.
func (h *AdminHandler) ListAssetTypes(c *fiber.Ctx) error {
	var assetTypes []models.AssetType
	if err := h.db.Find(&assetTypes).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "failed to list asset types")
	}
	return ok(c, fiber.StatusOK, assetTypes)
}

type createAccountRequest struct {
	UserID      string                 `json:"userId" validate:"required"`
	AccountType string                 `json:"accountType" validate:"required,oneof=user system"`
	AssetCode   string                 `json:"assetCode" validate:"required"`
	DisplayName string                 `json:"displayName"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// CreateAccount handles POST /api/admin/accounts.
func (h *AdminHandler) CreateAccount(c *fiber.Ctx) error {
	var req createAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	var assetType models.AssetType
	if err := h.db.Where("code = ?", req.AssetCode).First(&assetType).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "asset type not found")
	}

	account := models.Account{
		UserID:      req.UserID,
		AccountType: req.AccountType,
		AssetTypeID: assetType.ID,
		DisplayName: req.DisplayName,
		Metadata:    models.NewJSON(req.Metadata),
		IsActive:    true,
	}
	if err := h.db.Create(&account).Error; err != nil {
		return fail(c, fiber.StatusConflict, "account already exists for this user and asset type")
	}
	return ok(c, fiber.StatusCreated, account)
}

// ListTransactions handles GET /api/admin/transactions.
func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var txs []models.Transaction
	var total int64
	h.db.Model(&models.Transaction{}).Count(&total)
	if err := h.db.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&txs).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "failed to list transactions")
	}

	return ok(c, fiber.StatusOK, fiber.Map{
		"transactions": txs,
		"total":        total,
		"page":         page,
		"limit":        limit,
	})
}

// SystemBalances handles GET /api/admin/system-balances, a snapshot
// of every system account's cached balance per asset type.
func (h *AdminHandler) SystemBalances(c *fiber.Ctx) error {
	var accounts []models.Account
	if err := h.db.Where("account_type = ?", models.AccountTypeSystem).Find(&accounts).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "failed to list system accounts")
	}
	return ok(c, fiber.StatusOK, accounts)
}
