package handlers

import (
	"github.com/gofiber/fiber/v2"

	"walletengine/internal/engine"
)

// envelope is the response shape every endpoint returns:
// { success, data?, error?, isIdempotentReplay? }.
type envelope struct {
	Success            bool        `json:"success"`
	Data               interface{} `json:"data,omitempty"`
	Error              string      `json:"error,omitempty"`
	IsIdempotentReplay *bool       `json:"isIdempotentReplay,omitempty"`
}

func ok(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(envelope{Success: true, Data: data})
}

func okReplay(c *fiber.Ctx, data interface{}, isReplay bool) error {
	status := fiber.StatusCreated
	if isReplay {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(envelope{Success: true, Data: data, IsIdempotentReplay: &isReplay})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(envelope{Success: false, Error: message})
}

// engineErrStatus maps an engine.Error Kind to the spec's HTTP status
// table. Anything not classified as *engine.Error maps to 500.
func engineErrStatus(err error) (int, string) {
	eerr, ok := err.(*engine.Error)
	if !ok {
		return fiber.StatusInternalServerError, err.Error()
	}
	switch eerr.Kind {
	case engine.KindValidation, engine.KindInvalidTransfer:
		return fiber.StatusBadRequest, eerr.Message
	case engine.KindAssetNotFound, engine.KindWalletNotFound:
		return fiber.StatusNotFound, eerr.Message
	case engine.KindInsufficientFund:
		return fiber.StatusUnprocessableEntity, eerr.Message
	case engine.KindTransactionConf:
		return fiber.StatusConflict, eerr.Message
	case engine.KindWalletInactive, engine.KindAssetMismatch, engine.KindAmountExceeds:
		return fiber.StatusUnprocessableEntity, eerr.Message
	default:
		return fiber.StatusInternalServerError, eerr.Message
	}
}

// handleEngineErr writes the standard error envelope for an error
// returned by the Facade.
func handleEngineErr(c *fiber.Ctx, err error) error {
	status, message := engineErrStatus(err)
	return fail(c, status, message)
}
