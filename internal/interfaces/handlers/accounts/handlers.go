package accounts

import (
	acctsvc "carbon-ledger/internal/application/accounts"
	"carbon-ledger/internal/middleware"
	"carbon-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *acctsvc.Service
}

// Deposit POST /api/v1/accounts/deposit — credits the caller's own account.
func (h *Handlers) Deposit(c *fiber.Ctx) error {
	var body struct {
		Amount uint64 `json:"amount"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.Amount == 0 {
		return response.Error(c, "Amount must be a positive number", fiber.StatusBadRequest, nil)
	}

	principal := middleware.GetPrincipal(c)
	balance, err := h.Service.Deposit(c.Context(), principal, body.Amount)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Deposit applied", fiber.Map{"balance": balance}, nil)
}

// Balance GET /api/v1/accounts/balance — caller's spendable balance.
func (h *Handlers) Balance(c *fiber.Ctx) error {
	principal := middleware.GetPrincipal(c)
	balance, err := h.Service.Balance(c.Context(), principal)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Balance fetched", fiber.Map{"principal": principal, "balance": balance}, nil)
}
