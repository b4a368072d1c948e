package retirements

import (
	"unicode/utf8"

	retsvc "carbon-ledger/internal/application/retirements"
	"carbon-ledger/internal/middleware"
	"carbon-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const maxPurposeLen = 100

type Handlers struct {
	Service *retsvc.Service
}

// Retire POST /api/v1/retirements/retire — permanent, one-way.
func (h *Handlers) Retire(c *fiber.Ctx) error {
	var body struct {
		TokenID uint64 `json:"token_id"`
		Purpose string `json:"purpose"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.TokenID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if utf8.RuneCountInString(body.Purpose) > maxPurposeLen {
		return response.Error(c, "Purpose exceeds 100 characters", fiber.StatusBadRequest, nil)
	}

	caller := middleware.GetPrincipal(c)
	tokenID, err := h.Service.Retire(c.Context(), body.TokenID, caller, body.Purpose)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Certificate retired", fiber.Map{"token_id": tokenID}, nil)
}
