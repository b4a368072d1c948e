package events

import (
	"strconv"

	evsvc "carbon-ledger/internal/application/events"
	"carbon-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *evsvc.Service
}

// GetTokenEvents GET /api/v1/events/get-token-events/:token_id
func (h *Handlers) GetTokenEvents(c *fiber.Ctx) error {
	tokenID, err := strconv.ParseUint(c.Params("token_id"), 10, 64)
	if err != nil || tokenID == 0 {
		return response.Error(c, "Invalid token_id", fiber.StatusBadRequest, nil)
	}
	evs, err := h.Service.ByToken(c.Context(), tokenID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Events fetched", fiber.Map{"events": evs}, nil)
}
