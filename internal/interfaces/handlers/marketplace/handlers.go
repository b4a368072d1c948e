package marketplace

import (
	"strconv"

	mktsvc "carbon-ledger/internal/application/marketplace"
	"carbon-ledger/internal/middleware"
	"carbon-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *mktsvc.Service
}

// Buy POST /api/v1/marketplace/buy — full settlement in one transaction.
func (h *Handlers) Buy(c *fiber.Ctx) error {
	var body struct {
		TokenID uint64 `json:"token_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.TokenID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	buyer := middleware.GetPrincipal(c)
	tokenID, err := h.Service.Buy(c.Context(), body.TokenID, buyer)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Purchase settled", fiber.Map{"token_id": tokenID}, nil)
}

// MakeOffer POST /api/v1/marketplace/make-offer — advisory signal only.
func (h *Handlers) MakeOffer(c *fiber.Ctx) error {
	var body struct {
		TokenID uint64 `json:"token_id"`
		Price   uint64 `json:"price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.TokenID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	buyer := middleware.GetPrincipal(c)
	if err := h.Service.MakeOffer(c.Context(), body.TokenID, body.Price, buyer); err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Offer recorded", fiber.Map{"token_id": body.TokenID}, nil)
}

// Stats GET /api/v1/marketplace/stats
func (h *Handlers) Stats(c *fiber.Ctx) error {
	stats, err := h.Service.GetStats(c.Context())
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Marketplace stats fetched", stats, nil)
}

// GetOffers GET /api/v1/marketplace/get-offers/:token_id
func (h *Handlers) GetOffers(c *fiber.Ctx) error {
	tokenID, err := strconv.ParseUint(c.Params("token_id"), 10, 64)
	if err != nil || tokenID == 0 {
		return response.Error(c, "Invalid token_id", fiber.StatusBadRequest, nil)
	}
	offers, err := h.Service.Offers(c.Context(), tokenID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return response.Success(c, "Offers fetched", fiber.Map{"offers": offers}, nil)
}
