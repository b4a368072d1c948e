package listings

import (
	"strconv"

	listsvc "carbon-ledger/internal/application/listings"
	"carbon-ledger/internal/middleware"
	"carbon-ledger/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *listsvc.Service
}

// ListForSale POST /api/v1/listings/list-for-sale
func (h *Handlers) ListForSale(c *fiber.Ctx) error {
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

	caller := middleware.GetPrincipal(c)
	tokenID, err := h.Service.ListForSale(c.Context(), body.TokenID, body.Price, caller)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Certificate listed for sale", fiber.Map{"token_id": tokenID}, nil)
}

// GetListing GET /api/v1/listings/get-listing/:token_id — absence is not an
// error: a token without a live listing returns listing null.
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	tokenID, err := strconv.ParseUint(c.Params("token_id"), 10, 64)
	if err != nil || tokenID == 0 {
		return response.Error(c, "Invalid token_id", fiber.StatusBadRequest, nil)
	}
	view, found, err := h.Service.GetListing(c.Context(), tokenID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var out interface{}
	if found {
		out = view
	}
	return response.Success(c, "Listing fetched", fiber.Map{"listing": out}, nil)
}

// CancelListing POST /api/v1/listings/cancel-listing — seller-gated.
func (h *Handlers) CancelListing(c *fiber.Ctx) error {
	var body struct {
		TokenID uint64 `json:"token_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.TokenID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	caller := middleware.GetPrincipal(c)
	tokenID, err := h.Service.CancelListing(c.Context(), body.TokenID, caller)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Listing cancelled", fiber.Map{"token_id": tokenID}, nil)
}

// UpdateListing PUT /api/v1/listings/update-listing — seller-gated price change.
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	var body struct {
		TokenID  uint64 `json:"token_id"`
		NewPrice uint64 `json:"new_price"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.TokenID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	caller := middleware.GetPrincipal(c)
	tokenID, err := h.Service.UpdateListing(c.Context(), body.TokenID, body.NewPrice, caller)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Listing updated", fiber.Map{"token_id": tokenID}, nil)
}

// DelistToken POST /api/v1/listings/delist-token — force removal, callable
// by any authenticated principal.
func (h *Handlers) DelistToken(c *fiber.Ctx) error {
	var body struct {
		TokenID uint64 `json:"token_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.TokenID == 0 {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	if err := h.Service.DelistToken(c.Context(), body.TokenID); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Token delisted", fiber.Map{"token_id": body.TokenID}, nil)
}
