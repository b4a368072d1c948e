package certificates

import (
	"strconv"

	regsvc "carbon-ledger/internal/application/registry"
	"carbon-ledger/internal/domain"
	"carbon-ledger/internal/middleware"
	"carbon-ledger/internal/pkg/response"
	"carbon-ledger/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *regsvc.Service
}

// Mint POST /api/v1/certificates/mint — issuer-gated at the router.
func (h *Handlers) Mint(c *fiber.Ctx) error {
	var body struct {
		To         string `json:"to"`
		Project    string `json:"project"`
		Location   string `json:"location"`
		MetricTons uint64 `json:"metric_tons"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.To == "" || body.Project == "" || body.Location == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidPrincipal(body.To) {
		return response.Error(c, "Invalid principal for to", fiber.StatusBadRequest, nil)
	}

	tokenID, err := h.Service.Mint(c.Context(), body.To, body.Project, body.Location, body.MetricTons)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.SuccessCreated(c, "Certificate minted", fiber.Map{"token_id": tokenID}, nil)
}

// Transfer POST /api/v1/certificates/transfer — owner moves a certificate.
func (h *Handlers) Transfer(c *fiber.Ctx) error {
	var body struct {
		TokenID  uint64 `json:"token_id"`
		NewOwner string `json:"new_owner"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.TokenID == 0 || body.NewOwner == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidPrincipal(body.NewOwner) {
		return response.Error(c, "Invalid principal for new_owner", fiber.StatusBadRequest, nil)
	}

	caller := middleware.GetPrincipal(c)
	if err := h.Service.Transfer(c.Context(), body.TokenID, caller, body.NewOwner); err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Certificate transferred", fiber.Map{"token_id": body.TokenID}, nil)
}

// GetOwner GET /api/v1/certificates/get-owner/:token_id — absence is not an
// error: a nonexistent token returns owner null.
func (h *Handlers) GetOwner(c *fiber.Ctx) error {
	tokenID, ok := parseTokenID(c)
	if !ok {
		return response.Error(c, "Invalid token_id", fiber.StatusBadRequest, nil)
	}
	owner, found, err := h.Service.GetOwner(c.Context(), tokenID)
	if err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	var out interface{}
	if found {
		out = owner
	}
	return response.Success(c, "Owner fetched", fiber.Map{"owner": out}, nil)
}

// GetMetadata GET /api/v1/certificates/get-metadata/:token_id
func (h *Handlers) GetMetadata(c *fiber.Ctx) error {
	tokenID, ok := parseTokenID(c)
	if !ok {
		return response.Error(c, "Invalid token_id", fiber.StatusBadRequest, nil)
	}
	meta, err := h.Service.GetMetadata(c.Context(), tokenID)
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Metadata fetched", meta, nil)
}

// UpdateMetadata PUT /api/v1/certificates/update-metadata/:token_id —
// replaces all mutable fields at once, owner-gated.
func (h *Handlers) UpdateMetadata(c *fiber.Ctx) error {
	tokenID, ok := parseTokenID(c)
	if !ok {
		return response.Error(c, "Invalid token_id", fiber.StatusBadRequest, nil)
	}
	var body struct {
		Project    string `json:"project"`
		Location   string `json:"location"`
		MetricTons uint64 `json:"metric_tons"`
		Retired    bool   `json:"retired"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}
	if body.Project == "" || body.Location == "" {
		return response.Error(c, "Missing required fields", fiber.StatusBadRequest, nil)
	}

	caller := middleware.GetPrincipal(c)
	err := h.Service.UpdateMetadata(c.Context(), tokenID, caller, domain.CertificateView{
		Project:    body.Project,
		Location:   body.Location,
		MetricTons: body.MetricTons,
		Retired:    body.Retired,
	})
	if err != nil {
		return response.LedgerError(c, err)
	}
	return response.Success(c, "Metadata updated", fiber.Map{"token_id": tokenID}, nil)
}

func parseTokenID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("token_id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}
