package response

import (
	"carbon-ledger/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// LedgerError sends a ledger validation failure in the standard error format.
// The numeric contract code rides in details.code; the HTTP status is derived
// from the error family. Non-coded errors become a plain 500.
func LedgerError(c *fiber.Ctx, err error) error {
	ce, ok := domain.AsCodeError(err)
	if !ok {
		return Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	return Error(c, ce.Message, ledgerStatus(err), fiber.Map{"code": ce.Code})
}

func ledgerStatus(err error) int {
	switch err {
	case domain.ErrInsufficientBalance:
		return fiber.StatusPaymentRequired
	case domain.ErrTokenNotFound, domain.ErrMetadataNotFound, domain.ErrOwnerLookupFailed,
		domain.ErrNotListed, domain.ErrCancelNotListed, domain.ErrUpdateNotListed,
		domain.ErrRetireNoOwner, domain.ErrRetireOwnerLookup:
		return fiber.StatusNotFound
	case domain.ErrNotTokenOwner, domain.ErrMetadataNotOwner, domain.ErrListingNotOwner,
		domain.ErrCancelNotSeller, domain.ErrUpdateNotSeller, domain.ErrRetireNotOwner:
		return fiber.StatusForbidden
	case domain.ErrAlreadyListed, domain.ErrAlreadyRetired,
		domain.ErrOwnerSellerMismatch, domain.ErrSelfPurchase:
		return fiber.StatusConflict
	case domain.ErrZeroMetricTons, domain.ErrFieldTooLong, domain.ErrInvalidPrice,
		domain.ErrInvalidNewPrice, domain.ErrInvalidOfferPrice:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
