package domain

import (
	"errors"
	"fmt"
)

// CodeError is a ledger validation failure. The numeric codes are part of
// the wire contract consumed by downstream clients and must not change;
// several codes are shared between operations (the listing and
// retirement families overlap), so errors are distinct values that happen
// to carry the same number.
type CodeError struct {
	Code    uint
	Message string
}

func (e *CodeError) Error() string {
	return fmt.Sprintf("err u%d: %s", e.Code, e.Message)
}

// AsCodeError unwraps a CodeError from err, if any.
func AsCodeError(err error) (*CodeError, bool) {
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

var (
	// Value-transfer primitive.
	ErrInsufficientBalance = &CodeError{1, "insufficient balance"}

	// Certificate registry.
	ErrTokenNotFound    = &CodeError{102, "no such token"}
	ErrNotTokenOwner    = &CodeError{104, "sender is not token owner"}
	ErrMetadataNotOwner = &CodeError{108, "caller is not token owner"}
	ErrMetadataNotFound = &CodeError{110, "token metadata not found"}

	// Listing store.
	ErrListingNotOwner   = &CodeError{200, "caller is not token owner"}
	ErrAlreadyListed     = &CodeError{201, "token already listed"}
	ErrZeroMetricTons    = &CodeError{202, "metric tons must be positive"}
	ErrFieldTooLong      = &CodeError{203, "project or location exceeds 50 characters"}
	ErrOwnerLookupFailed = &CodeError{204, "owner lookup failed"}
	ErrNotListed         = &CodeError{300, "token not listed"}
	ErrCancelNotListed   = &CodeError{400, "token not listed"}
	ErrCancelNotSeller   = &CodeError{402, "caller is not seller"}
	ErrUpdateNotListed   = &CodeError{403, "token not listed"}
	ErrUpdateNotSeller   = &CodeError{405, "caller is not seller"}
	ErrInvalidNewPrice   = &CodeError{998, "price must be positive"}
	ErrInvalidPrice      = &CodeError{999, "price must be positive"}

	// Retirement coordinator.
	ErrRetireOwnerLookup    = &CodeError{400, "failed to resolve owner"}
	ErrRetireNoOwner        = &CodeError{401, "token has no owner"}
	ErrRetireMetadataLookup = &CodeError{402, "failed to fetch metadata"}
	ErrRetireNotOwner       = &CodeError{403, "caller is not token owner"}
	ErrAlreadyRetired       = &CodeError{404, "token already retired"}
	ErrRetireUpdateFailed   = &CodeError{405, "failed to update metadata"}

	// Marketplace settlement.
	ErrOwnerSellerMismatch = &CodeError{500, "seller no longer owns token"}
	ErrSelfPurchase        = &CodeError{501, "buyer is the seller"}
	ErrInvalidOfferPrice   = &CodeError{600, "offer price must be positive"}
)
