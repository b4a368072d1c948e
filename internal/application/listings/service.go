package listings

import (
	"context"

	"carbon-ledger/internal/application/events"
	"carbon-ledger/internal/application/registry"
	"carbon-ledger/internal/domain"

	"gorm.io/gorm"
)

// Service owns the listing table. It holds only the token ID as a
// back-reference to the registry — never a copy of ownership data — and
// resolves the current owner through the registry when gating writes.
type Service struct {
	DB       *gorm.DB
	Registry *registry.Service
}

// ListForSale creates the single live listing for a certificate.
func (s *Service) ListForSale(ctx context.Context, tokenID, price uint64, caller string) (uint64, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, found, err := s.Registry.OwnerTx(tx, tokenID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrOwnerLookupFailed
		}
		if owner != caller {
			return domain.ErrListingNotOwner
		}
		if price == 0 {
			return domain.ErrInvalidPrice
		}
		var existing domain.Listing
		if err := tx.Where("token_id = ?", tokenID).First(&existing).Error; err == nil {
			return domain.ErrAlreadyListed
		} else if err != gorm.ErrRecordNotFound {
			return err
		}
		// A listing may only exist while the certificate is un-retired.
		meta, err := s.Registry.MetadataTx(tx, tokenID)
		if err != nil {
			return err
		}
		if meta.Retired {
			return domain.ErrAlreadyRetired
		}
		if err := tx.Create(&domain.Listing{TokenID: tokenID, Seller: caller, Price: price}).Error; err != nil {
			return err
		}
		return events.Record(tx, domain.EventList, tokenID, map[string]interface{}{
			"token-id": tokenID,
			"price":    price,
			"seller":   caller,
		})
	})
	if err != nil {
		return 0, err
	}
	return tokenID, nil
}

// GetListing returns the {seller, price} tuple. Absence is not an error.
func (s *Service) GetListing(ctx context.Context, tokenID uint64) (*domain.ListingView, bool, error) {
	listing, found, err := s.GetTx(s.DB.WithContext(ctx), tokenID)
	if err != nil || !found {
		return nil, found, err
	}
	return &domain.ListingView{Seller: listing.Seller, Price: listing.Price}, true, nil
}

// GetTx loads a listing inside the caller's transaction.
func (s *Service) GetTx(tx *gorm.DB, tokenID uint64) (*domain.Listing, bool, error) {
	var listing domain.Listing
	if err := tx.Where("token_id = ?", tokenID).First(&listing).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &listing, true, nil
}

// CancelListing removes a listing, seller-gated.
func (s *Service) CancelListing(ctx context.Context, tokenID uint64, caller string) (uint64, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, found, err := s.GetTx(tx, tokenID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrCancelNotListed
		}
		if listing.Seller != caller {
			return domain.ErrCancelNotSeller
		}
		return tx.Delete(&domain.Listing{}, "token_id = ?", tokenID).Error
	})
	if err != nil {
		return 0, err
	}
	return tokenID, nil
}

// UpdateListing changes the price in place, seller-gated.
func (s *Service) UpdateListing(ctx context.Context, tokenID, newPrice uint64, caller string) (uint64, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, found, err := s.GetTx(tx, tokenID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrUpdateNotListed
		}
		if listing.Seller != caller {
			return domain.ErrUpdateNotSeller
		}
		if newPrice == 0 {
			return domain.ErrInvalidNewPrice
		}
		return tx.Model(&domain.Listing{}).Where("token_id = ?", tokenID).Update("price", newPrice).Error
	})
	if err != nil {
		return 0, err
	}
	return tokenID, nil
}

// DelistToken force-removes a listing. Any principal may call it: the
// unrestricted caller is a deliberate capability so that external
// coordinators (retirement, settlement) can clear listings they do not own.
func (s *Service) DelistToken(ctx context.Context, tokenID uint64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.DelistTx(tx, tokenID)
	})
}

// DelistTx is the force-removal scoped to the caller's transaction.
func (s *Service) DelistTx(tx *gorm.DB, tokenID uint64) error {
	res := tx.Delete(&domain.Listing{}, "token_id = ?", tokenID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotListed
	}
	return nil
}
