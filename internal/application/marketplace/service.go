package marketplace

import (
	"context"

	"carbon-ledger/internal/application/accounts"
	"carbon-ledger/internal/application/events"
	"carbon-ledger/internal/application/listings"
	"carbon-ledger/internal/application/registry"
	"carbon-ledger/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service orchestrates purchase settlement across the registry, the listing
// store and the accounts ledger. It owns no state of its own beyond the
// marketplace stats counters.
type Service struct {
	DB       *gorm.DB
	Registry *registry.Service
	Listings *listings.Service
	Accounts *accounts.Service
}

// Buy settles a purchase: payment, ownership transfer, delisting, stats and
// event all land in one transaction, or none of them do. The listing is
// checked before certificate existence, so an unlisted-but-existing token
// and a nonexistent token fail identically.
func (s *Service) Buy(ctx context.Context, tokenID uint64, buyer string) (uint64, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		listing, found, err := s.Listings.GetTx(tx, tokenID)
		if err != nil {
			return err
		}
		if !found {
			return domain.ErrNotListed
		}

		// The seller recorded on the listing may be stale: the certificate
		// can change hands out-of-band after listing. Re-resolve ownership
		// from the registry under this transaction.
		owner, ownerFound, err := s.Registry.OwnerTx(tx, tokenID)
		if err != nil {
			return err
		}
		if !ownerFound || owner != listing.Seller {
			return domain.ErrOwnerSellerMismatch
		}
		if buyer == listing.Seller {
			return domain.ErrSelfPurchase
		}

		if err := s.Accounts.TransferTx(tx, buyer, listing.Seller, listing.Price); err != nil {
			return err
		}
		if err := s.Registry.SetOwnerTx(tx, tokenID, buyer); err != nil {
			return err
		}
		if err := s.Listings.DelistTx(tx, tokenID); err != nil {
			return err
		}
		if err := s.bumpStatsTx(tx, listing.Price); err != nil {
			return err
		}
		return events.Record(tx, domain.EventPurchase, tokenID, map[string]interface{}{
			"token-id": tokenID,
			"from":     listing.Seller,
			"to":       buyer,
			"price":    listing.Price,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Info().Uint64("token_id", tokenID).Str("buyer", buyer).Msg("purchase settled")
	return tokenID, nil
}

// MakeOffer records an advisory offer. No escrow, no ownership movement,
// and the token is not required to exist.
func (s *Service) MakeOffer(ctx context.Context, tokenID, price uint64, buyer string) error {
	if price == 0 {
		return domain.ErrInvalidOfferPrice
	}
	return s.DB.WithContext(ctx).Create(&domain.Offer{
		TokenID: tokenID,
		Buyer:   buyer,
		Price:   price,
	}).Error
}

// Offers returns the advisory offers recorded for a token, newest first.
func (s *Service) Offers(ctx context.Context, tokenID uint64) ([]domain.Offer, error) {
	var offers []domain.Offer
	if err := s.DB.WithContext(ctx).Where("token_id = ?", tokenID).Order("created_at DESC").Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// GetStats returns the process-wide counters; both start at zero.
func (s *Service) GetStats(ctx context.Context) (*domain.MarketplaceStats, error) {
	var stats domain.MarketplaceStats
	if err := s.DB.WithContext(ctx).Where("id = ?", domain.StatsRowID).First(&stats).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return &domain.MarketplaceStats{ID: domain.StatsRowID}, nil
		}
		return nil, err
	}
	return &stats, nil
}

func (s *Service) bumpStatsTx(tx *gorm.DB, price uint64) error {
	stats := domain.MarketplaceStats{ID: domain.StatsRowID}
	if err := tx.Where("id = ?", domain.StatsRowID).FirstOrCreate(&stats).Error; err != nil {
		return err
	}
	stats.TotalSales++
	stats.TotalVolume += price
	return tx.Save(&stats).Error
}
