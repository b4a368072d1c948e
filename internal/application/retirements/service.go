package retirements

import (
	"context"

	"carbon-ledger/internal/application/events"
	"carbon-ledger/internal/application/listings"
	"carbon-ledger/internal/application/registry"
	"carbon-ledger/internal/domain"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Service coordinates permanent retirement: ownership check, idempotency
// check, forced delisting, then the one-way retired flag.
type Service struct {
	DB       *gorm.DB
	Registry *registry.Service
	Listings *listings.Service
}

// Retire marks a certificate as consumed. The forced delist is mandatory:
// retiring a certificate that was never listed fails with the not-listed
// code and leaves the retired flag untouched. Downstream consumers depend
// on that coupling, so it stays.
func (s *Service) Retire(ctx context.Context, tokenID uint64, caller, purpose string) (uint64, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owner, found, err := s.Registry.OwnerTx(tx, tokenID)
		if err != nil {
			return domain.ErrRetireOwnerLookup
		}
		if !found {
			return domain.ErrRetireNoOwner
		}
		if owner != caller {
			return domain.ErrRetireNotOwner
		}

		meta, err := s.Registry.MetadataTx(tx, tokenID)
		if err != nil {
			return domain.ErrRetireMetadataLookup
		}
		if meta.Retired {
			return domain.ErrAlreadyRetired
		}

		if err := s.Listings.DelistTx(tx, tokenID); err != nil {
			return err
		}
		if err := s.Registry.SetRetiredTx(tx, tokenID); err != nil {
			return err
		}
		return events.Record(tx, domain.EventRetire, tokenID, map[string]interface{}{
			"token-id": tokenID,
			"by":       caller,
			"purpose":  purpose,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Info().Uint64("token_id", tokenID).Str("by", caller).Msg("certificate retired")
	return tokenID, nil
}
