package registry

import (
	"context"
	"unicode/utf8"

	"carbon-ledger/internal/application/events"
	"carbon-ledger/internal/domain"

	"gorm.io/gorm"
)

// Service owns the certificate table. It is the single source of truth for
// ownership: marketplace and retirement re-resolve owners here at settlement
// time instead of trusting any cached copy.
type Service struct {
	DB *gorm.DB
}

// Mint issues a new certificate to the given principal and returns the
// assigned token ID. IDs are strictly increasing and never reused.
func (s *Service) Mint(ctx context.Context, to, project, location string, metricTons uint64) (uint64, error) {
	if metricTons == 0 {
		return 0, domain.ErrZeroMetricTons
	}
	if utf8.RuneCountInString(project) > domain.MaxFieldLen || utf8.RuneCountInString(location) > domain.MaxFieldLen {
		return 0, domain.ErrFieldTooLong
	}

	cert := domain.Certificate{
		Owner:      to,
		Project:    project,
		Location:   location,
		MetricTons: metricTons,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cert).Error; err != nil {
			return err
		}
		return events.Record(tx, domain.EventMint, cert.TokenID, map[string]interface{}{
			"to":     to,
			"amount": metricTons,
		})
	})
	if err != nil {
		return 0, err
	}
	return cert.TokenID, nil
}

// Transfer moves ownership to newOwner. Only the current owner may transfer.
func (s *Service) Transfer(ctx context.Context, tokenID uint64, caller, newOwner string) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cert domain.Certificate
		if err := tx.Where("token_id = ?", tokenID).First(&cert).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrTokenNotFound
			}
			return err
		}
		if cert.Owner != caller {
			return domain.ErrNotTokenOwner
		}
		if err := tx.Model(&domain.Certificate{}).Where("token_id = ?", tokenID).Update("owner", newOwner).Error; err != nil {
			return err
		}
		return events.Record(tx, domain.EventTransfer, tokenID, map[string]interface{}{
			"token-id": tokenID,
			"from":     caller,
			"to":       newOwner,
		})
	})
}

// GetOwner resolves the current owner. Absence is not an error.
func (s *Service) GetOwner(ctx context.Context, tokenID uint64) (string, bool, error) {
	return s.OwnerTx(s.DB.WithContext(ctx), tokenID)
}

// OwnerTx is GetOwner scoped to the caller's transaction, for cross-store
// consistency checks that must read and write under the same snapshot.
func (s *Service) OwnerTx(tx *gorm.DB, tokenID uint64) (string, bool, error) {
	var cert domain.Certificate
	if err := tx.Select("owner").Where("token_id = ?", tokenID).First(&cert).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return cert.Owner, true, nil
}

// GetMetadata returns the metadata tuple for a certificate.
func (s *Service) GetMetadata(ctx context.Context, tokenID uint64) (*domain.CertificateView, error) {
	return s.MetadataTx(s.DB.WithContext(ctx), tokenID)
}

// MetadataTx is GetMetadata scoped to the caller's transaction.
func (s *Service) MetadataTx(tx *gorm.DB, tokenID uint64) (*domain.CertificateView, error) {
	var cert domain.Certificate
	if err := tx.Where("token_id = ?", tokenID).First(&cert).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrMetadataNotFound
		}
		return nil, err
	}
	return &domain.CertificateView{
		Project:    cert.Project,
		Location:   cert.Location,
		MetricTons: cert.MetricTons,
		Retired:    cert.Retired,
	}, nil
}

// UpdateMetadata replaces all mutable fields at once, owner-gated. The
// retired flag can be set here too, but the retirement coordinator is the
// sanctioned path for it.
func (s *Service) UpdateMetadata(ctx context.Context, tokenID uint64, caller string, fields domain.CertificateView) error {
	if utf8.RuneCountInString(fields.Project) > domain.MaxFieldLen || utf8.RuneCountInString(fields.Location) > domain.MaxFieldLen {
		return domain.ErrFieldTooLong
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cert domain.Certificate
		if err := tx.Where("token_id = ?", tokenID).First(&cert).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrMetadataNotFound
			}
			return err
		}
		if cert.Owner != caller {
			return domain.ErrMetadataNotOwner
		}
		return tx.Model(&domain.Certificate{}).Where("token_id = ?", tokenID).Updates(map[string]interface{}{
			"project":     fields.Project,
			"location":    fields.Location,
			"metric_tons": fields.MetricTons,
			"retired":     fields.Retired,
		}).Error
	})
}

// SetOwnerTx overwrites ownership without an owner check. Settlement calls
// this after it has validated the listing against the current owner.
func (s *Service) SetOwnerTx(tx *gorm.DB, tokenID uint64, newOwner string) error {
	res := tx.Model(&domain.Certificate{}).Where("token_id = ?", tokenID).Update("owner", newOwner)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrTokenNotFound
	}
	return nil
}

// SetRetiredTx flips the retired flag, one way only. The retirement
// coordinator is the only caller; the already-retired check keeps the flag
// monotonic even if the coordinator is bypassed.
func (s *Service) SetRetiredTx(tx *gorm.DB, tokenID uint64) error {
	var cert domain.Certificate
	if err := tx.Where("token_id = ?", tokenID).First(&cert).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.ErrRetireMetadataLookup
		}
		return err
	}
	if cert.Retired {
		return domain.ErrAlreadyRetired
	}
	return tx.Model(&domain.Certificate{}).Where("token_id = ?", tokenID).Update("retired", true).Error
}
