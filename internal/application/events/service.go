package events

import (
	"context"
	"encoding/json"

	"carbon-ledger/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Record writes one ledger event inside the caller's transaction. A failed
// insert rolls the whole operation back, so an operation either commits with
// exactly one event or commits nothing.
func Record(tx *gorm.DB, eventType string, tokenID uint64, payload map[string]interface{}) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&domain.LedgerEvent{
		EventType: eventType,
		TokenID:   tokenID,
		Payload:   datatypes.JSON(b),
	}).Error
}

type Service struct {
	DB *gorm.DB
}

// ByToken returns the event history for one certificate, oldest first.
func (s *Service) ByToken(ctx context.Context, tokenID uint64) ([]domain.LedgerEvent, error) {
	var evs []domain.LedgerEvent
	if err := s.DB.WithContext(ctx).Where("token_id = ?", tokenID).Order("seq ASC").Find(&evs).Error; err != nil {
		return nil, err
	}
	return evs, nil
}
