package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Ledger event types. One event row is written per successful
// state-changing call; failed calls write none.
const (
	EventMint     = "mint"
	EventTransfer = "transfer"
	EventList     = "list"
	EventPurchase = "purchase"
	EventRetire   = "retire"
)

// LedgerEvent is the structured record emitted by every state-changing
// operation. The sequence column totally orders the log; created_at alone
// cannot, two events in one transaction share a timestamp. Payload keys are
// fixed per event type:
// mint {to, amount}, transfer {token-id, from, to},
// list {token-id, price, seller}, purchase {token-id, from, to, price},
// retire {token-id, by, purpose}.
type LedgerEvent struct {
	Seq       uint64         `gorm:"column:seq;primaryKey;autoIncrement" json:"seq"`
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;not null;uniqueIndex" json:"event_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	TokenID   uint64         `gorm:"column:token_id;not null;index" json:"token_id"`
	Payload   datatypes.JSON `gorm:"column:payload;type:jsonb;not null" json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
}

func (LedgerEvent) TableName() string {
	return "LedgerEvents"
}

func (e *LedgerEvent) BeforeCreate(tx *gorm.DB) error {
	if e.EventID == uuid.Nil {
		e.EventID = uuid.New()
	}
	return nil
}
