package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Offer is an advisory purchase signal. Offers never bind escrow: they move
// no funds and no ownership, they are only recorded for the seller to see.
type Offer struct {
	OfferID   uuid.UUID `gorm:"column:offer_id;type:uuid;primaryKey" json:"offer_id"`
	TokenID   uint64    `gorm:"column:token_id;not null;index" json:"token_id"`
	Buyer     string    `gorm:"column:buyer;not null" json:"buyer"`
	Price     uint64    `gorm:"column:price;not null" json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Offer) TableName() string {
	return "Offers"
}

func (o *Offer) BeforeCreate(tx *gorm.DB) error {
	if o.OfferID == uuid.Nil {
		o.OfferID = uuid.New()
	}
	return nil
}
