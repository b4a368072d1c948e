package domain

import (
	"time"
)

// Listing is an active sale offer for one certificate. The token ID is the
// primary key, so at most one live listing can exist per certificate;
// cancellation, forced delisting and settlement all hard-delete the row.
// Seller is a snapshot taken at listing time — settlement re-resolves the
// current owner from the Certificates table and never trusts this copy.
type Listing struct {
	TokenID   uint64    `gorm:"column:token_id;primaryKey" json:"token_id"`
	Seller    string    `gorm:"column:seller;not null" json:"seller"`
	Price     uint64    `gorm:"column:price;not null" json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Listing) TableName() string {
	return "Listings"
}

// ListingView is the {seller, price} tuple returned by get-listing.
type ListingView struct {
	Seller string `json:"seller"`
	Price  uint64 `json:"price"`
}
