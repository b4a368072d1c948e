package domain

import (
	"time"
)

// Account holds the spendable balance of one principal. Settlement debits
// the buyer and credits the seller inside the same transaction that moves
// ownership, so a failed debit rolls the whole purchase back.
type Account struct {
	Principal string    `gorm:"column:principal;primaryKey" json:"principal"`
	Balance   uint64    `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Account) TableName() string {
	return "Accounts"
}
