package domain

import (
	"time"
)

// MarketplaceStats is a singleton row (ID 1) of append-only counters,
// bumped inside each successful settlement transaction.
type MarketplaceStats struct {
	ID          uint      `gorm:"column:id;primaryKey" json:"-"`
	TotalSales  uint64    `gorm:"column:total_sales;not null;default:0" json:"total-sales"`
	TotalVolume uint64    `gorm:"column:total_volume;not null;default:0" json:"total-volume"`
	UpdatedAt   time.Time `json:"-"`
}

func (MarketplaceStats) TableName() string {
	return "MarketplaceStats"
}

// StatsRowID is the fixed primary key of the singleton stats row.
const StatsRowID = 1
