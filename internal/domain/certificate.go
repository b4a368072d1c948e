package domain

import (
	"time"
)

// Certificate is one tokenized carbon credit. Token IDs come from the
// database sequence, start at 1 and are never reused; certificate rows are
// never deleted, so the table has no soft-delete column.
type Certificate struct {
	TokenID    uint64    `gorm:"column:token_id;primaryKey;autoIncrement" json:"token_id"`
	Owner      string    `gorm:"column:owner;not null;index" json:"owner"`
	Project    string    `gorm:"column:project;type:varchar(50);not null" json:"project"`
	Location   string    `gorm:"column:location;type:varchar(50);not null" json:"location"`
	MetricTons uint64    `gorm:"column:metric_tons;not null" json:"metric_tons"`
	Retired    bool      `gorm:"column:retired;not null;default:false" json:"retired"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Certificate) TableName() string {
	return "Certificates"
}

// MaxFieldLen bounds project and location strings.
const MaxFieldLen = 50

// CertificateView is the metadata tuple returned by get-metadata. The
// kebab-case metric-tons key is part of the public API.
type CertificateView struct {
	Project    string `json:"project"`
	Location   string `json:"location"`
	MetricTons uint64 `json:"metric-tons"`
	Retired    bool   `json:"retired"`
}
