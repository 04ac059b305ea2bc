package model

import (
	"time"
)

// BaseEntity carries the audit columns shared by every table.
// GORM manages CreatedAt/UpdatedAt automatically; CreatedBy/UpdatedBy are set
// explicitly by repositories where an acting staff user is known.
type BaseEntity struct {
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
	CreatedBy *int64    `gorm:"column:created_by"`
	UpdatedBy *int64    `gorm:"column:updated_by"`
}
