package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`

	// no FK: records outlive deleted users
	UserID   uint   `gorm:"index"`
	Username string `gorm:"size:100"`

	Entity   string `gorm:"size:50;not null"` // "product", "store", "supplier", "user"
	EntityID uint
	Action   string `gorm:"size:50;not null"` // "create", "update", "delete", "role_change", ...
	Details  string `gorm:"type:text"`
}
