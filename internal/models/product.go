package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultThreshold = 10

type Product struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name        string          `gorm:"size:100;not null"`
	SKU         string          `gorm:"uniqueIndex;size:50;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity    int             `gorm:"not null;default:0"`
	Threshold   int             `gorm:"not null"` // restock alert level, DefaultThreshold when omitted

	SupplierID uint `gorm:"not null;index"`
	Supplier   Supplier
	StoreID    uint `gorm:"not null;index"`
	Store      Store
}

// IsLowStock is computed on every call, never stored.
func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.Threshold
}
