package models

import "time"

type Store struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name    string  `gorm:"size:100;not null"`
	Address string  `gorm:"type:text;not null"`
	Phone   *string `gorm:"size:20"`
	Email   *string `gorm:"size:255"`

	// at most one manager, role must be manager
	ManagerID *uint `gorm:"index"`
	Manager   *User `gorm:"constraint:OnDelete:SET NULL;"`

	// role must be staff
	Employees []User     `gorm:"many2many:store_employees;"`
	Suppliers []Supplier `gorm:"many2many:supplier_stores;"`
}
