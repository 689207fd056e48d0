package models

import "time"

type Supplier struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name          string  `gorm:"size:100;not null"`
	ContactPerson *string `gorm:"size:100"`
	Phone         string  `gorm:"size:20;not null"`
	Email         *string `gorm:"size:255"`
	Address       *string `gorm:"type:text"`

	// stores served by the supplier
	Stores []Store `gorm:"many2many:supplier_stores;"`
}

// Serves reports whether the supplier serves the given store.
// Stores must be preloaded.
func (s *Supplier) Serves(storeID uint) bool {
	for _, st := range s.Stores {
		if st.ID == storeID {
			return true
		}
	}
	return false
}
