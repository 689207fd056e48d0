package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
)

// Roles lists every assignable role.
var Roles = []UserRole{RoleStaff, RoleManager, RoleAdmin}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string   `gorm:"uniqueIndex;size:100;not null"`
	Email        string   `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(10);not null;default:staff"`
	FirstName    string   `gorm:"size:150"`
	LastName     string   `gorm:"size:150"`
	Phone        *string  `gorm:"size:20"` // nil = not provided
	IsActive     bool     `gorm:"not null"`
	IsSuperuser  bool     `gorm:"not null;default:false"`

	// stores where the user works as staff
	AssignedStores []Store `gorm:"many2many:store_employees;"`
}
