// Package services applies policy and integrity rules around every read
// and write of the inventory.
package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/database"
	"inventory-manager/internal/models"
	"inventory-manager/internal/policy"

	"gorm.io/gorm"
)

// OptionalID distinguishes an absent id from an explicit null.
type OptionalID struct {
	Set bool
	ID  *uint
}

func SomeID(id uint) OptionalID { return OptionalID{Set: true, ID: &id} }

func NullID() OptionalID { return OptionalID{Set: true} }

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.ID = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		// accept "12" as well as 12
		var s string
		if err2 := json.Unmarshal(data, &s); err2 != nil {
			return err
		}
		n, err2 := strconv.ParseUint(s, 10, 64)
		if err2 != nil {
			return err
		}
		id = uint(n)
	}
	o.ID = &id
	return nil
}

func blank(s *string) bool { return s == nil || strings.TrimSpace(*s) == "" }

// optional turns an empty string into nil.
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func loadStore(tx *gorm.DB, id uint) (*models.Store, error) {
	var store models.Store
	if err := tx.First(&store, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Store")
	}
	return &store, nil
}

func loadSupplier(tx *gorm.DB, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := tx.Preload("Stores").First(&supplier, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Supplier")
	}
	return &supplier, nil
}

func loadUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := tx.First(&user, id).Error; err != nil {
		return nil, apperr.FromDB(err, "User")
	}
	return &user, nil
}

// storeIDsInScope narrows a column holding a store id to sc.
func storeIDsInScope(column string, sc policy.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch sc.Mode {
		case policy.ScopeAll:
			return db
		case policy.ScopeStore:
			return db.Where(column+" = ?", sc.StoreID)
		case policy.ScopeManaged:
			managed := db.Session(&gorm.Session{NewDB: true}).
				Model(&models.Store{}).Select("id").Where("manager_id = ?", sc.ManagerID)
			return db.Where(column+" IN (?)", managed)
		case policy.ScopeAssigned:
			if len(sc.StoreIDs) == 0 {
				return db.Where("1 = 0")
			}
			return db.Where(column+" IN ?", sc.StoreIDs)
		}
		return db.Where("1 = 0")
	}
}

// suppliersInScope keeps suppliers serving at least one store in sc.
func suppliersInScope(sc policy.Scope) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if sc.Mode == policy.ScopeAll {
			return db
		}
		served := storeIDsInScope("store_id", sc)(db.Session(&gorm.Session{NewDB: true}).
			Table("supplier_stores").Select("supplier_id"))
		return db.Where("suppliers.id IN (?)", served)
	}
}

func audit(ctx context.Context, db *gorm.DB, actor *models.User, entity string, id uint, action, details string) {
	database.CreateAuditLog(db.WithContext(ctx), actor, entity, id, action, details)
}
