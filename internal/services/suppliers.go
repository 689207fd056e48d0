package services

import (
	"context"
	"fmt"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/integrity"
	"inventory-manager/internal/models"
	"inventory-manager/internal/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupplierInput struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	// nil leaves served stores untouched; an empty slice clears them
	StoreIDs *[]uint `json:"store_ids"`
}

func (in SupplierInput) validate(create bool) error {
	details := map[string]string{}
	if (create || in.Name != nil) && blank(in.Name) {
		details["name"] = "required"
	}
	if (create || in.Phone != nil) && blank(in.Phone) {
		details["phone"] = "required"
	}
	if len(details) > 0 {
		return apperr.Validation("Invalid supplier data", details)
	}
	return nil
}

type SupplierService struct {
	db *gorm.DB
}

func NewSupplierService(db *gorm.DB) *SupplierService {
	return &SupplierService{db: db}
}

// List returns suppliers serving at least one store visible to actor.
func (s *SupplierService) List(ctx context.Context, actor *models.User, storeID *uint) ([]models.Supplier, error) {
	sc := policy.ListScope(policy.SubjectOf(actor), storeID)
	var suppliers []models.Supplier
	err := s.db.WithContext(ctx).
		Preload("Stores", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).
		Scopes(suppliersInScope(sc)).
		Order("id").
		Find(&suppliers).Error
	return suppliers, err
}

func (s *SupplierService) Get(ctx context.Context, actor *models.User, id uint) (*models.Supplier, error) {
	supplier, err := loadSupplier(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionView, policy.SupplierOf(supplier)).Err(); err != nil {
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Create(ctx context.Context, actor *models.User, in SupplierInput) (*models.Supplier, error) {
	if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionCreate, policy.Supplier()).Err(); err != nil {
		return nil, err
	}
	if err := in.validate(true); err != nil {
		return nil, err
	}

	var supplier models.Supplier
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		supplier = models.Supplier{
			Name:          *in.Name,
			ContactPerson: optional(in.ContactPerson),
			Phone:         *in.Phone,
			Email:         optional(in.Email),
			Address:       optional(in.Address),
		}
		if err := tx.Omit(clause.Associations).Create(&supplier).Error; err != nil {
			return apperr.FromDB(err, "Supplier")
		}
		if in.StoreIDs != nil {
			return replaceServedStores(tx, &supplier, *in.StoreIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "supplier", supplier.ID, "create", fmt.Sprintf("Created supplier %s", supplier.Name))
	return loadSupplier(s.db.WithContext(ctx), supplier.ID)
}

// Update applies a partial update. Replacing store_ids may not drop a
// store that still holds products from this supplier.
func (s *SupplierService) Update(ctx context.Context, actor *models.User, id uint, in SupplierInput) (*models.Supplier, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	var supplier models.Supplier
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&supplier, id).Error; err != nil {
			return apperr.FromDB(err, "Supplier")
		}
		if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionUpdate, policy.Supplier()).Err(); err != nil {
			return err
		}
		if in.Name != nil {
			supplier.Name = *in.Name
		}
		if in.ContactPerson != nil {
			supplier.ContactPerson = optional(in.ContactPerson)
		}
		if in.Phone != nil {
			supplier.Phone = *in.Phone
		}
		if in.Email != nil {
			supplier.Email = optional(in.Email)
		}
		if in.Address != nil {
			supplier.Address = optional(in.Address)
		}
		if err := tx.Omit(clause.Associations).Save(&supplier).Error; err != nil {
			return apperr.FromDB(err, "Supplier")
		}
		if in.StoreIDs == nil {
			return nil
		}

		var inUse []uint
		err := tx.Model(&models.Product{}).
			Where("supplier_id = ?", supplier.ID).
			Distinct().Pluck("store_id", &inUse).Error
		if err != nil {
			return apperr.Internal("failed to load supplier products", err)
		}
		if err := integrity.SupplierStoresRetained(inUse, *in.StoreIDs); err != nil {
			return err
		}
		return replaceServedStores(tx, &supplier, *in.StoreIDs)
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "supplier", supplier.ID, "update", fmt.Sprintf("Updated supplier %s", supplier.Name))
	return loadSupplier(s.db.WithContext(ctx), supplier.ID)
}

// Delete removes a supplier that has no products.
func (s *SupplierService) Delete(ctx context.Context, actor *models.User, id uint) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&supplier, id).Error; err != nil {
			return apperr.FromDB(err, "Supplier")
		}
		if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionDelete, policy.Supplier()).Err(); err != nil {
			return err
		}
		var products int64
		if err := tx.Model(&models.Product{}).Where("supplier_id = ?", supplier.ID).Count(&products).Error; err != nil {
			return apperr.Internal("failed to count products", err)
		}
		if err := integrity.SupplierDeletable(products); err != nil {
			return err
		}
		if err := tx.Model(&supplier).Association("Stores").Clear(); err != nil {
			return apperr.Internal("failed to clear stores", err)
		}
		return tx.Delete(&models.Supplier{}, supplier.ID).Error
	})
	if err != nil {
		return nil, err
	}
	audit(ctx, s.db, actor, "supplier", supplier.ID, "delete", fmt.Sprintf("Deleted supplier %s", supplier.Name))
	return &supplier, nil
}

// replaceServedStores sets the supplier's stores to exactly storeIDs. Every
// id must exist.
func replaceServedStores(tx *gorm.DB, supplier *models.Supplier, storeIDs []uint) error {
	if err := tx.Model(supplier).Association("Stores").Clear(); err != nil {
		return apperr.Internal("failed to clear stores", err)
	}
	ids := uniqueIDs(storeIDs)
	if len(ids) == 0 {
		return nil
	}
	var stores []models.Store
	if err := tx.Where("id IN ?", ids).Find(&stores).Error; err != nil {
		return apperr.Internal("failed to load stores", err)
	}
	if len(stores) != len(ids) {
		return apperr.NotFound("Store not found")
	}
	if err := tx.Model(supplier).Association("Stores").Append(stores); err != nil {
		return apperr.Internal("failed to assign stores", err)
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
