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

type StoreInput struct {
	Name    *string    `json:"name"`
	Address *string    `json:"address"`
	Phone   *string    `json:"phone"`
	Email   *string    `json:"email"`
	Manager OptionalID `json:"manager_id"`
	// nil leaves employees untouched; an empty slice clears them
	EmployeeIDs *[]uint `json:"employee_ids"`
}

func (in StoreInput) validate(create bool) error {
	details := map[string]string{}
	if (create || in.Name != nil) && blank(in.Name) {
		details["name"] = "required"
	}
	if (create || in.Address != nil) && blank(in.Address) {
		details["address"] = "required"
	}
	if len(details) > 0 {
		return apperr.Validation("Invalid store data", details)
	}
	return nil
}

// StoreDetail is a store with its relations and product count.
type StoreDetail struct {
	models.Store
	ProductCount int64
}

type StoreService struct {
	db *gorm.DB
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

func (s *StoreService) List(ctx context.Context, actor *models.User, storeID *uint) ([]models.Store, error) {
	sc := policy.ListScope(policy.SubjectOf(actor), storeID)
	var stores []models.Store
	err := s.db.WithContext(ctx).
		Preload("Manager").
		Scopes(storeIDsInScope("id", sc)).
		Order("id").
		Find(&stores).Error
	return stores, err
}

func (s *StoreService) Get(ctx context.Context, actor *models.User, id uint) (*StoreDetail, error) {
	db := s.db.WithContext(ctx)
	detail, err := s.detail(db, id)
	if err != nil {
		return nil, err
	}
	res := policy.Store(policy.RefOf(&detail.Store))
	if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionView, res).Err(); err != nil {
		return nil, err
	}
	return detail, nil
}

// Create adds a store. A manager creating a store without naming a manager
// becomes its manager; naming anyone else is refused.
func (s *StoreService) Create(ctx context.Context, actor *models.User, in StoreInput) (*StoreDetail, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	sub := policy.SubjectOf(actor)

	var managerID *uint
	if in.Manager.Set {
		managerID = in.Manager.ID
	} else if sub.Role == models.RoleManager {
		id := sub.UserID
		managerID = &id
	}

	var store models.Store
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		candidate := policy.Store(policy.StoreRef{ManagerID: managerID})
		if err := policy.Authorize(sub, policy.ActionCreate, candidate).Err(); err != nil {
			return err
		}
		if managerID != nil {
			if err := checkManager(tx, *managerID); err != nil {
				return err
			}
		}

		store = models.Store{
			Name:      *in.Name,
			Address:   *in.Address,
			Phone:     optional(in.Phone),
			Email:     optional(in.Email),
			ManagerID: managerID,
		}
		if err := tx.Omit(clause.Associations).Create(&store).Error; err != nil {
			return apperr.FromDB(err, "Store")
		}
		if in.EmployeeIDs != nil {
			return replaceEmployees(tx, &store, *in.EmployeeIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "store", store.ID, "create", fmt.Sprintf("Created store %s", store.Name))
	return s.detail(s.db.WithContext(ctx), store.ID)
}

// Update applies a partial update. Changing manager_id is admin-only and
// an explicit null clears the manager.
func (s *StoreService) Update(ctx context.Context, actor *models.User, id uint, in StoreInput) (*StoreDetail, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	sub := policy.SubjectOf(actor)

	var store models.Store
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&store, id).Error; err != nil {
			return apperr.FromDB(err, "Store")
		}
		res := policy.Store(policy.RefOf(&store))
		if err := policy.Authorize(sub, policy.ActionUpdate, res).Err(); err != nil {
			return err
		}
		if in.Manager.Set {
			if err := policy.Authorize(sub, policy.ActionAssignManager, res).Err(); err != nil {
				return err
			}
			if in.Manager.ID != nil {
				if err := checkManager(tx, *in.Manager.ID); err != nil {
					return err
				}
			}
			store.ManagerID = in.Manager.ID
		}

		if in.Name != nil {
			store.Name = *in.Name
		}
		if in.Address != nil {
			store.Address = *in.Address
		}
		if in.Phone != nil {
			store.Phone = optional(in.Phone)
		}
		if in.Email != nil {
			store.Email = optional(in.Email)
		}
		if err := tx.Omit(clause.Associations).Save(&store).Error; err != nil {
			return apperr.FromDB(err, "Store")
		}
		if in.EmployeeIDs != nil {
			return replaceEmployees(tx, &store, *in.EmployeeIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "store", store.ID, "update", fmt.Sprintf("Updated store %s", store.Name))
	return s.detail(s.db.WithContext(ctx), store.ID)
}

// ReplaceEmployees swaps the store's employee set. Ids that are unknown or
// belong to non-staff users are skipped.
func (s *StoreService) ReplaceEmployees(ctx context.Context, actor *models.User, id uint, userIDs []uint) (*StoreDetail, error) {
	var store models.Store
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&store, id).Error; err != nil {
			return apperr.FromDB(err, "Store")
		}
		res := policy.Store(policy.RefOf(&store))
		if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionUpdate, res).Err(); err != nil {
			return err
		}
		return replaceEmployees(tx, &store, userIDs)
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "store", store.ID, "update", fmt.Sprintf("Replaced employees of store %s", store.Name))
	return s.detail(s.db.WithContext(ctx), store.ID)
}

// Delete removes a store that holds no products.
func (s *StoreService) Delete(ctx context.Context, actor *models.User, id uint) (*models.Store, error) {
	var store models.Store
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&store, id).Error; err != nil {
			return apperr.FromDB(err, "Store")
		}
		res := policy.Store(policy.RefOf(&store))
		if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionDelete, res).Err(); err != nil {
			return err
		}
		var products int64
		if err := tx.Model(&models.Product{}).Where("store_id = ?", store.ID).Count(&products).Error; err != nil {
			return apperr.Internal("failed to count products", err)
		}
		if err := integrity.StoreDeletable(products); err != nil {
			return err
		}
		if err := tx.Model(&store).Association("Employees").Clear(); err != nil {
			return apperr.Internal("failed to clear employees", err)
		}
		if err := tx.Model(&store).Association("Suppliers").Clear(); err != nil {
			return apperr.Internal("failed to clear suppliers", err)
		}
		return tx.Delete(&models.Store{}, store.ID).Error
	})
	if err != nil {
		return nil, err
	}
	audit(ctx, s.db, actor, "store", store.ID, "delete", fmt.Sprintf("Deleted store %s", store.Name))
	return &store, nil
}

func (s *StoreService) detail(db *gorm.DB, id uint) (*StoreDetail, error) {
	var detail StoreDetail
	err := db.Preload("Manager").
		Preload("Employees", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).
		Preload("Suppliers", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).
		First(&detail.Store, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "Store")
	}
	if err := db.Model(&models.Product{}).Where("store_id = ?", id).Count(&detail.ProductCount).Error; err != nil {
		return nil, apperr.Internal("failed to count products", err)
	}
	return &detail, nil
}

func checkManager(tx *gorm.DB, id uint) error {
	user, err := loadUser(tx, id)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.Validation("Manager not found", map[string]string{"manager_id": "not_found"})
		}
		return err
	}
	return integrity.ManagerCandidate(user)
}

func replaceEmployees(tx *gorm.DB, store *models.Store, userIDs []uint) error {
	if err := tx.Model(store).Association("Employees").Clear(); err != nil {
		return apperr.Internal("failed to clear employees", err)
	}
	if len(userIDs) == 0 {
		return nil
	}
	var candidates []models.User
	if err := tx.Where("id IN ?", userIDs).Find(&candidates).Error; err != nil {
		return apperr.Internal("failed to load employees", err)
	}
	staff := integrity.StaffOnly(candidates)
	if len(staff) == 0 {
		return nil
	}
	if err := tx.Model(store).Association("Employees").Append(staff); err != nil {
		return apperr.Internal("failed to assign employees", err)
	}
	return nil
}
