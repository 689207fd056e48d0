package services

import (
	"context"
	"fmt"
	"strings"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/auth"
	"inventory-manager/internal/integrity"
	"inventory-manager/internal/models"
	"inventory-manager/internal/policy"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RegisterInput struct {
	Username  string          `json:"username" binding:"required,max=100"`
	Email     string          `json:"email" binding:"required,email"`
	Password  string          `json:"password" binding:"required,min=6"`
	Role      models.UserRole `json:"role"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	StoreIDs  []uint          `json:"store_ids"`
}

type ProfileInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Phone     *string `json:"phone"`
}

type RoleInput struct {
	Role     models.UserRole `json:"role" binding:"required"`
	StoreIDs *[]uint         `json:"store_ids"`
}

type UserService struct {
	db   *gorm.DB
	cost int
}

func NewUserService(db *gorm.DB, bcryptCost int) *UserService {
	return &UserService{db: db, cost: bcryptCost}
}

// Register creates an account. Anyone may register staff or managers; an
// admin account needs an authenticated admin caller. caller may be nil.
func (s *UserService) Register(ctx context.Context, caller *models.User, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role == "" {
		in.Role = models.RoleStaff
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("Invalid role. Must be one of: staff, manager, admin", map[string]string{"role": "oneof"})
	}
	if in.Role == models.RoleAdmin {
		if err := policy.RequireRole(policy.SubjectOf(caller), models.RoleAdmin).Err(); err != nil {
			return nil, err
		}
	}
	if in.Username == "" || in.Email == "" || len(in.Password) < 6 {
		return nil, apperr.Validation("Username, email and password are required", nil)
	}

	hash, err := auth.HashPassword(in.Password, s.cost)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := uniqueUserField(tx, "username", in.Username, 0, "Username already exists"); err != nil {
			return err
		}
		if err := uniqueUserField(tx, "email", in.Email, 0, "Email already exists"); err != nil {
			return err
		}
		user = models.User{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: hash,
			Role:         in.Role,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			IsActive:     true,
		}
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return apperr.FromDB(err, "User")
		}
		if user.Role == models.RoleStaff && len(in.StoreIDs) > 0 {
			return assignStores(tx, &user, in.StoreIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actor := caller
	if actor == nil {
		actor = &user
	}
	audit(ctx, s.db, actor, "user", user.ID, "create", fmt.Sprintf("Registered user %s (%s)", user.Username, user.Role))
	return s.load(s.db.WithContext(ctx), user.ID)
}

// Get returns a user to an admin or to the user themselves.
func (s *UserService) Get(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	sub := policy.SubjectOf(actor)
	if !sub.Authenticated() {
		return nil, policy.RequireRole(sub).Err()
	}
	if !sub.IsAdmin() && sub.UserID != id {
		return nil, apperr.Forbidden(policy.ReasonRole)
	}
	return s.load(s.db.WithContext(ctx), id)
}

// ManagedStores lists the stores whose manager is userID.
func (s *UserService) ManagedStores(ctx context.Context, userID uint) ([]models.Store, error) {
	var stores []models.Store
	err := s.db.WithContext(ctx).Where("manager_id = ?", userID).Order("id").Find(&stores).Error
	return stores, err
}

// List returns every user. Admin only.
func (s *UserService) List(ctx context.Context, actor *models.User) ([]models.User, error) {
	if err := policy.RequireRole(policy.SubjectOf(actor), models.RoleAdmin).Err(); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// ListByRole returns the users holding role to any authenticated caller.
func (s *UserService) ListByRole(ctx context.Context, actor *models.User, role models.UserRole) ([]models.User, error) {
	if err := policy.RequireRole(policy.SubjectOf(actor), models.Roles...).Err(); err != nil {
		return nil, err
	}
	var users []models.User
	err := s.db.WithContext(ctx).Where("role = ?", role).Order("id").Find(&users).Error
	return users, err
}

// UpdateProfile edits the caller's own names, email and phone. An empty
// phone clears it.
func (s *UserService) UpdateProfile(ctx context.Context, actor *models.User, in ProfileInput) (*models.User, error) {
	if err := policy.RequireRole(policy.SubjectOf(actor), models.Roles...).Err(); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, actor.ID).Error; err != nil {
			return apperr.FromDB(err, "User")
		}
		if in.FirstName != nil {
			user.FirstName = *in.FirstName
		}
		if in.LastName != nil {
			user.LastName = *in.LastName
		}
		if in.Email != nil {
			email := strings.TrimSpace(*in.Email)
			if email == "" {
				return apperr.Validation("Email cannot be empty", map[string]string{"email": "required"})
			}
			if err := uniqueUserField(tx, "email", email, user.ID, "Email already in use by another account"); err != nil {
				return err
			}
			user.Email = email
		}
		if in.Phone != nil {
			user.Phone = optional(in.Phone)
		}
		return apperr.FromDB(tx.Omit(clause.Associations).Save(&user).Error, "User")
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "user", user.ID, "update", "Updated profile")
	return s.load(s.db.WithContext(ctx), user.ID)
}

// ChangeRole moves a user to another role. Leaving staff drops store
// assignments, leaving manager unassigns managed stores, and a staff
// target with store_ids gets exactly those assignments.
func (s *UserService) ChangeRole(ctx context.Context, actor *models.User, id uint, in RoleInput) (*models.User, error) {
	if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionUpdate, policy.User()).Err(); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return apperr.FromDB(err, "User")
		}
		admins, err := countAdmins(tx)
		if err != nil {
			return err
		}
		if err := integrity.RoleChange(actor, &user, in.Role, admins); err != nil {
			return err
		}

		if user.Role == models.RoleStaff && in.Role != models.RoleStaff {
			if err := tx.Model(&user).Association("AssignedStores").Clear(); err != nil {
				return apperr.Internal("failed to clear store assignments", err)
			}
		}
		if user.Role == models.RoleManager && in.Role != models.RoleManager {
			if err := unassignManager(tx, user.ID); err != nil {
				return err
			}
		}
		if in.Role == models.RoleStaff && in.StoreIDs != nil {
			if err := tx.Model(&user).Association("AssignedStores").Clear(); err != nil {
				return apperr.Internal("failed to clear store assignments", err)
			}
			if err := assignStores(tx, &user, *in.StoreIDs); err != nil {
				return err
			}
		}

		user.Role = in.Role
		return apperr.FromDB(tx.Model(&user).Update("role", in.Role).Error, "User")
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "user", user.ID, "update", fmt.Sprintf("Changed role of %s to %s", user.Username, user.Role))
	return s.load(s.db.WithContext(ctx), user.ID)
}

// Delete removes a user after every safety check has passed.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uint) (*models.User, error) {
	if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionDelete, policy.User()).Err(); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			return apperr.FromDB(err, "User")
		}
		admins, err := countAdmins(tx)
		if err != nil {
			return err
		}
		if err := integrity.UserDeletion(actor, &user, admins); err != nil {
			return err
		}

		if err := tx.Model(&user).Association("AssignedStores").Clear(); err != nil {
			return apperr.Internal("failed to clear store assignments", err)
		}
		if err := unassignManager(tx, user.ID); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "user", user.ID, "delete", fmt.Sprintf("Deleted user %s", user.Username))
	return &user, nil
}

func (s *UserService) load(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := db.Preload("AssignedStores", func(q *gorm.DB) *gorm.DB { return q.Order("id") }).First(&user, id).Error
	if err != nil {
		return nil, apperr.FromDB(err, "User")
	}
	return &user, nil
}

func uniqueUserField(tx *gorm.DB, column, value string, exceptID uint, msg string) error {
	var n int64
	q := tx.Model(&models.User{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return apperr.Internal("failed to check "+column, err)
	}
	if n > 0 {
		return apperr.Conflict(msg)
	}
	return nil
}

func countAdmins(tx *gorm.DB) (int64, error) {
	var n int64
	if err := tx.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&n).Error; err != nil {
		return 0, apperr.Internal("failed to count admins", err)
	}
	return n, nil
}

// assignStores adds the user to the stores that exist among storeIDs.
func assignStores(tx *gorm.DB, user *models.User, storeIDs []uint) error {
	if len(storeIDs) == 0 {
		return nil
	}
	var stores []models.Store
	if err := tx.Where("id IN ?", uniqueIDs(storeIDs)).Find(&stores).Error; err != nil {
		return apperr.Internal("failed to load stores", err)
	}
	if len(stores) == 0 {
		return nil
	}
	if err := tx.Model(user).Association("AssignedStores").Append(stores); err != nil {
		return apperr.Internal("failed to assign stores", err)
	}
	return nil
}

func unassignManager(tx *gorm.DB, userID uint) error {
	err := tx.Model(&models.Store{}).Where("manager_id = ?", userID).Update("manager_id", nil).Error
	if err != nil {
		return apperr.Internal("failed to unassign managed stores", err)
	}
	return nil
}
