package integrity

import (
	"testing"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSupplierServesStore(t *testing.T) {
	s := &models.Supplier{Name: "Acme", Stores: []models.Store{{ID: 1}, {ID: 2}}}
	assert.NoError(t, SupplierServesStore(s, 2))

	err := SupplierServesStore(s, 3)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Contains(t, err.Error(), "does not serve")
}

func TestCountChecks(t *testing.T) {
	assert.NoError(t, SKUAvailable(0))
	assert.ErrorIs(t, SKUAvailable(1), apperr.ErrConflict)
	assert.NoError(t, StoreDeletable(0))
	assert.ErrorIs(t, StoreDeletable(3), apperr.ErrConflict)
	assert.NoError(t, SupplierDeletable(0))
	assert.ErrorIs(t, SupplierDeletable(1), apperr.ErrConflict)
}

func TestStaffOnlySkipsOtherRoles(t *testing.T) {
	in := []models.User{
		{ID: 1, Role: models.RoleStaff},
		{ID: 2, Role: models.RoleManager},
		{ID: 3, Role: models.RoleAdmin},
		{ID: 4, Role: models.RoleStaff},
	}
	out := StaffOnly(in)
	if assert.Len(t, out, 2) {
		assert.Equal(t, uint(1), out[0].ID)
		assert.Equal(t, uint(4), out[1].ID)
	}
	assert.Empty(t, StaffOnly(nil))
}

func TestManagerCandidate(t *testing.T) {
	assert.NoError(t, ManagerCandidate(&models.User{Role: models.RoleManager}))
	assert.ErrorIs(t, ManagerCandidate(&models.User{Role: models.RoleStaff}), apperr.ErrValidation)
	assert.ErrorIs(t, ManagerCandidate(&models.User{Role: models.RoleAdmin}), apperr.ErrValidation)
}

func TestSupplierStoresRetained(t *testing.T) {
	assert.NoError(t, SupplierStoresRetained([]uint{1}, []uint{1, 2}))
	assert.NoError(t, SupplierStoresRetained(nil, nil))
	assert.ErrorIs(t, SupplierStoresRetained([]uint{1, 2}, []uint{2}), apperr.ErrConflict)
}

func TestUserDeletion(t *testing.T) {
	super := &models.User{ID: 1, Role: models.RoleAdmin, IsSuperuser: true}
	plainAdmin := &models.User{ID: 2, Role: models.RoleAdmin}
	staff := &models.User{ID: 3, Role: models.RoleStaff}

	assert.NoError(t, UserDeletion(plainAdmin, staff, 2))
	assert.NoError(t, UserDeletion(super, plainAdmin, 2))

	assert.ErrorIs(t, UserDeletion(plainAdmin, super, 2), apperr.ErrForbidden)
	assert.ErrorIs(t, UserDeletion(super, super, 2), apperr.ErrValidation)
	assert.ErrorIs(t, UserDeletion(super, plainAdmin, 1), apperr.ErrConflict)
}

func TestRoleChange(t *testing.T) {
	super := &models.User{ID: 1, Role: models.RoleAdmin, IsSuperuser: true}
	plainAdmin := &models.User{ID: 2, Role: models.RoleAdmin}
	staff := &models.User{ID: 3, Role: models.RoleStaff}

	assert.NoError(t, RoleChange(plainAdmin, staff, models.RoleManager, 2))
	assert.ErrorIs(t, RoleChange(plainAdmin, staff, models.UserRole("owner"), 2), apperr.ErrValidation)
	assert.ErrorIs(t, RoleChange(plainAdmin, super, models.RoleStaff, 2), apperr.ErrForbidden)
	assert.ErrorIs(t, RoleChange(super, plainAdmin, models.RoleStaff, 1), apperr.ErrConflict)
	assert.NoError(t, RoleChange(super, plainAdmin, models.RoleStaff, 2))
}
