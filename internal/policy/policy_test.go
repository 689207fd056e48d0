package policy_test

import (
	"testing"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/models"
	"inventory-manager/internal/policy"

	"github.com/stretchr/testify/assert"
)

func uptr(v uint) *uint { return &v }

var (
	admin   = policy.SubjectOf(&models.User{ID: 1, Role: models.RoleAdmin})
	manager = policy.SubjectOf(&models.User{ID: 2, Role: models.RoleManager})
	other   = policy.SubjectOf(&models.User{ID: 3, Role: models.RoleManager})
	staff   = policy.SubjectOf(&models.User{
		ID: 4, Role: models.RoleStaff,
		AssignedStores: []models.Store{{ID: 10}},
	})

	store10 = policy.StoreRef{ID: 10, ManagerID: uptr(2)}
	store20 = policy.StoreRef{ID: 20, ManagerID: uptr(3)}
	store30 = policy.StoreRef{ID: 30}
)

func TestAuthorize_Unauthenticated(t *testing.T) {
	d := policy.Authorize(policy.Subject{}, policy.ActionList, policy.Product())
	assert.False(t, d.Allowed)
	assert.ErrorIs(t, d.Err(), apperr.ErrUnauthenticated)
}

func TestAuthorize_ListAnyRole(t *testing.T) {
	for _, sub := range []policy.Subject{admin, manager, staff} {
		assert.True(t, policy.Authorize(sub, policy.ActionList, policy.Product()).Allowed)
	}
}

func TestAuthorize_ViewScoping(t *testing.T) {
	assert.True(t, policy.Authorize(admin, policy.ActionView, policy.Product(store30)).Allowed)

	assert.True(t, policy.Authorize(manager, policy.ActionView, policy.Product(store10)).Allowed)
	d := policy.Authorize(manager, policy.ActionView, policy.Product(store20))
	assert.False(t, d.Allowed)
	assert.Equal(t, policy.ReasonNotInScope, d.Reason)
	assert.ErrorIs(t, d.Err(), apperr.ErrForbidden)

	assert.True(t, policy.Authorize(staff, policy.ActionView, policy.Store(store10)).Allowed)
	assert.False(t, policy.Authorize(staff, policy.ActionView, policy.Store(store20)).Allowed)

	// suppliers are visible through any in-scope store they serve
	assert.True(t, policy.Authorize(manager, policy.ActionView, policy.Supplier(store20, store10)).Allowed)
	assert.False(t, policy.Authorize(manager, policy.ActionView, policy.Supplier()).Allowed)
}

func TestAuthorize_ProductWrites(t *testing.T) {
	assert.True(t, policy.Authorize(admin, policy.ActionCreate, policy.Product(store30)).Allowed)
	assert.True(t, policy.Authorize(manager, policy.ActionCreate, policy.Product(store10)).Allowed)

	// another manager's store, or a store without a manager
	assert.False(t, policy.Authorize(manager, policy.ActionCreate, policy.Product(store20)).Allowed)
	assert.False(t, policy.Authorize(manager, policy.ActionCreate, policy.Product(store30)).Allowed)

	// moving a product out of a managed store into a foreign one
	assert.False(t, policy.Authorize(manager, policy.ActionUpdate, policy.Product(store10, store20)).Allowed)

	assert.False(t, policy.Authorize(staff, policy.ActionUpdate, policy.Product(store10)).Allowed)
}

func TestAuthorize_SupplierWritesAdminOnly(t *testing.T) {
	for _, a := range []policy.Action{policy.ActionCreate, policy.ActionUpdate, policy.ActionDelete} {
		assert.True(t, policy.Authorize(admin, a, policy.Supplier()).Allowed)
		assert.False(t, policy.Authorize(manager, a, policy.Supplier(store10)).Allowed)
		assert.False(t, policy.Authorize(staff, a, policy.Supplier(store10)).Allowed)
	}
}

func TestAuthorize_DeleteAdminOnly(t *testing.T) {
	assert.True(t, policy.Authorize(admin, policy.ActionDelete, policy.Store(store10)).Allowed)
	assert.False(t, policy.Authorize(manager, policy.ActionDelete, policy.Store(store10)).Allowed)
	assert.False(t, policy.Authorize(manager, policy.ActionDelete, policy.Product(store10)).Allowed)
	assert.False(t, policy.Authorize(manager, policy.ActionAssignManager, policy.Store(store10)).Allowed)
}

func TestRequireRole(t *testing.T) {
	assert.True(t, policy.RequireRole(admin, models.RoleAdmin).Allowed)
	assert.True(t, policy.RequireRole(manager, models.RoleAdmin, models.RoleManager).Allowed)
	assert.False(t, policy.RequireRole(staff, models.RoleAdmin, models.RoleManager).Allowed)
	assert.ErrorIs(t, policy.RequireRole(policy.Subject{}, models.RoleAdmin).Err(), apperr.ErrUnauthenticated)
}

func TestListScope(t *testing.T) {
	all := []policy.StoreRef{store10, store20, store30}
	visible := func(sc policy.Scope) []uint {
		var ids []uint
		for _, st := range all {
			if sc.Contains(st) {
				ids = append(ids, st.ID)
			}
		}
		return ids
	}

	assert.Equal(t, []uint{10, 20, 30}, visible(policy.ListScope(admin, nil)))
	assert.Equal(t, []uint{10}, visible(policy.ListScope(manager, nil)))
	assert.Equal(t, []uint{20}, visible(policy.ListScope(other, nil)))
	assert.Equal(t, []uint{10}, visible(policy.ListScope(staff, nil)))
	assert.Empty(t, visible(policy.ListScope(policy.Subject{}, nil)))

	// explicit store_id replaces role scoping
	assert.Equal(t, []uint{30}, visible(policy.ListScope(staff, uptr(30))))
	assert.Equal(t, policy.ScopeStore, policy.ListScope(manager, uptr(20)).Mode)
}

func TestSubject_AssignedStoreIDsSorted(t *testing.T) {
	sub := policy.SubjectOf(&models.User{
		ID: 9, Role: models.RoleStaff,
		AssignedStores: []models.Store{{ID: 7}, {ID: 3}, {ID: 5}},
	})
	assert.Equal(t, []uint{3, 5, 7}, sub.AssignedStoreIDs())
	assert.True(t, sub.AssignedTo(5))
	assert.False(t, sub.Manages(policy.StoreRef{ID: 5, ManagerID: uptr(9)}))
}
