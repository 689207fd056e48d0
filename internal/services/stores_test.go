package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOptionalID_UnmarshalJSON(t *testing.T) {
	var in StoreInput
	require.NoError(t, json.Unmarshal([]byte(`{"name":"x"}`), &in))
	assert.False(t, in.Manager.Set)

	require.NoError(t, json.Unmarshal([]byte(`{"manager_id":null}`), &in))
	assert.True(t, in.Manager.Set)
	assert.Nil(t, in.Manager.ID)

	in = StoreInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"manager_id":7}`), &in))
	require.NotNil(t, in.Manager.ID)
	assert.Equal(t, uint(7), *in.Manager.ID)

	in = StoreInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"manager_id":"8"}`), &in))
	assert.Equal(t, uint(8), *in.Manager.ID)

	assert.Error(t, json.Unmarshal([]byte(`{"manager_id":"abc"}`), &in))
}

func TestStoreCreate_ManagerBecomesManager(t *testing.T) {
	f := newFixture(t)
	svc := NewStoreService(f.db)
	ctx := context.Background()

	st, err := svc.Create(ctx, f.manager, StoreInput{Name: ptr("New"), Address: ptr("3 Elm St")})
	require.NoError(t, err)
	require.NotNil(t, st.ManagerID)
	assert.Equal(t, f.manager.ID, *st.ManagerID)
	assert.Equal(t, "manager", st.Manager.Username)

	_, err = svc.Create(ctx, f.manager, StoreInput{Name: ptr("Other"), Address: ptr("4 Elm St"), Manager: SomeID(f.other.ID)})
	requireKind(t, apperr.KindForbidden, err)

	_, err = svc.Create(ctx, f.staff, StoreInput{Name: ptr("Nope"), Address: ptr("5 Elm St")})
	requireKind(t, apperr.KindForbidden, err)

	_, err = svc.Create(ctx, f.admin, StoreInput{Name: ptr("Bad"), Address: ptr("6 Elm St"), Manager: SomeID(f.staff.ID)})
	requireKind(t, apperr.KindValidation, err)

	_, err = svc.Create(ctx, f.admin, StoreInput{Name: ptr("")})
	requireKind(t, apperr.KindValidation, err)

	st, err = svc.Create(ctx, f.admin, StoreInput{Name: ptr("Unmanaged"), Address: ptr("7 Elm St")})
	require.NoError(t, err)
	assert.Nil(t, st.ManagerID)
}

func TestStoreUpdate_ManagerAssignment(t *testing.T) {
	f := newFixture(t)
	svc := NewStoreService(f.db)
	ctx := context.Background()

	// managers edit their own store but cannot reassign it
	st, err := svc.Update(ctx, f.manager, f.storeA.ID, StoreInput{Phone: ptr("555-1234")})
	require.NoError(t, err)
	require.NotNil(t, st.Phone)
	assert.Equal(t, "555-1234", *st.Phone)

	_, err = svc.Update(ctx, f.manager, f.storeA.ID, StoreInput{Manager: SomeID(f.other.ID)})
	requireKind(t, apperr.KindForbidden, err)

	_, err = svc.Update(ctx, f.manager, f.storeB.ID, StoreInput{Name: ptr("Mine now")})
	requireKind(t, apperr.KindForbidden, err)

	_, err = svc.Update(ctx, f.admin, f.storeA.ID, StoreInput{Manager: SomeID(f.staff.ID)})
	requireKind(t, apperr.KindValidation, err)

	st, err = svc.Update(ctx, f.admin, f.storeA.ID, StoreInput{Manager: SomeID(f.other.ID)})
	require.NoError(t, err)
	assert.Equal(t, f.other.ID, *st.ManagerID)

	st, err = svc.Update(ctx, f.admin, f.storeA.ID, StoreInput{Manager: NullID()})
	require.NoError(t, err)
	assert.Nil(t, st.ManagerID)
	assert.Equal(t, "Store A", st.Name)
}

func TestStoreReplaceEmployees_SkipsNonStaff(t *testing.T) {
	f := newFixture(t)
	svc := NewStoreService(f.db)
	ctx := context.Background()
	second := createUser(t, f.db, "staff2", models.RoleStaff)

	st, err := svc.ReplaceEmployees(ctx, f.manager, f.storeA.ID, []uint{second.ID, f.other.ID, 999})
	require.NoError(t, err)
	require.Len(t, st.Employees, 1)
	assert.Equal(t, second.ID, st.Employees[0].ID)

	st, err = svc.ReplaceEmployees(ctx, f.admin, f.storeA.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, st.Employees)

	_, err = svc.ReplaceEmployees(ctx, f.other, f.storeA.ID, []uint{second.ID})
	requireKind(t, apperr.KindForbidden, err)
}

func TestStoreReplaceEmployees_RollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	svc := NewStoreService(f.db)
	ctx := context.Background()
	second := createUser(t, f.db, "staff2", models.RoleStaff)

	// fail the candidate lookup that runs after the clear
	cb := f.db.Callback().Query()
	require.NoError(t, cb.Before("gorm:query").Register("test:fail_users", func(db *gorm.DB) {
		if db.Statement.Table == "users" {
			db.AddError(errors.New("users unavailable"))
		}
	}))
	_, err := svc.ReplaceEmployees(ctx, f.admin, f.storeA.ID, []uint{second.ID})
	requireKind(t, apperr.KindInternal, err)
	require.NoError(t, cb.Remove("test:fail_users"))

	st, err := svc.Get(ctx, f.admin, f.storeA.ID)
	require.NoError(t, err)
	require.Len(t, st.Employees, 1)
	assert.Equal(t, f.staff.ID, st.Employees[0].ID)
}

func TestStoreUpdate_EmployeeIDs(t *testing.T) {
	f := newFixture(t)
	svc := NewStoreService(f.db)
	second := createUser(t, f.db, "staff2", models.RoleStaff)

	st, err := svc.Update(context.Background(), f.admin, f.storeA.ID, StoreInput{EmployeeIDs: &[]uint{second.ID}})
	require.NoError(t, err)
	require.Len(t, st.Employees, 1)
	assert.Equal(t, "staff2", st.Employees[0].Username)
}

func TestStoreDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewStoreService(f.db)
	ctx := context.Background()
	f.product(t, "A1", f.storeA, 5)

	_, err := svc.Delete(ctx, f.manager, f.storeA.ID)
	requireKind(t, apperr.KindForbidden, err)

	_, err = svc.Delete(ctx, f.admin, f.storeA.ID)
	requireKind(t, apperr.KindConflict, err)

	require.NoError(t, f.db.Where("store_id = ?", f.storeA.ID).Delete(&models.Product{}).Error)
	deleted, err := svc.Delete(ctx, f.admin, f.storeA.ID)
	require.NoError(t, err)
	assert.Equal(t, "Store A", deleted.Name)

	var links int64
	f.db.Table("store_employees").Where("store_id = ?", f.storeA.ID).Count(&links)
	assert.Zero(t, links)
	f.db.Table("supplier_stores").Where("store_id = ?", f.storeA.ID).Count(&links)
	assert.Zero(t, links)

	_, err = svc.Delete(ctx, f.admin, f.storeA.ID)
	requireKind(t, apperr.KindNotFound, err)
}

func TestStoreListAndDetail(t *testing.T) {
	f := newFixture(t)
	svc := NewStoreService(f.db)
	ctx := context.Background()
	f.product(t, "A1", f.storeA, 5)
	f.product(t, "A2", f.storeA, 50)

	stores, err := svc.List(ctx, f.admin, nil)
	require.NoError(t, err)
	assert.Len(t, stores, 2)

	stores, err = svc.List(ctx, f.staff, nil)
	require.NoError(t, err)
	require.Len(t, stores, 1)
	assert.Equal(t, f.storeA.ID, stores[0].ID)

	detail, err := svc.Get(ctx, f.staff, f.storeA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), detail.ProductCount)
	assert.Len(t, detail.Employees, 1)
	assert.Len(t, detail.Suppliers, 1)
	require.NotNil(t, detail.Manager)
	assert.Equal(t, "manager", detail.Manager.Username)

	_, err = svc.Get(ctx, f.staff, f.storeB.ID)
	requireKind(t, apperr.KindForbidden, err)
}
