package services

import (
	"context"
	"testing"

	"inventory-manager/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplierCreate(t *testing.T) {
	f := newFixture(t)
	svc := NewSupplierService(f.db)
	ctx := context.Background()

	_, err := svc.Create(ctx, f.manager, SupplierInput{Name: ptr("Beta"), Phone: ptr("1")})
	requireKind(t, apperr.KindForbidden, err)

	_, err = svc.Create(ctx, f.admin, SupplierInput{Name: ptr("Beta")})
	requireKind(t, apperr.KindValidation, err)

	_, err = svc.Create(ctx, f.admin, SupplierInput{Name: ptr("Beta"), Phone: ptr("1"), StoreIDs: &[]uint{f.storeA.ID, 999}})
	requireKind(t, apperr.KindNotFound, err)

	s, err := svc.Create(ctx, f.admin, SupplierInput{
		Name:     ptr("Beta"),
		Phone:    ptr("1"),
		Email:    ptr(""),
		StoreIDs: &[]uint{f.storeA.ID, f.storeB.ID, f.storeA.ID},
	})
	require.NoError(t, err)
	assert.Len(t, s.Stores, 2)
	assert.Nil(t, s.Email)
}

func TestSupplierUpdate_StoreReplacement(t *testing.T) {
	f := newFixture(t)
	svc := NewSupplierService(f.db)
	ctx := context.Background()

	s, err := svc.Update(ctx, f.admin, f.supplier.ID, SupplierInput{StoreIDs: &[]uint{f.storeA.ID, f.storeB.ID}})
	require.NoError(t, err)
	assert.Len(t, s.Stores, 2)

	f.product(t, "A1", f.storeA, 5)
	_, err = svc.Update(ctx, f.admin, f.supplier.ID, SupplierInput{StoreIDs: &[]uint{f.storeB.ID}})
	requireKind(t, apperr.KindConflict, err)

	// failed replacement leaves the relation untouched
	s, err = svc.Get(ctx, f.admin, f.supplier.ID)
	require.NoError(t, err)
	assert.Len(t, s.Stores, 2)

	s, err = svc.Update(ctx, f.admin, f.supplier.ID, SupplierInput{Name: ptr("Acme Ltd")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", s.Name)
	assert.Len(t, s.Stores, 2)

	_, err = svc.Update(ctx, f.manager, f.supplier.ID, SupplierInput{Name: ptr("x")})
	requireKind(t, apperr.KindForbidden, err)
}

func TestSupplierDelete(t *testing.T) {
	f := newFixture(t)
	svc := NewSupplierService(f.db)
	ctx := context.Background()
	p := f.product(t, "A1", f.storeA, 5)

	_, err := svc.Delete(ctx, f.admin, f.supplier.ID)
	requireKind(t, apperr.KindConflict, err)

	require.NoError(t, f.db.Delete(p).Error)
	_, err = svc.Delete(ctx, f.admin, f.supplier.ID)
	require.NoError(t, err)

	var links int64
	f.db.Table("supplier_stores").Where("supplier_id = ?", f.supplier.ID).Count(&links)
	assert.Zero(t, links)
}

func TestSupplierList_Scope(t *testing.T) {
	f := newFixture(t)
	svc := NewSupplierService(f.db)
	ctx := context.Background()

	all, err := svc.List(ctx, f.admin, nil)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	mine, err := svc.List(ctx, f.manager, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := svc.List(ctx, f.other, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	viaStore, err := svc.List(ctx, f.other, &f.storeA.ID)
	require.NoError(t, err)
	assert.Len(t, viaStore, 1)

	_, err = svc.Get(ctx, f.other, f.supplier.ID)
	requireKind(t, apperr.KindForbidden, err)
}
