package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardOverview(t *testing.T) {
	f := newFixture(t)
	svc := NewDashboardService(f.db)
	ctx := context.Background()

	f.product(t, "A1", f.storeA, 4)  // 10.00, low
	f.product(t, "A2", f.storeA, 20) // 50.00
	require.NoError(t, f.db.Model(f.supplier).Association("Stores").Append(f.storeB))
	f.product(t, "B1", f.storeB, 2) // 5.00, low

	ov, err := svc.Overview(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 3, ov.TotalProducts)
	assert.Equal(t, 2, ov.TotalStores)
	assert.Equal(t, 1, ov.TotalSuppliers)
	assert.Equal(t, 2, ov.LowStockCount)
	assert.True(t, ov.InventoryValue.Equal(decimal.RequireFromString("65")), ov.InventoryValue.String())
	require.Len(t, ov.ProductsBySupplier, 1)
	assert.Equal(t, 3, ov.ProductsBySupplier[0].Count)

	ov, err = svc.Overview(ctx, f.manager)
	require.NoError(t, err)
	assert.Equal(t, 2, ov.TotalProducts)
	assert.Equal(t, 1, ov.TotalStores)
	assert.Equal(t, 1, ov.LowStockCount)
	assert.True(t, ov.InventoryValue.Equal(decimal.RequireFromString("60")))
	require.Len(t, ov.ProductsPerStore, 1)
	assert.Equal(t, "Store A", ov.ProductsPerStore[0].Name)
	assert.Equal(t, 2, ov.ProductsBySupplier[0].Count)

	ov, err = svc.Overview(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, ov.TotalProducts)
}
