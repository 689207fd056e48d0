package services

import (
	"context"

	"inventory-manager/internal/models"
	"inventory-manager/internal/policy"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type NamedCount struct {
	ID    uint
	Name  string
	Count int
}

// Overview aggregates the inventory visible to one user.
type Overview struct {
	TotalProducts      int
	TotalStores        int
	TotalSuppliers     int
	LowStockCount      int
	InventoryValue     decimal.Decimal
	ProductsPerStore   []NamedCount
	ProductsBySupplier []NamedCount
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Overview counts only rows inside actor's list scope. Per-supplier counts
// include just the products in that scope.
func (s *DashboardService) Overview(ctx context.Context, actor *models.User) (*Overview, error) {
	sc := policy.ListScope(policy.SubjectOf(actor), nil)
	db := s.db.WithContext(ctx)

	var stores []models.Store
	if err := db.Scopes(storeIDsInScope("id", sc)).Order("id").Find(&stores).Error; err != nil {
		return nil, err
	}
	var suppliers []models.Supplier
	if err := db.Scopes(suppliersInScope(sc)).Order("id").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	var products []models.Product
	err := db.Select("id", "price", "quantity", "threshold", "store_id", "supplier_id").
		Scopes(storeIDsInScope("store_id", sc)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}

	ov := &Overview{
		TotalProducts:  len(products),
		TotalStores:    len(stores),
		TotalSuppliers: len(suppliers),
		InventoryValue: decimal.Zero,
	}
	perStore := map[uint]int{}
	perSupplier := map[uint]int{}
	for i := range products {
		p := &products[i]
		if p.IsLowStock() {
			ov.LowStockCount++
		}
		ov.InventoryValue = ov.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
		perStore[p.StoreID]++
		perSupplier[p.SupplierID]++
	}
	for _, st := range stores {
		ov.ProductsPerStore = append(ov.ProductsPerStore, NamedCount{ID: st.ID, Name: st.Name, Count: perStore[st.ID]})
	}
	for _, sup := range suppliers {
		ov.ProductsBySupplier = append(ov.ProductsBySupplier, NamedCount{ID: sup.ID, Name: sup.Name, Count: perSupplier[sup.ID]})
	}
	return ov, nil
}
