package services

import (
	"context"
	"sync"
	"testing"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/database"
	"inventory-manager/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fixture: storeA is managed by manager and staffs staff, storeB is
// managed by other, supplier serves storeA only.
type fixture struct {
	db       *gorm.DB
	admin    *models.User
	manager  *models.User
	other    *models.User
	staff    *models.User
	storeA   *models.Store
	storeB   *models.Store
	supplier *models.Supplier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{db: db}

	f.admin = createUser(t, db, "admin", models.RoleAdmin)
	f.admin.IsSuperuser = true
	require.NoError(t, db.Save(f.admin).Error)
	f.manager = createUser(t, db, "manager", models.RoleManager)
	f.other = createUser(t, db, "other", models.RoleManager)
	f.staff = createUser(t, db, "staff", models.RoleStaff)

	f.storeA = &models.Store{Name: "Store A", Address: "1 Main St", ManagerID: &f.manager.ID}
	require.NoError(t, db.Create(f.storeA).Error)
	f.storeB = &models.Store{Name: "Store B", Address: "2 Side St", ManagerID: &f.other.ID}
	require.NoError(t, db.Create(f.storeB).Error)
	require.NoError(t, db.Model(f.storeA).Association("Employees").Append(f.staff))

	f.supplier = &models.Supplier{Name: "Acme", Phone: "555-0100"}
	require.NoError(t, db.Create(f.supplier).Error)
	require.NoError(t, db.Model(f.supplier).Association("Stores").Append(f.storeA))

	f.staff = reloadUser(t, db, f.staff.ID)
	return f
}

func createUser(t *testing.T, db *gorm.DB, name string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.Preload("AssignedStores").First(&u, id).Error)
	return &u
}

func (f *fixture) product(t *testing.T, sku string, store *models.Store, qty int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:       sku,
		SKU:        sku,
		Price:      decimal.RequireFromString("2.50"),
		Quantity:   qty,
		Threshold:  models.DefaultThreshold,
		SupplierID: f.supplier.ID,
		StoreID:    store.ID,
	}
	require.NoError(t, f.db.Create(p).Error)
	return p
}

func requireKind(t *testing.T, kind apperr.Kind, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}

type published struct {
	topic   string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (r *recordingPublisher) Publish(_ context.Context, topic string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{topic, payload})
	return nil
}

func (r *recordingPublisher) Close() {}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func ptr[T any](v T) *T { return &v }
