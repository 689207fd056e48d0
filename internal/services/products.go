package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/events"
	"inventory-manager/internal/integrity"
	"inventory-manager/internal/models"
	"inventory-manager/internal/policy"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductInput carries create and partial-update fields. Nil means the
// field was not supplied.
type ProductInput struct {
	Name        *string          `json:"name"`
	SKU         *string          `json:"sku"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	Threshold   *int             `json:"threshold"`
	SupplierID  *uint            `json:"supplier_id"`
	StoreID     *uint            `json:"store_id"`
}

func (in ProductInput) validate(create bool) error {
	details := map[string]string{}
	if create {
		if blank(in.Name) {
			details["name"] = "required"
		}
		if blank(in.SKU) {
			details["sku"] = "required"
		}
		if in.Price == nil {
			details["price"] = "required"
		}
		if in.Quantity == nil {
			details["quantity"] = "required"
		}
		if in.SupplierID == nil {
			details["supplier_id"] = "required"
		}
		if in.StoreID == nil {
			details["store_id"] = "required"
		}
	} else {
		if in.Name != nil && blank(in.Name) {
			details["name"] = "required"
		}
		if in.SKU != nil && blank(in.SKU) {
			details["sku"] = "required"
		}
	}
	if in.Price != nil && in.Price.IsNegative() {
		details["price"] = "min"
	}
	if len(details) > 0 {
		return apperr.Validation("Invalid product data", details)
	}
	return nil
}

type ProductService struct {
	db     *gorm.DB
	events events.Publisher
}

// NewProductService builds the service. pub may be nil to disable
// low-stock notifications.
func NewProductService(db *gorm.DB, pub events.Publisher) *ProductService {
	return &ProductService{db: db, events: pub}
}

// List returns the products visible to actor, optionally limited to one store.
func (s *ProductService) List(ctx context.Context, actor *models.User, storeID *uint) ([]models.Product, error) {
	sc := policy.ListScope(policy.SubjectOf(actor), storeID)
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Supplier").Preload("Store").
		Scopes(storeIDsInScope("store_id", sc)).
		Order("id").
		Find(&products).Error
	return products, err
}

// LowStock lists visible products at or below their threshold.
func (s *ProductService) LowStock(ctx context.Context, actor *models.User) ([]models.Product, error) {
	sc := policy.ListScope(policy.SubjectOf(actor), nil)
	var products []models.Product
	err := s.db.WithContext(ctx).
		Preload("Supplier").Preload("Store").
		Scopes(storeIDsInScope("store_id", sc)).
		Where("quantity <= threshold").
		Order("quantity").Order("id").
		Find(&products).Error
	return products, err
}

// BySupplier lists the supplier's products that fall inside actor's scope.
func (s *ProductService) BySupplier(ctx context.Context, actor *models.User, supplierID uint) ([]models.Product, error) {
	db := s.db.WithContext(ctx)
	supplier, err := loadSupplier(db, supplierID)
	if err != nil {
		return nil, err
	}
	sub := policy.SubjectOf(actor)
	if err := policy.Authorize(sub, policy.ActionView, policy.SupplierOf(supplier)).Err(); err != nil {
		return nil, err
	}
	var products []models.Product
	err = db.Preload("Store").
		Where("supplier_id = ?", supplier.ID).
		Scopes(storeIDsInScope("store_id", policy.ListScope(sub, nil))).
		Order("id").
		Find(&products).Error
	return products, err
}

func (s *ProductService) Get(ctx context.Context, actor *models.User, id uint) (*models.Product, error) {
	product, err := s.load(s.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	res := policy.Product(policy.RefOf(&product.Store))
	if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionView, res).Err(); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Create(ctx context.Context, actor *models.User, in ProductInput) (*models.Product, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}
	sub := policy.SubjectOf(actor)

	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store, err := loadStore(tx, *in.StoreID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(sub, policy.ActionCreate, policy.Product(policy.RefOf(store))).Err(); err != nil {
			return err
		}
		supplier, err := loadSupplier(tx, *in.SupplierID)
		if err != nil {
			return err
		}
		if err := s.checkSKU(tx, *in.SKU, 0); err != nil {
			return err
		}
		if err := integrity.SupplierServesStore(supplier, store.ID); err != nil {
			return err
		}

		product = models.Product{
			Name:       *in.Name,
			SKU:        *in.SKU,
			Price:      in.Price.Round(2),
			Quantity:   *in.Quantity,
			Threshold:  models.DefaultThreshold,
			SupplierID: supplier.ID,
			StoreID:    store.ID,
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Threshold != nil {
			product.Threshold = *in.Threshold
		}
		return productWriteErr(tx.Omit(clause.Associations).Create(&product).Error)
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "product", product.ID, "create", fmt.Sprintf("Created product %s (%s)", product.Name, product.SKU))
	s.notifyLowStock(ctx, &product, false)
	return s.load(s.db.WithContext(ctx), product.ID)
}

// Update applies a partial update. A manager must manage both the current
// store and, when it changes, the target store.
func (s *ProductService) Update(ctx context.Context, actor *models.User, id uint, in ProductInput) (*models.Product, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}
	sub := policy.SubjectOf(actor)

	var product models.Product
	var wasLow bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return apperr.FromDB(err, "Product")
		}
		current, err := loadStore(tx, product.StoreID)
		if err != nil {
			return err
		}
		refs := []policy.StoreRef{policy.RefOf(current)}
		target := current
		if in.StoreID != nil && *in.StoreID != current.ID {
			if target, err = loadStore(tx, *in.StoreID); err != nil {
				return err
			}
			refs = append(refs, policy.RefOf(target))
		}
		if err := policy.Authorize(sub, policy.ActionUpdate, policy.Product(refs...)).Err(); err != nil {
			return err
		}

		if in.SKU != nil && *in.SKU != product.SKU {
			if err := s.checkSKU(tx, *in.SKU, product.ID); err != nil {
				return err
			}
		}
		supplierID := product.SupplierID
		if in.SupplierID != nil {
			supplierID = *in.SupplierID
		}
		if in.SupplierID != nil || in.StoreID != nil {
			supplier, err := loadSupplier(tx, supplierID)
			if err != nil {
				return err
			}
			if err := integrity.SupplierServesStore(supplier, target.ID); err != nil {
				return err
			}
		}

		wasLow = product.IsLowStock()
		if in.Name != nil {
			product.Name = *in.Name
		}
		if in.SKU != nil {
			product.SKU = *in.SKU
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			product.Price = in.Price.Round(2)
		}
		if in.Quantity != nil {
			product.Quantity = *in.Quantity
		}
		if in.Threshold != nil {
			product.Threshold = *in.Threshold
		}
		product.SupplierID = supplierID
		product.StoreID = target.ID
		return productWriteErr(tx.Omit(clause.Associations).Save(&product).Error)
	})
	if err != nil {
		return nil, err
	}

	audit(ctx, s.db, actor, "product", product.ID, "update", fmt.Sprintf("Updated product %s (%s)", product.Name, product.SKU))
	s.notifyLowStock(ctx, &product, wasLow)
	return s.load(s.db.WithContext(ctx), product.ID)
}

// Delete removes a product and returns the deleted row.
func (s *ProductService) Delete(ctx context.Context, actor *models.User, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Store").First(&product, id).Error; err != nil {
			return apperr.FromDB(err, "Product")
		}
		res := policy.Product(policy.RefOf(&product.Store))
		if err := policy.Authorize(policy.SubjectOf(actor), policy.ActionDelete, res).Err(); err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, product.ID).Error
	})
	if err != nil {
		return nil, err
	}
	audit(ctx, s.db, actor, "product", product.ID, "delete", fmt.Sprintf("Deleted product %s (%s)", product.Name, product.SKU))
	return &product, nil
}

func (s *ProductService) load(db *gorm.DB, id uint) (*models.Product, error) {
	var product models.Product
	if err := db.Preload("Supplier").Preload("Store").First(&product, id).Error; err != nil {
		return nil, apperr.FromDB(err, "Product")
	}
	return &product, nil
}

func (s *ProductService) checkSKU(tx *gorm.DB, sku string, exceptID uint) error {
	var holders int64
	q := tx.Model(&models.Product{}).Where("sku = ?", sku)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&holders).Error; err != nil {
		return apperr.Internal("failed to check sku", err)
	}
	return integrity.SKUAvailable(holders)
}

// notifyLowStock publishes when a write moves a product into low stock.
func (s *ProductService) notifyLowStock(ctx context.Context, p *models.Product, wasLow bool) {
	if s.events == nil || wasLow || !p.IsLowStock() {
		return
	}
	evt := events.LowStock{
		ProductID: p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		StoreID:   p.StoreID,
		Quantity:  p.Quantity,
		Threshold: p.Threshold,
	}
	if err := s.events.Publish(ctx, events.TopicLowStock, evt); err != nil {
		log.Printf("failed to publish low stock event for product %d: %v", p.ID, err)
	}
}

// productWriteErr maps a unique-index race on sku to the same conflict as
// the explicit check.
func productWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return integrity.SKUAvailable(1)
	}
	return apperr.FromDB(err, "Product")
}
