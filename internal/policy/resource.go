package policy

import "inventory-manager/internal/models"

// StoreRef is the slice of a Store the evaluator needs.
type StoreRef struct {
	ID        uint
	ManagerID *uint
}

func RefOf(s *models.Store) StoreRef {
	if s == nil {
		return StoreRef{}
	}
	return StoreRef{ID: s.ID, ManagerID: s.ManagerID}
}

// Resource is a snapshot of the target of an action. Stores holds every
// store the resource is bound to: one for products and stores, the served
// set for suppliers. Mutations spanning two stores (a product moving
// between stores) list both.
type Resource struct {
	Kind   ResourceKind
	Stores []StoreRef
}

func Product(stores ...StoreRef) Resource { return Resource{Kind: KindProduct, Stores: stores} }

func Store(store StoreRef) Resource { return Resource{Kind: KindStore, Stores: []StoreRef{store}} }

func Supplier(stores ...StoreRef) Resource { return Resource{Kind: KindSupplier, Stores: stores} }

// SupplierOf builds a supplier resource; Stores must be preloaded.
func SupplierOf(s *models.Supplier) Resource {
	refs := make([]StoreRef, 0, len(s.Stores))
	for i := range s.Stores {
		refs = append(refs, RefOf(&s.Stores[i]))
	}
	return Supplier(refs...)
}

func User() Resource { return Resource{Kind: KindUser} }
