package policy

import "inventory-manager/internal/models"

type ScopeMode int

const (
	// ScopeNone matches nothing.
	ScopeNone ScopeMode = iota
	ScopeAll
	// ScopeStore is an explicit store_id request.
	ScopeStore
	ScopeManaged
	ScopeAssigned
)

// Scope is the row filter for list endpoints, expressed in terms of the
// store a row belongs to.
type Scope struct {
	Mode      ScopeMode
	StoreID   uint   // ScopeStore
	ManagerID uint   // ScopeManaged
	StoreIDs  []uint // ScopeAssigned
}

// ListScope returns the visible-row filter for sub. A non-nil storeID
// replaces role scoping entirely: any authenticated user asking for one
// store gets that store's rows.
func ListScope(sub Subject, storeID *uint) Scope {
	if !sub.Authenticated() {
		return Scope{Mode: ScopeNone}
	}
	if storeID != nil {
		return Scope{Mode: ScopeStore, StoreID: *storeID}
	}
	switch sub.Role {
	case models.RoleAdmin:
		return Scope{Mode: ScopeAll}
	case models.RoleManager:
		return Scope{Mode: ScopeManaged, ManagerID: sub.UserID}
	case models.RoleStaff:
		return Scope{Mode: ScopeAssigned, StoreIDs: sub.AssignedStoreIDs()}
	}
	return Scope{Mode: ScopeNone}
}

// Contains reports whether a row bound to store passes the filter.
func (sc Scope) Contains(store StoreRef) bool {
	switch sc.Mode {
	case ScopeAll:
		return true
	case ScopeStore:
		return store.ID == sc.StoreID
	case ScopeManaged:
		return store.ManagerID != nil && *store.ManagerID == sc.ManagerID
	case ScopeAssigned:
		for _, id := range sc.StoreIDs {
			if id == store.ID {
				return true
			}
		}
	}
	return false
}
