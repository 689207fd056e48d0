package policy

import (
	"sort"

	"inventory-manager/internal/models"
)

// Subject is the authenticated caller as seen by the evaluator.
type Subject struct {
	UserID    uint
	Role      models.UserRole
	Superuser bool

	assigned map[uint]struct{}
}

// SubjectOf builds a Subject from u. AssignedStores must be preloaded for
// staff users, otherwise their scope is empty.
func SubjectOf(u *models.User) Subject {
	if u == nil {
		return Subject{}
	}
	s := Subject{
		UserID:    u.ID,
		Role:      u.Role,
		Superuser: u.IsSuperuser,
		assigned:  make(map[uint]struct{}, len(u.AssignedStores)),
	}
	for _, st := range u.AssignedStores {
		s.assigned[st.ID] = struct{}{}
	}
	return s
}

func (s Subject) Authenticated() bool { return s.UserID != 0 }

func (s Subject) IsAdmin() bool { return s.Role == models.RoleAdmin }

// Manages is a direct foreign-key comparison.
func (s Subject) Manages(store StoreRef) bool {
	return s.Role == models.RoleManager && store.ManagerID != nil && *store.ManagerID == s.UserID
}

func (s Subject) AssignedTo(storeID uint) bool {
	_, ok := s.assigned[storeID]
	return ok
}

// AssignedStoreIDs returns the staff assignment set in ascending order.
func (s Subject) AssignedStoreIDs() []uint {
	ids := make([]uint, 0, len(s.assigned))
	for id := range s.assigned {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// InScope applies the row-level rule to one store: admins see every store,
// managers the stores they manage, staff the stores they are assigned to.
func (s Subject) InScope(store StoreRef) bool {
	switch s.Role {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return s.Manages(store)
	case models.RoleStaff:
		return s.AssignedTo(store.ID)
	}
	return false
}
