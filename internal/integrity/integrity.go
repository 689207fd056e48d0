// Package integrity holds the relationship rules checked before writes.
// Callers load the snapshot; these functions only decide.
package integrity

import (
	"fmt"

	"inventory-manager/internal/apperr"
	"inventory-manager/internal/models"
)

// SupplierServesStore requires supplier (with Stores preloaded) to serve storeID.
func SupplierServesStore(supplier *models.Supplier, storeID uint) error {
	if supplier.Serves(storeID) {
		return nil
	}
	return apperr.Conflict(fmt.Sprintf("Supplier %q does not serve the selected store", supplier.Name))
}

// SKUAvailable fails when another product already holds the SKU.
func SKUAvailable(holders int64) error {
	if holders > 0 {
		return apperr.Conflict("SKU already exists")
	}
	return nil
}

func StoreDeletable(productCount int64) error {
	if productCount > 0 {
		return apperr.Conflict("Cannot delete store because it has associated products")
	}
	return nil
}

func SupplierDeletable(productCount int64) error {
	if productCount > 0 {
		return apperr.Conflict("Cannot delete supplier because it has associated products")
	}
	return nil
}

// StaffOnly keeps the candidates whose role is staff. Anything else is
// dropped without an error.
func StaffOnly(candidates []models.User) []models.User {
	out := make([]models.User, 0, len(candidates))
	for _, u := range candidates {
		if u.Role == models.RoleStaff {
			out = append(out, u)
		}
	}
	return out
}

// ManagerCandidate rejects a store manager whose role is not manager.
func ManagerCandidate(u *models.User) error {
	if u.Role != models.RoleManager {
		return apperr.Validation("Selected user is not a manager", map[string]string{"manager_id": "not_a_manager"})
	}
	return nil
}

// SupplierStoresRetained fails when a served-store replacement would drop
// a store that still holds products from the supplier. inUse lists the
// store ids referenced by the supplier's products.
func SupplierStoresRetained(inUse []uint, next []uint) error {
	keep := make(map[uint]struct{}, len(next))
	for _, id := range next {
		keep[id] = struct{}{}
	}
	for _, id := range inUse {
		if _, ok := keep[id]; !ok {
			return apperr.Conflict(fmt.Sprintf("Supplier still has products in store %d", id))
		}
	}
	return nil
}

// UserDeletion runs every precondition for actor deleting target before
// anything is written. adminCount is the current number of admins.
func UserDeletion(actor, target *models.User, adminCount int64) error {
	if target.Role == models.RoleAdmin && !actor.IsSuperuser {
		return apperr.Forbidden("Only superusers can delete admin users")
	}
	if target.ID == actor.ID {
		return apperr.Validation("You cannot delete your own account", nil)
	}
	if target.Role == models.RoleAdmin && adminCount <= 1 {
		return apperr.Conflict("Cannot delete the last admin user")
	}
	return nil
}

// RoleChange checks actor changing target's role to next.
func RoleChange(actor, target *models.User, next models.UserRole, adminCount int64) error {
	if !next.Valid() {
		return apperr.Validation("Invalid role. Must be one of: staff, manager, admin", map[string]string{"role": "oneof"})
	}
	if target.Role == models.RoleAdmin && !actor.IsSuperuser {
		return apperr.Forbidden("Only superusers can modify admin users")
	}
	if target.Role == models.RoleAdmin && next != models.RoleAdmin && adminCount <= 1 {
		return apperr.Conflict("Cannot demote the last admin user")
	}
	return nil
}
