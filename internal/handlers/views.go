package handlers

import (
	"time"

	"inventory-manager/internal/models"

	"github.com/gin-gonic/gin"
)

func ts(t time.Time) string { return t.UTC().Format(time.RFC3339) }

func storeRefJSON(s *models.Store) gin.H {
	return gin.H{"id": s.ID, "name": s.Name}
}

func storeRefsJSON(stores []models.Store) []gin.H {
	out := make([]gin.H, 0, len(stores))
	for i := range stores {
		out = append(out, storeRefJSON(&stores[i]))
	}
	return out
}

func userRefJSON(u *models.User) gin.H {
	if u == nil {
		return nil
	}
	return gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
	}
}

func productJSON(p *models.Product) gin.H {
	return gin.H{
		"id":           p.ID,
		"name":         p.Name,
		"sku":          p.SKU,
		"price":        p.Price.StringFixed(2),
		"quantity":     p.Quantity,
		"threshold":    p.Threshold,
		"supplier":     gin.H{"id": p.Supplier.ID, "name": p.Supplier.Name},
		"store":        storeRefJSON(&p.Store),
		"is_low_stock": p.IsLowStock(),
	}
}

func productDetailJSON(p *models.Product) gin.H {
	out := productJSON(p)
	out["description"] = p.Description
	out["supplier"] = gin.H{
		"id":             p.Supplier.ID,
		"name":           p.Supplier.Name,
		"contact_person": p.Supplier.ContactPerson,
		"phone":          p.Supplier.Phone,
		"email":          p.Supplier.Email,
	}
	out["store"] = gin.H{"id": p.Store.ID, "name": p.Store.Name, "address": p.Store.Address}
	out["created_at"] = ts(p.CreatedAt)
	out["updated_at"] = ts(p.UpdatedAt)
	return out
}

func storeJSON(s *models.Store) gin.H {
	out := gin.H{
		"id":         s.ID,
		"name":       s.Name,
		"address":    s.Address,
		"phone":      s.Phone,
		"email":      s.Email,
		"manager_id": s.ManagerID,
	}
	if s.Manager != nil {
		out["manager"] = userRefJSON(s.Manager)
	}
	return out
}

func supplierJSON(s *models.Supplier) gin.H {
	out := gin.H{
		"id":             s.ID,
		"name":           s.Name,
		"contact_person": s.ContactPerson,
		"phone":          s.Phone,
		"email":          s.Email,
		"address":        s.Address,
		"stores":         storeRefsJSON(s.Stores),
	}
	if !s.CreatedAt.IsZero() {
		out["created_at"] = ts(s.CreatedAt)
		out["updated_at"] = ts(s.UpdatedAt)
	}
	return out
}

func userJSON(u *models.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"username":        u.Username,
		"email":           u.Email,
		"role":            u.Role,
		"first_name":      u.FirstName,
		"last_name":       u.LastName,
		"phone":           u.Phone,
		"is_active":       u.IsActive,
		"date_joined":     ts(u.CreatedAt),
		"assigned_stores": storeRefsJSON(u.AssignedStores),
	}
}

// profileJSON uses the camelCase names of the profile endpoints.
func profileJSON(u *models.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"username":        u.Username,
		"email":           u.Email,
		"role":            u.Role,
		"firstName":       u.FirstName,
		"lastName":        u.LastName,
		"phone":           u.Phone,
		"assigned_stores": storeRefsJSON(u.AssignedStores),
	}
}
