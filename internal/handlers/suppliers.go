package handlers

import (
	"fmt"
	"net/http"

	"inventory-manager/internal/middleware"
	"inventory-manager/internal/services"

	"github.com/gin-gonic/gin"
)

type SupplierHandler struct {
	suppliers *services.SupplierService
	products  *services.ProductService
}

func NewSupplierHandler(suppliers *services.SupplierService, products *services.ProductService) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, products: products}
}

func (h *SupplierHandler) List(c *gin.Context) {
	storeID, err := storeFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}
	suppliers, err := h.suppliers.List(c.Request.Context(), middleware.CurrentUser(c), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(suppliers))
	for i := range suppliers {
		out = append(out, supplierJSON(&suppliers[i]))
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": out})
}

func (h *SupplierHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	supplier, err := h.suppliers.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": supplierJSON(supplier)})
}

func (h *SupplierHandler) Products(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	products, err := h.products.BySupplier(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(products))
	for i := range products {
		p := &products[i]
		out = append(out, gin.H{
			"id":           p.ID,
			"name":         p.Name,
			"sku":          p.SKU,
			"price":        p.Price.StringFixed(2),
			"quantity":     p.Quantity,
			"store":        storeRefJSON(&p.Store),
			"is_low_stock": p.IsLowStock(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *SupplierHandler) Create(c *gin.Context) {
	var in services.SupplierInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	supplier, err := h.suppliers.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Supplier created successfully",
		"supplier": supplierJSON(supplier),
	})
}

func (h *SupplierHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in services.SupplierInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	supplier, err := h.suppliers.Update(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Supplier updated successfully",
		"supplier": supplierJSON(supplier),
	})
}

func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	supplier, err := h.suppliers.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Supplier %q deleted successfully", supplier.Name)})
}
