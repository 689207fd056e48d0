package handlers

import (
	"net/http"

	"inventory-manager/internal/middleware"
	"inventory-manager/internal/services"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	ov, err := h.dashboard.Overview(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}

	storeProducts := make([]gin.H, 0, len(ov.ProductsPerStore))
	for _, s := range ov.ProductsPerStore {
		storeProducts = append(storeProducts, gin.H{"store_id": s.ID, "store_name": s.Name, "product_count": s.Count})
	}
	supplierProducts := make([]gin.H, 0, len(ov.ProductsBySupplier))
	for _, s := range ov.ProductsBySupplier {
		supplierProducts = append(supplierProducts, gin.H{"supplier_id": s.ID, "supplier_name": s.Name, "product_count": s.Count})
	}

	c.JSON(http.StatusOK, gin.H{
		"overview": gin.H{
			"total_products":        ov.TotalProducts,
			"total_stores":          ov.TotalStores,
			"total_suppliers":       ov.TotalSuppliers,
			"low_stock_count":       ov.LowStockCount,
			"total_inventory_value": ov.InventoryValue.StringFixed(2),
		},
		"store_products":    storeProducts,
		"supplier_products": supplierProducts,
	})
}
