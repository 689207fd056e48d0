package handlers

import (
	"fmt"
	"net/http"

	"inventory-manager/internal/middleware"
	"inventory-manager/internal/services"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	stores *services.StoreService
}

func NewStoreHandler(stores *services.StoreService) *StoreHandler {
	return &StoreHandler{stores: stores}
}

type employeesRequest struct {
	EmployeeIDs []uint `json:"employee_ids"`
}

func storeDetailJSON(d *services.StoreDetail) gin.H {
	out := storeJSON(&d.Store)
	employees := make([]gin.H, 0, len(d.Employees))
	for i := range d.Employees {
		employees = append(employees, userRefJSON(&d.Employees[i]))
	}
	suppliers := make([]gin.H, 0, len(d.Suppliers))
	for i := range d.Suppliers {
		suppliers = append(suppliers, gin.H{"id": d.Suppliers[i].ID, "name": d.Suppliers[i].Name})
	}
	out["employees"] = employees
	out["suppliers"] = suppliers
	out["product_count"] = d.ProductCount
	out["created_at"] = ts(d.CreatedAt)
	out["updated_at"] = ts(d.UpdatedAt)
	return out
}

func (h *StoreHandler) List(c *gin.Context) {
	storeID, err := storeFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}
	stores, err := h.stores.List(c.Request.Context(), middleware.CurrentUser(c), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(stores))
	for i := range stores {
		out = append(out, storeJSON(&stores[i]))
	}
	c.JSON(http.StatusOK, gin.H{"stores": out})
}

func (h *StoreHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.stores.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": storeDetailJSON(detail)})
}

func (h *StoreHandler) Create(c *gin.Context) {
	var in services.StoreInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.stores.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   storeDetailJSON(detail),
	})
}

func (h *StoreHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in services.StoreInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.stores.Update(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Store updated successfully",
		"store":   storeDetailJSON(detail),
	})
}

func (h *StoreHandler) ReplaceEmployees(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var req employeesRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	detail, err := h.stores.ReplaceEmployees(c.Request.Context(), middleware.CurrentUser(c), id, req.EmployeeIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Store employees updated successfully",
		"store":   storeDetailJSON(detail),
	})
}

func (h *StoreHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	store, err := h.stores.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Store %q deleted successfully", store.Name)})
}
