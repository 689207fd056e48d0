package handlers

import (
	"fmt"
	"net/http"

	"inventory-manager/internal/middleware"
	"inventory-manager/internal/services"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products *services.ProductService
}

func NewProductHandler(products *services.ProductService) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) List(c *gin.Context) {
	storeID, err := storeFilter(c)
	if err != nil {
		writeError(c, err)
		return
	}
	products, err := h.products.List(c.Request.Context(), middleware.CurrentUser(c), storeID)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(products))
	for i := range products {
		out = append(out, productJSON(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	product, err := h.products.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": productDetailJSON(product)})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var in services.ProductInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	product, err := h.products.Create(c.Request.Context(), middleware.CurrentUser(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"product": productJSON(product),
	})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	var in services.ProductInput
	if err := bindJSON(c, &in); err != nil {
		writeError(c, err)
		return
	}
	product, err := h.products.Update(c.Request.Context(), middleware.CurrentUser(c), id, in)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"product": productJSON(product),
	})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	product, err := h.products.Delete(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Product %q deleted successfully", product.Name)})
}

func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.products.LowStock(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]gin.H, 0, len(products))
	for i := range products {
		out = append(out, productJSON(&products[i]))
	}
	c.JSON(http.StatusOK, gin.H{"low_stock_products": out})
}
