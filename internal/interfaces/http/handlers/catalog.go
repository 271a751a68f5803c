// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/access"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles storefront and back-office product endpoints
type CatalogHandler struct {
	catalog *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{catalog: catalog.NewService(db)}
}

// ListProducts handles GET /products. Non-staff callers only ever see
// active products, whatever filters they pass.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var req catalog.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	if !access.CanViewAdminData(middleware.ActorFromContext(c)) {
		active := true
		req.IsActive = &active
	}

	resp, err := h.catalog.List(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetProduct handles GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.catalog.ProductByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve product"})
		return
	}

	if !product.IsActive && !access.CanViewAdminData(middleware.ActorFromContext(c)) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// CreateProduct handles POST /admin/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	// Route gating is not enough: re-check at the point of mutation.
	if !access.CanAddProducts(middleware.ActorFromContext(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to add products"})
		return
	}

	var req catalog.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    product,
	})
}

// UpdateProduct handles PUT /admin/products/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	if !access.CanUpdateProducts(middleware.ActorFromContext(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to update products"})
		return
	}

	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req catalog.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    product,
	})
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if !access.CanDeleteProducts(middleware.ActorFromContext(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to delete products"})
		return
	}

	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UpdateInventory handles PUT /admin/products/:id/inventory
func (h *CatalogHandler) UpdateInventory(c *gin.Context) {
	if !access.CanUpdateProducts(middleware.ActorFromContext(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to update products"})
		return
	}

	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req struct {
		Quantity *int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	product, err := h.catalog.AdjustStock(c.Request.Context(), id, *req.Quantity)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Inventory updated successfully",
		"data":    product,
	})
}
