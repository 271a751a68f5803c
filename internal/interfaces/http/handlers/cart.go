// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints for authenticated customers
type CartHandler struct {
	carts *cart.Manager
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *cart.Manager) *CartHandler {
	return &CartHandler{carts: carts}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateItemRequest represents a quantity update. Zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	views, err := engine.LinesWithProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cart"})
		return
	}
	totals, err := engine.Totals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute totals"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart retrieved successfully",
		"data": gin.H{
			"items":  views,
			"totals": totals,
		},
	})
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	line, err := engine.AddItem(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil && !isPersistenceWarning(err) {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, withPersistenceWarning(gin.H{
		"message": "Item added to cart successfully",
		"data":    line,
	}, err))
}

// UpdateItem handles PUT /cart/items/:id
func (h *CartHandler) UpdateItem(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	line, err := engine.UpdateQuantity(c.Request.Context(), productID, req.Quantity)
	if err != nil && !isPersistenceWarning(err) {
		respondCartError(c, err)
		return
	}

	if line == nil {
		c.JSON(http.StatusOK, withPersistenceWarning(gin.H{
			"message": "Item removed from cart successfully",
		}, err))
		return
	}
	c.JSON(http.StatusOK, withPersistenceWarning(gin.H{
		"message": "Cart item updated successfully",
		"data":    line,
	}, err))
}

// RemoveItem handles DELETE /cart/items/:id
func (h *CartHandler) RemoveItem(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	err := engine.RemoveItem(c.Request.Context(), productID)
	if err != nil && !isPersistenceWarning(err) {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, withPersistenceWarning(gin.H{
		"message": "Item removed from cart successfully",
	}, err))
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	err := engine.Clear(c.Request.Context())
	if err != nil && !isPersistenceWarning(err) {
		respondCartError(c, err)
		return
	}

	c.JSON(http.StatusOK, withPersistenceWarning(gin.H{
		"message": "Cart cleared successfully",
	}, err))
}

// GetCount handles GET /cart/count
func (h *CartHandler) GetCount(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	totals, err := engine.Totals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get cart count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart count retrieved successfully",
		"data": gin.H{
			"count": totals.ItemCount,
		},
	})
}

// GetItem handles GET /cart/items/:id. Pure lookup, no side effects.
func (h *CartHandler) GetItem(c *gin.Context) {
	engine, ok := h.engine(c)
	if !ok {
		return
	}

	productID, ok := parseProductID(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"in_cart":  engine.InCart(productID),
			"quantity": engine.QuantityOf(productID),
		},
	})
}

// engine resolves the cart engine for the authenticated customer
func (h *CartHandler) engine(c *gin.Context) (*cart.Engine, bool) {
	customerID, _ := middleware.SubjectIDFromContext(c)

	engine, err := h.carts.ForCustomer(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, cart.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to use the cart"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
		}
		return nil, false
	}
	return engine, true
}

func parseProductID(c *gin.Context) (uint, bool) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return 0, false
	}
	return uint(productID), true
}

// respondCartError maps engine error kinds to status codes and messages the
// storefront can show verbatim.
func respondCartError(c *gin.Context, err error) {
	var stockErr *cart.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     fmt.Sprintf("Only %d left in stock", stockErr.Available),
			"available": stockErr.Available,
		})
	case errors.Is(err, cart.ErrProductUnavailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "This product is no longer available"})
	case errors.Is(err, cart.ErrLineNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Item is not in your cart"})
	case errors.Is(err, cart.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to use the cart"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// isPersistenceWarning reports whether the error is a persistence failure:
// the mutation is applied in memory, so the request succeeded from the
// customer's point of view.
func isPersistenceWarning(err error) bool {
	var perr *cart.PersistenceError
	return errors.As(err, &perr)
}

func withPersistenceWarning(payload gin.H, err error) gin.H {
	if isPersistenceWarning(err) {
		payload["warning"] = "Cart update applied but not yet saved; it may not survive this session"
	}
	return payload
}
