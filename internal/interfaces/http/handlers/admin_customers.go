// internal/interfaces/http/handlers/admin_customers.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/access"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AdminCustomersHandler handles customer record management. Any staff
// identity may use these endpoints.
type AdminCustomersHandler struct {
	customers *customer.Service
}

// NewAdminCustomersHandler creates a new customer management handler
func NewAdminCustomersHandler(db *gorm.DB, cfg *config.Config) *AdminCustomersHandler {
	return &AdminCustomersHandler{
		customers: customer.NewService(db, auth.NewPasswordManager(cfg)),
	}
}

// List handles GET /admin/customers
func (h *AdminCustomersHandler) List(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	customers, err := h.customers.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": customers})
}

// Get handles GET /admin/customers/:id
func (h *AdminCustomersHandler) Get(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	cust, err := h.customers.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cust})
}

// Update handles PUT /admin/customers/:id
func (h *AdminCustomersHandler) Update(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req customer.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	cust, err := h.customers.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Customer updated successfully",
		"data":    cust,
	})
}

// Delete handles DELETE /admin/customers/:id
func (h *AdminCustomersHandler) Delete(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.customers.Delete(c.Request.Context(), id); err != nil {
		respondCustomerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (h *AdminCustomersHandler) allowed(c *gin.Context) bool {
	if !access.CanManageCustomers(middleware.ActorFromContext(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Staff access required"})
		return false
	}
	return true
}

func respondCustomerError(c *gin.Context, err error) {
	if errors.Is(err, customer.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
}
