// internal/interfaces/http/handlers/admin_users.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/access"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AdminUsersHandler handles staff account management. Admin only.
type AdminUsersHandler struct {
	staff *user.Service
}

// NewAdminUsersHandler creates a new staff management handler
func NewAdminUsersHandler(db *gorm.DB, cfg *config.Config) *AdminUsersHandler {
	return &AdminUsersHandler{
		staff: user.NewService(db, auth.NewPasswordManager(cfg)),
	}
}

// List handles GET /admin/users
func (h *AdminUsersHandler) List(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	users, err := h.staff.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": users})
}

// Get handles GET /admin/users/:id
func (h *AdminUsersHandler) Get(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	staff, err := h.staff.GetByID(c.Request.Context(), id)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": staff})
}

// Create handles POST /admin/users
func (h *AdminUsersHandler) Create(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	var req user.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	staff, err := h.staff.Create(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"data":    staff,
	})
}

// Update handles PUT /admin/users/:id
func (h *AdminUsersHandler) Update(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req user.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	staff, err := h.staff.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"data":    staff,
	})
}

// Delete handles DELETE /admin/users/:id
func (h *AdminUsersHandler) Delete(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.staff.Delete(c.Request.Context(), id); err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// SetPrivileges handles PUT /admin/users/:id/privileges
func (h *AdminUsersHandler) SetPrivileges(c *gin.Context) {
	if !h.allowed(c) {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var bundle access.PrivilegeBundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	staff, err := h.staff.SetPrivileges(c.Request.Context(), id, bundle)
	if err != nil {
		respondUserError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Privileges updated successfully",
		"data":    staff,
	})
}

func (h *AdminUsersHandler) allowed(c *gin.Context) bool {
	if !access.CanManageUsers(middleware.ActorFromContext(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return false
	}
	return true
}

func respondUserError(c *gin.Context, err error) {
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Operation failed"})
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}
