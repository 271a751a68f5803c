// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/access"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AuthHandler handles authentication endpoints for customers and staff
type AuthHandler struct {
	customers  *customer.Service
	staff      *user.Service
	jwtManager *auth.JWTManager
	carts      *cart.Manager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, cfg *config.Config, carts *cart.Manager) *AuthHandler {
	password := auth.NewPasswordManager(cfg)
	return &AuthHandler{
		customers:  customer.NewService(db, password),
		staff:      user.NewService(db, password),
		jwtManager: auth.NewJWTManager(cfg),
		carts:      carts,
	}
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents a refresh token exchange
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register handles POST /auth/register (customer signup)
func (h *AuthHandler) Register(c *gin.Context) {
	var req customer.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cust, err := h.customers.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, customer.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"data":    cust,
	})
}

// Login handles POST /auth/login (customer)
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	cust, err := h.customers.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.respondWithTokens(c, cust.ID, cust.Email, access.Actor{Role: access.RoleCustomer}, gin.H{
		"customer": cust,
	})
}

// StaffLogin handles POST /auth/staff/login
func (h *AuthHandler) StaffLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	staff, err := h.staff.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	h.respondWithTokens(c, staff.ID, staff.Email, staff.Actor(), gin.H{
		"user": staff,
	})
}

// RefreshToken handles POST /auth/refresh. Staff privileges are re-read from
// the database so a revoked flag takes effect on the next exchange.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data"})
		return
	}

	claims, err := h.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	actor := access.Actor{Role: access.Role(claims.Role)}
	if actor.Role.IsStaff() {
		staff, err := h.staff.GetByID(c.Request.Context(), claims.SubjectID)
		if err != nil || !staff.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is no longer active"})
			return
		}
		actor = staff.Actor()
	}

	h.respondWithTokens(c, claims.SubjectID, claims.Email, actor, gin.H{})
}

// Profile handles GET /auth/profile
func (h *AuthHandler) Profile(c *gin.Context) {
	subjectID, ok := middleware.SubjectIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	actor := middleware.ActorFromContext(c)
	if actor.Role.IsStaff() {
		staff, err := h.staff.GetByID(c.Request.Context(), subjectID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": staff})
		return
	}

	cust, err := h.customers.GetByID(c.Request.Context(), subjectID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": cust})
}

// Logout handles POST /auth/logout. For customers the in-memory cart engine
// is released; the persisted cart survives for the next login.
func (h *AuthHandler) Logout(c *gin.Context) {
	if subjectID, ok := middleware.SubjectIDFromContext(c); ok {
		if middleware.ActorFromContext(c).Role == access.RoleCustomer {
			h.carts.Release(subjectID)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) respondWithTokens(c *gin.Context, subjectID uint, email string, actor access.Actor, extra gin.H) {
	accessToken, err := h.jwtManager.GenerateAccessToken(subjectID, email, actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	refreshToken, err := h.jwtManager.GenerateRefreshToken(subjectID, email, actor.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	payload := gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	}
	for k, v := range extra {
		payload[k] = v
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Authenticated successfully",
		"data":    payload,
	})
}
