// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/access"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AuthMiddleware creates JWT authentication middleware
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		storeClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware provides optional authentication: requests without
// a valid token continue as anonymous.
func OptionalAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		tokenString := auth.ExtractTokenFromHeader(c.GetHeader("Authorization"))
		if tokenString != "" {
			if claims, err := jwtManager.ValidateAccessToken(tokenString); err == nil {
				storeClaims(c, claims)
			}
		}
		c.Next()
	}
}

// RequireStaff ensures the request comes from a back-office identity
func RequireStaff() gin.HandlerFunc {
	return RequirePermission(access.CanViewAdminData, "Staff access required")
}

// RequireAdmin ensures the request comes from an admin
func RequireAdmin() gin.HandlerFunc {
	return RequirePermission(access.CanManageUsers, "Admin access required")
}

// RequirePermission gates a route group on an access predicate. Mutating
// handlers re-check the predicate themselves; this is the outer fence, not
// the only one.
func RequirePermission(allowed func(access.Actor) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allowed(ActorFromContext(c)) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": message,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCustomer ensures the request comes from a customer identity
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ActorFromContext(c).Role != access.RoleCustomer {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Customer account required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set("subject_id", claims.SubjectID)
	c.Set("subject_email", claims.Email)
	c.Set("actor", claims.Actor())
}

// ActorFromContext returns the authenticated actor, or the anonymous actor
// when no valid token was presented.
func ActorFromContext(c *gin.Context) access.Actor {
	value, exists := c.Get("actor")
	if !exists {
		return access.Anonymous()
	}
	actor, ok := value.(access.Actor)
	if !ok {
		return access.Anonymous()
	}
	return actor
}

// SubjectIDFromContext extracts the authenticated identity's ID
func SubjectIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get("subject_id")
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// EmailFromContext extracts the authenticated identity's email
func EmailFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get("subject_email")
	if !exists {
		return "", false
	}
	email, ok := value.(string)
	return email, ok
}
