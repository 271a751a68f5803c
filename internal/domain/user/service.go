// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/access"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// ErrNotFound is returned when a staff account does not exist
var ErrNotFound = errors.New("user not found")

// ErrInvalidCredentials is returned on failed login attempts
var ErrInvalidCredentials = errors.New("invalid email or password")

// Service handles staff account business logic
type Service struct {
	db       *gorm.DB
	password *auth.PasswordManager
}

// NewService creates a new staff service
func NewService(db *gorm.DB, password *auth.PasswordManager) *Service {
	return &Service{db: db, password: password}
}

// CreateRequest represents staff account creation data
type CreateRequest struct {
	Email      string                  `json:"email" binding:"required,email"`
	Password   string                  `json:"password" binding:"required"`
	FirstName  string                  `json:"first_name"`
	LastName   string                  `json:"last_name"`
	Role       string                  `json:"role" binding:"required,oneof=admin user"`
	Privileges *access.PrivilegeBundle `json:"privileges"`
}

// UpdateRequest represents partial staff account update data
type UpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin user"`
	IsActive  *bool   `json:"is_active"`
}

// Authenticate verifies staff credentials and records the login time
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).
		Preload("Privilege").
		Where("email = ? AND is_active = ?", strings.ToLower(email), true).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := s.password.VerifyPassword(password, u.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	u.LastLoginAt = &now
	s.db.WithContext(ctx).Model(&u).Update("last_login_at", now)

	return &u, nil
}

// GetByID retrieves a staff account with its privilege row
func (s *Service) GetByID(ctx context.Context, id uint) (*User, error) {
	var u User
	err := s.db.WithContext(ctx).Preload("Privilege").Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user %d: %w", id, err)
	}
	return &u, nil
}

// List returns all staff accounts
func (s *Service) List(ctx context.Context) ([]User, error) {
	var users []User
	err := s.db.WithContext(ctx).Preload("Privilege").Order("created_at DESC").Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create adds a new staff account, with an optional privilege row for
// role "user". Privileges passed for an admin are ignored: the admin role
// already implies everything.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*User, error) {
	hashed, err := s.password.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := User{
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  true,
	}
	if req.Role == string(access.RoleUser) && req.Privileges != nil {
		u.Privilege = &Privilege{
			CanAddProducts:    req.Privileges.CanAddProducts,
			CanUpdateProducts: req.Privileges.CanUpdateProducts,
			CanDeleteProducts: req.Privileges.CanDeleteProducts,
		}
	}

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// Update applies a partial update to a staff account
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return u, nil
	}
	if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a staff account
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetPrivileges creates or replaces the privilege row for a staff account
func (s *Service) SetPrivileges(ctx context.Context, id uint, bundle access.PrivilegeBundle) (*User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	priv := Privilege{
		UserID:            u.ID,
		CanAddProducts:    bundle.CanAddProducts,
		CanUpdateProducts: bundle.CanUpdateProducts,
		CanDeleteProducts: bundle.CanDeleteProducts,
	}
	if u.Privilege != nil {
		priv.ID = u.Privilege.ID
	}

	if err := s.db.WithContext(ctx).Save(&priv).Error; err != nil {
		return nil, fmt.Errorf("failed to set privileges for user %d: %w", id, err)
	}
	return s.GetByID(ctx, id)
}
