// internal/domain/customer/service.go
package customer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// ErrNotFound is returned when a customer does not exist
var ErrNotFound = errors.New("customer not found")

// ErrInvalidCredentials is returned on failed login attempts
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrEmailTaken is returned when registering an already-used email
var ErrEmailTaken = errors.New("email is already registered")

// Service handles customer business logic
type Service struct {
	db       *gorm.DB
	password *auth.PasswordManager
}

// NewService creates a new customer service
func NewService(db *gorm.DB, password *auth.PasswordManager) *Service {
	return &Service{db: db, password: password}
}

// RegisterRequest represents customer registration data
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// UpdateRequest represents partial customer update data
type UpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	IsActive  *bool   `json:"is_active"`
}

// Register creates a new customer account
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*Customer, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing Customer
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing customer: %w", err)
	}

	hashed, err := s.password.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	c := Customer{
		Email:     email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		IsActive:  true,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &c, nil
}

// Authenticate verifies customer credentials and records the login time
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Customer, error) {
	var c Customer
	err := s.db.WithContext(ctx).
		Where("email = ? AND is_active = ?", strings.ToLower(email), true).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up customer: %w", err)
	}

	if err := s.password.VerifyPassword(password, c.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	c.LastLoginAt = &now
	s.db.WithContext(ctx).Model(&c).Update("last_login_at", now)

	return &c, nil
}

// GetByID retrieves a customer
func (s *Service) GetByID(ctx context.Context, id uint) (*Customer, error) {
	var c Customer
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve customer %d: %w", id, err)
	}
	return &c, nil
}

// List returns all customers, newest first
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// Update applies a partial update to a customer record
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*Customer, error) {
	c, err := s.GetByID(ctx, id)
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
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return c, nil
	}
	if err := s.db.WithContext(ctx).Model(c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update customer %d: %w", id, err)
	}
	return s.GetByID(ctx, id)
}

// Delete soft-deletes a customer. The persisted cart for the customer is
// left in place; it simply becomes unreachable.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Customer{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete customer %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
