// internal/domain/customer/entity.go
package customer

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Customer represents a storefront shopper. The customer identity scopes
// cart ownership and persistence.
type Customer struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"`
	FirstName   string         `gorm:"size:100" json:"first_name"`
	LastName    string         `gorm:"size:100" json:"last_name"`
	Phone       string         `gorm:"size:20" json:"phone"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Customer) TableName() string {
	return "customers"
}

// BeforeCreate hook to normalize the email before insertion
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	c.Email = strings.ToLower(c.Email)
	return nil
}

// GetFullName returns the customer's full name
func (c *Customer) GetFullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
