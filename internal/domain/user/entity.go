// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/access"
)

// User represents a back-office staff account. Role is either "admin" or
// "user"; non-admin staff get their product-management rights from an
// optional Privilege row.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"`
	FirstName   string         `gorm:"size:100" json:"first_name"`
	LastName    string         `gorm:"size:100" json:"last_name"`
	Role        string         `gorm:"not null;size:20;default:'user'" json:"role"`
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Privilege *Privilege `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"privilege,omitempty"`
}

// Privilege holds the product-management flags for a staff account with
// role "user". Absence of a row means no product privileges at all.
type Privilege struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CanAddProducts    bool      `gorm:"default:false" json:"can_add_products"`
	CanUpdateProducts bool      `gorm:"default:false" json:"can_update_products"`
	CanDeleteProducts bool      `gorm:"default:false" json:"can_delete_products"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// TableName overrides the table name for Privilege
func (Privilege) TableName() string {
	return "user_privileges"
}

// BeforeCreate hook to handle business logic before user creation
func (u *User) BeforeCreate(tx *gorm.DB) error {
	u.Email = strings.ToLower(u.Email)
	return nil
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Actor maps the account to an access-control actor
func (u *User) Actor() access.Actor {
	actor := access.Actor{Role: access.Role(u.Role)}
	if u.Privilege != nil {
		actor.Privileges = &access.PrivilegeBundle{
			CanAddProducts:    u.Privilege.CanAddProducts,
			CanUpdateProducts: u.Privilege.CanUpdateProducts,
			CanDeleteProducts: u.Privilege.CanDeleteProducts,
		}
	}
	return actor
}
