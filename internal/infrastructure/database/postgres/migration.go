// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/access"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/customer"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Dependency order: base tables first
	models := []interface{}{
		&user.User{},
		&user.Privilege{},
		&customer.Customer{},
		&catalog.Category{},
		&catalog.Product{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",
		"CREATE INDEX IF NOT EXISTS idx_customers_email_active ON customers(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_sell_price ON products(sell_price)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
		}
	}
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedCatalog(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Println("✅ Initial data seeded")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("role = ?", access.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("Admin12345!"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := user.User{
		Email:     "admin@example.com",
		Password:  string(hashed),
		FirstName: "Store",
		LastName:  "Admin",
		Role:      string(access.RoleAdmin),
		IsActive:  true,
	}
	return m.db.Create(&admin).Error
}

func (m *Migration) seedCatalog() error {
	var count int64
	m.db.Model(&catalog.Category{}).Count(&count)
	if count > 0 {
		return nil
	}

	categories := []catalog.Category{
		{Name: "Laptops", Slug: "laptops", SortOrder: 1, IsActive: true},
		{Name: "Phones", Slug: "phones", SortOrder: 2, IsActive: true},
		{Name: "Accessories", Slug: "accessories", SortOrder: 3, IsActive: true},
	}
	if err := m.db.Create(&categories).Error; err != nil {
		return err
	}

	products := []catalog.Product{
		{SKU: "LP-1001", Name: "Aero 14 Laptop", Slug: "aero-14-laptop", SellPrice: 129900, CategoryID: &categories[0].ID, IsActive: true, Quantity: 12},
		{SKU: "PH-2001", Name: "Pulse X Phone", Slug: "pulse-x-phone", SellPrice: 79900, CategoryID: &categories[1].ID, IsActive: true, Quantity: 30},
		{SKU: "AC-3001", Name: "USB-C Charger 65W", Slug: "usb-c-charger-65w", SellPrice: 3900, CategoryID: &categories[2].ID, IsActive: true, Quantity: 120},
	}
	return m.db.Create(&products).Error
}
