// internal/domain/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a product does not resolve. The cart engine
// maps any accessor failure to its own availability error, so callers only
// need this sentinel when they care about the distinction.
var ErrNotFound = errors.New("product not found")

// Service handles catalog reads and back-office product management.
// It is the authoritative source of price, stock, and active state.
type Service struct {
	db *gorm.DB
}

// NewService creates a new catalog service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListRequest represents product list query parameters
type ListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsActive   *bool  `form:"is_active"`
}

// CreateRequest represents product creation data
type CreateRequest struct {
	SKU         string `json:"sku" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	SellPrice   int64  `json:"sell_price" binding:"required"`
	CategoryID  *uint  `json:"category_id"`
	ImageURL    string `json:"image_url"`
	IsActive    bool   `json:"is_active"`
	Quantity    int    `json:"quantity"`
}

// UpdateRequest represents partial product update data
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	SellPrice   *int64  `json:"sell_price"`
	CategoryID  *uint   `json:"category_id"`
	ImageURL    *string `json:"image_url"`
	IsActive    *bool   `json:"is_active"`
	Quantity    *int    `json:"quantity"`
}

// ListResponse represents products with pagination
type ListResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// ProductByID resolves a product by ID regardless of active state.
// Returns ErrNotFound when no such product exists. This is the accessor the
// cart engine consumes: it must always reflect current price, stock and
// active flag.
func (s *Service) ProductByID(ctx context.Context, id uint) (*Product, error) {
	var product Product
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to retrieve product %d: %w", id, result.Error)
	}
	return &product, nil
}

// List retrieves products with filtering, sorting and pagination
func (s *Service) List(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	var products []Product
	var total int64

	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Product{}).Preload("Category")

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", search, search)
	}
	if req.MinPrice > 0 {
		query = query.Where("sell_price >= ?", req.MinPrice)
	}
	if req.MaxPrice > 0 {
		query = query.Where("sell_price <= ?", req.MaxPrice)
	}
	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve products: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Products: products,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// Create inserts a new product
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*Product, error) {
	if req.SellPrice < 0 {
		return nil, fmt.Errorf("sell price cannot be negative")
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	product := Product{
		SKU:         strings.TrimSpace(req.SKU),
		Name:        strings.TrimSpace(req.Name),
		Slug:        slugify(req.Name),
		Description: req.Description,
		SellPrice:   req.SellPrice,
		CategoryID:  req.CategoryID,
		ImageURL:    req.ImageURL,
		IsActive:    req.IsActive,
		Quantity:    req.Quantity,
	}

	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return &product, nil
}

// Update applies a partial update to an existing product
func (s *Service) Update(ctx context.Context, id uint, req *UpdateRequest) (*Product, error) {
	product, err := s.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
		updates["slug"] = slugify(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SellPrice != nil {
		if *req.SellPrice < 0 {
			return nil, fmt.Errorf("sell price cannot be negative")
		}
		updates["sell_price"] = *req.SellPrice
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.ImageURL != nil {
		updates["image_url"] = *req.ImageURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("quantity cannot be negative")
		}
		updates["quantity"] = *req.Quantity
	}

	if len(updates) == 0 {
		return product, nil
	}

	if err := s.db.WithContext(ctx).Model(product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", id, err)
	}
	return s.ProductByID(ctx, id)
}

// Delete soft-deletes a product. Stored cart lines referencing it stop
// resolving but are intentionally left in place.
func (s *Service) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock sets the absolute stock quantity for a product
func (s *Service) AdjustStock(ctx context.Context, id uint, quantity int) (*Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}
	product, err := s.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(product).Update("quantity", quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to adjust stock for product %d: %w", id, err)
	}
	product.Quantity = quantity
	return product, nil
}

// ListCategories returns active categories in display order
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	allowed := map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"sell_price": "sell_price",
		"quantity":   "quantity",
	}
	column, ok := allowed[sortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	return strings.Trim(slug, "-")
}
