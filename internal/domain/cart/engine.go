// internal/domain/cart/engine.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// Catalog resolves live product data. The engine treats any failure to
// resolve as ErrProductUnavailable.
type Catalog interface {
	ProductByID(ctx context.Context, id uint) (*catalog.Product, error)
}

// Engine owns the line set for a single customer. All operations on one
// engine are serialized under its mutex, so the fetch-stock, validate,
// mutate, persist sequence is atomic with respect to other calls on the
// same cart. Carts for different customers are fully isolated.
//
// Mutations may return a *PersistenceError after the in-memory change has
// been applied; the change is kept and the caller decides how to report it.
type Engine struct {
	mu         sync.Mutex
	customerID uint
	lines      []Line
	catalog    Catalog
	store      Store
	pricing    Pricing
	logger     *logrus.Logger
}

// AddItem adds quantity units of a product to the cart. If a line for the
// product already exists its quantity is incremented, otherwise a new line
// is appended. The combined quantity is validated against current stock
// before any state changes.
func (e *Engine) AddItem(ctx context.Context, productID uint, quantity int) (*Line, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	product, err := e.resolveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	idx := e.lineIndex(productID)
	requested := quantity
	if idx >= 0 {
		requested += e.lines[idx].Quantity
	}
	if requested > product.Quantity {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Available: product.Quantity,
			Requested: requested,
		}
	}

	now := time.Now().UTC()
	if idx >= 0 {
		e.lines[idx].Quantity = requested
		e.lines[idx].UpdatedAt = now
	} else {
		e.lines = append(e.lines, Line{
			ID:        uuid.New().String(),
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		})
		idx = len(e.lines) - 1
	}

	line := e.lines[idx]
	return &line, e.persist(ctx, "add_item")
}

// RemoveItem removes the line for a product. Removing a product that is not
// in the cart is a no-op, not an error.
func (e *Engine) RemoveItem(ctx context.Context, productID uint) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.lineIndex(productID)
	if idx < 0 {
		return nil
	}
	e.lines = append(e.lines[:idx], e.lines[idx+1:]...)
	return e.persist(ctx, "remove_item")
}

// UpdateQuantity replaces the quantity on an existing line. A quantity of
// zero or less behaves exactly like RemoveItem.
func (e *Engine) UpdateQuantity(ctx context.Context, productID uint, quantity int) (*Line, error) {
	if quantity <= 0 {
		return nil, e.RemoveItem(ctx, productID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.lineIndex(productID)
	if idx < 0 {
		return nil, ErrLineNotFound
	}

	product, err := e.resolveProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Quantity {
		return nil, &InsufficientStockError{
			ProductID: productID,
			Available: product.Quantity,
			Requested: quantity,
		}
	}

	e.lines[idx].Quantity = quantity
	e.lines[idx].UpdatedAt = time.Now().UTC()

	line := e.lines[idx]
	return &line, e.persist(ctx, "update_quantity")
}

// Clear removes every line and persists the empty set. No-op when the cart
// is already empty.
func (e *Engine) Clear(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.lines) == 0 {
		return nil
	}
	e.lines = []Line{}
	return e.persist(ctx, "clear")
}

// Lines returns a snapshot of the raw stored lines in insertion order.
func (e *Engine) Lines() []Line {
	e.mu.Lock()
	defer e.mu.Unlock()

	snapshot := make([]Line, len(e.lines))
	copy(snapshot, e.lines)
	return snapshot
}

// LinesWithProducts joins each line against the catalog. Lines whose product
// no longer resolves, or is currently inactive, are dropped from the returned
// view but stay in storage; a deactivated or transiently missing product must
// not destroy cart contents.
func (e *Engine) LinesWithProducts(ctx context.Context) ([]LineView, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	views := make([]LineView, 0, len(e.lines))
	for _, line := range e.lines {
		product, err := e.catalog.ProductByID(ctx, line.ProductID)
		if err != nil || !product.IsActive {
			continue
		}
		views = append(views, LineView{
			Line:      line,
			Product:   product,
			LineTotal: product.SellPrice * int64(line.Quantity),
		})
	}
	return views, nil
}

// Totals derives the monetary summary from lines that resolve to a product.
func (e *Engine) Totals(ctx context.Context) (Totals, error) {
	views, err := e.LinesWithProducts(ctx)
	if err != nil {
		return Totals{}, err
	}

	var totals Totals
	for _, v := range views {
		totals.ItemCount += v.Quantity
		totals.SubTotal += v.LineTotal
	}

	totals.TaxAmount = totals.SubTotal * int64(e.pricing.TaxRateBasisPoints) / 10000
	if totals.SubTotal > 0 && totals.SubTotal < e.pricing.FreeShippingThreshold {
		totals.ShippingCost = e.pricing.ShippingFlatFee
	}
	totals.TotalAmount = totals.SubTotal + totals.TaxAmount + totals.ShippingCost
	return totals, nil
}

// InCart reports whether a line exists for the product
func (e *Engine) InCart(productID uint) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lineIndex(productID) >= 0
}

// QuantityOf returns the quantity held for a product, zero if absent
func (e *Engine) QuantityOf(productID uint) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if idx := e.lineIndex(productID); idx >= 0 {
		return e.lines[idx].Quantity
	}
	return 0
}

// resolveProduct fetches a product for a mutation. Missing, deleted, and
// inactive products all collapse to ErrProductUnavailable. Callers hold e.mu.
func (e *Engine) resolveProduct(ctx context.Context, productID uint) (*catalog.Product, error) {
	product, err := e.catalog.ProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrProductUnavailable
		}
		return nil, fmt.Errorf("%w: %v", ErrProductUnavailable, err)
	}
	if !product.IsActive {
		return nil, ErrProductUnavailable
	}
	return product, nil
}

// persist writes the full line set through the store. On failure the
// in-memory mutation is kept: the session stays consistent and the loss is
// reported as a PersistenceError. Callers hold e.mu.
func (e *Engine) persist(ctx context.Context, op string) error {
	if err := e.store.Save(ctx, e.customerID, e.lines); err != nil {
		perr := &PersistenceError{Op: op, CustomerID: e.customerID, Err: err}
		e.logger.WithFields(logrus.Fields{
			"customer_id": e.customerID,
			"operation":   op,
			"error":       err,
		}).Warn("Cart mutation applied but not persisted")
		return perr
	}
	return nil
}

func (e *Engine) lineIndex(productID uint) int {
	for i := range e.lines {
		if e.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
