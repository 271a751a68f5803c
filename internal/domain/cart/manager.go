// internal/domain/cart/manager.go
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager hands out one Engine per authenticated customer, restoring stored
// lines on first access.
type Manager struct {
	mu      sync.Mutex
	engines map[uint]*Engine
	catalog Catalog
	store   Store
	pricing Pricing
	logger  *logrus.Logger
}

// NewManager creates a cart manager
func NewManager(cat Catalog, store Store, pricing Pricing, logger *logrus.Logger) *Manager {
	return &Manager{
		engines: make(map[uint]*Engine),
		catalog: cat,
		store:   store,
		pricing: pricing,
		logger:  logger,
	}
}

// ForCustomer returns the engine bound to a customer, creating it from
// persisted state on first use. A zero customer ID means no identity is
// bound and every cart operation must fail.
func (m *Manager) ForCustomer(ctx context.Context, customerID uint) (*Engine, error) {
	if customerID == 0 {
		return nil, ErrNotAuthenticated
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if engine, ok := m.engines[customerID]; ok {
		return engine, nil
	}

	lines, err := m.store.Load(ctx, customerID)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		customerID: customerID,
		lines:      lines,
		catalog:    m.catalog,
		store:      m.store,
		pricing:    m.pricing,
		logger:     m.logger,
	}
	m.engines[customerID] = engine
	return engine, nil
}

// Release drops the in-memory engine for a customer, typically on logout.
// Persisted storage is left intact so the cart is restored on next login.
func (m *Manager) Release(customerID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.engines, customerID)
}
