package cart

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

type fakeCatalog struct {
	products map[uint]*catalog.Product
}

func (f *fakeCatalog) ProductByID(_ context.Context, id uint) (*catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memStore struct {
	saved   map[uint][]Line
	saveErr error
	saves   int
}

func newMemStore() *memStore {
	return &memStore{saved: make(map[uint][]Line)}
}

func (s *memStore) Load(_ context.Context, customerID uint) ([]Line, error) {
	lines := make([]Line, len(s.saved[customerID]))
	copy(lines, s.saved[customerID])
	return lines, nil
}

func (s *memStore) Save(_ context.Context, customerID uint, lines []Line) error {
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	stored := make([]Line, len(lines))
	copy(stored, lines)
	s.saved[customerID] = stored
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

var testPricing = Pricing{
	TaxRateBasisPoints:    1000, // 10%
	FreeShippingThreshold: 50000,
	ShippingFlatFee:       999,
}

func newTestManager(products map[uint]*catalog.Product, store Store) *Manager {
	return NewManager(&fakeCatalog{products: products}, store, testPricing, quietLogger())
}

func engineFor(t *testing.T, m *Manager, customerID uint) *Engine {
	t.Helper()
	engine, err := m.ForCustomer(context.Background(), customerID)
	if err != nil {
		t.Fatalf("ForCustomer(%d): %v", customerID, err)
	}
	return engine
}

func TestAddItemComputesTotals(t *testing.T) {
	// Empty cart, add 2 units of a $0.50 product with 10 in stock.
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	line, err := engine.AddItem(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if line.Quantity != 2 {
		t.Errorf("line quantity = %d, want 2", line.Quantity)
	}
	if line.ID == "" {
		t.Error("line should get a generated identifier")
	}

	totals, err := engine.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.ItemCount != 2 {
		t.Errorf("ItemCount = %d, want 2", totals.ItemCount)
	}
	if totals.SubTotal != 100 {
		t.Errorf("SubTotal = %d, want 100", totals.SubTotal)
	}
}

func TestAddItemIncrementsExistingLine(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	first, err := engine.AddItem(context.Background(), 7, 2)
	if err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	second, err := engine.AddItem(context.Background(), 7, 3)
	if err != nil {
		t.Fatalf("second AddItem: %v", err)
	}

	if second.ID != first.ID {
		t.Error("adding an existing product should not create a new line")
	}
	if second.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", second.Quantity)
	}
	if got := len(engine.Lines()); got != 1 {
		t.Errorf("line count = %d, want 1", got)
	}
	if !second.UpdatedAt.After(first.CreatedAt) && !second.UpdatedAt.Equal(first.CreatedAt) {
		t.Error("updated_at should be refreshed on increment")
	}
}

func TestAddItemStockExceededLeavesCartUnchanged(t *testing.T) {
	// Line holds 2, stock externally reduced to 2: adding 1 more must fail
	// and leave the prior quantity intact.
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	store := newMemStore()
	engine := engineFor(t, newTestManager(products, store), 1)

	if _, err := engine.AddItem(context.Background(), 7, 2); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	products[7].Quantity = 2
	savesBefore := store.saves

	_, err := engine.AddItem(context.Background(), 7, 1)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 2 || stockErr.Requested != 3 {
		t.Errorf("stock error = %+v, want available 2 requested 3", stockErr)
	}
	if got := engine.QuantityOf(7); got != 2 {
		t.Errorf("quantity after failed add = %d, want 2", got)
	}
	if store.saves != savesBefore {
		t.Error("failed add must not persist anything")
	}
}

func TestAddItemRejectsUnavailableProducts(t *testing.T) {
	products := map[uint]*catalog.Product{
		3: {ID: 3, SellPrice: 100, Quantity: 5, IsActive: false},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	if _, err := engine.AddItem(context.Background(), 3, 1); !errors.Is(err, ErrProductUnavailable) {
		t.Errorf("inactive product: got %v, want ErrProductUnavailable", err)
	}
	if _, err := engine.AddItem(context.Background(), 99, 1); !errors.Is(err, ErrProductUnavailable) {
		t.Errorf("missing product: got %v, want ErrProductUnavailable", err)
	}
	if len(engine.Lines()) != 0 {
		t.Error("failed adds must not create lines")
	}
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	for _, q := range []int{0, -1} {
		if _, err := engine.AddItem(context.Background(), 7, q); err == nil {
			t.Errorf("AddItem with quantity %d should fail", q)
		}
	}
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	if err := engine.RemoveItem(context.Background(), 7); err != nil {
		t.Fatalf("removing absent line: %v", err)
	}

	if _, err := engine.AddItem(context.Background(), 7, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := engine.RemoveItem(context.Background(), 7); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := engine.RemoveItem(context.Background(), 7); err != nil {
		t.Fatalf("second RemoveItem: %v", err)
	}
	if engine.InCart(7) {
		t.Error("line should be gone")
	}
}

func TestUpdateQuantity(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 5, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	if _, err := engine.AddItem(context.Background(), 7, 1); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	line, err := engine.UpdateQuantity(context.Background(), 7, 4)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if line.Quantity != 4 {
		t.Errorf("quantity = %d, want 4", line.Quantity)
	}

	// Exceeding stock is a pre-check: no mutation.
	_, err = engine.UpdateQuantity(context.Background(), 7, 6)
	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if got := engine.QuantityOf(7); got != 4 {
		t.Errorf("quantity after failed update = %d, want 4", got)
	}

	// Zero and negative behave like removal.
	if _, err := engine.UpdateQuantity(context.Background(), 7, 0); err != nil {
		t.Fatalf("UpdateQuantity(0): %v", err)
	}
	if engine.InCart(7) {
		t.Error("update to zero should remove the line")
	}

	if _, err := engine.UpdateQuantity(context.Background(), 99, 2); !errors.Is(err, ErrLineNotFound) {
		t.Errorf("updating absent line: got %v, want ErrLineNotFound", err)
	}
}

func TestClear(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
		9: {ID: 9, SellPrice: 75, Quantity: 10, IsActive: true},
	}
	store := newMemStore()
	engine := engineFor(t, newTestManager(products, store), 1)

	if err := engine.Clear(context.Background()); err != nil {
		t.Fatalf("clearing an empty cart: %v", err)
	}

	engine.AddItem(context.Background(), 7, 1)
	engine.AddItem(context.Background(), 9, 2)
	if err := engine.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(engine.Lines()) != 0 {
		t.Error("cart should be empty after clear")
	}
	if len(store.saved[1]) != 0 {
		t.Error("empty set should be persisted")
	}
}

func TestDeletedProductDroppedFromViewNotStorage(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
		9: {ID: 9, SellPrice: 75, Quantity: 10, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	engine.AddItem(context.Background(), 7, 1)
	engine.AddItem(context.Background(), 9, 1)

	// Product 9 is deleted from the catalog after the fact.
	delete(products, 9)

	views, err := engine.LinesWithProducts(context.Background())
	if err != nil {
		t.Fatalf("LinesWithProducts: %v", err)
	}
	if len(views) != 1 || views[0].ProductID != 7 {
		t.Fatalf("view = %+v, want only product 7", views)
	}

	totals, err := engine.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.ItemCount != 1 || totals.SubTotal != 50 {
		t.Errorf("totals = %+v, want product 9 excluded", totals)
	}

	// The stored line survives: pruning is not the view's job.
	if len(engine.Lines()) != 2 {
		t.Error("unresolvable line must stay in storage")
	}
}

func TestDeactivatedProductDroppedFromViewNotStorage(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	engine.AddItem(context.Background(), 7, 2)

	// Product 7 is deactivated after the fact: the line must vanish from
	// views and totals but survive in storage.
	products[7].IsActive = false

	views, err := engine.LinesWithProducts(context.Background())
	if err != nil {
		t.Fatalf("LinesWithProducts: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("view = %+v, want empty while product is inactive", views)
	}

	totals, err := engine.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.ItemCount != 0 || totals.SubTotal != 0 {
		t.Errorf("totals = %+v, want zero while product is inactive", totals)
	}
	if len(engine.Lines()) != 1 {
		t.Fatal("inactive line must stay in storage")
	}

	// Re-activation brings the line straight back.
	products[7].IsActive = true
	totals, err = engine.Totals(context.Background())
	if err != nil {
		t.Fatalf("Totals after re-activation: %v", err)
	}
	if totals.ItemCount != 2 || totals.SubTotal != 100 {
		t.Errorf("totals after re-activation = %+v, want ItemCount 2 SubTotal 100", totals)
	}
}

func TestTotalsTaxAndShipping(t *testing.T) {
	products := map[uint]*catalog.Product{
		1: {ID: 1, SellPrice: 10000, Quantity: 100, IsActive: true},
	}
	engine := engineFor(t, newTestManager(products, newMemStore()), 1)

	// Below the free-shipping threshold: flat fee applies.
	engine.AddItem(context.Background(), 1, 2) // subtotal 20000
	totals, _ := engine.Totals(context.Background())
	want := Totals{
		ItemCount:    2,
		SubTotal:     20000,
		TaxAmount:    2000,
		ShippingCost: 999,
		TotalAmount:  22999,
	}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Errorf("totals below threshold mismatch (-want +got):\n%s", diff)
	}

	// At the threshold: shipping is free.
	engine.UpdateQuantity(context.Background(), 1, 5) // subtotal 50000
	totals, _ = engine.Totals(context.Background())
	want = Totals{
		ItemCount:    5,
		SubTotal:     50000,
		TaxAmount:    5000,
		ShippingCost: 0,
		TotalAmount:  55000,
	}
	if diff := cmp.Diff(want, totals); diff != "" {
		t.Errorf("totals at threshold mismatch (-want +got):\n%s", diff)
	}

	// Empty cart carries no shipping fee.
	engine.Clear(context.Background())
	totals, _ = engine.Totals(context.Background())
	if diff := cmp.Diff(Totals{}, totals); diff != "" {
		t.Errorf("empty cart totals mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	store := newMemStore()
	store.saveErr = errors.New("redis: connection refused")
	engine := engineFor(t, newTestManager(products, store), 1)

	line, err := engine.AddItem(context.Background(), 7, 1)
	var perr *PersistenceError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistenceError, got %v", err)
	}
	if line == nil || line.Quantity != 1 {
		t.Fatal("mutation should be applied despite persistence failure")
	}
	if got := engine.QuantityOf(7); got != 1 {
		t.Errorf("in-memory quantity = %d, want 1", got)
	}
}

func TestCartRestoredFromStore(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	store := newMemStore()
	manager := newTestManager(products, store)

	engine := engineFor(t, manager, 42)
	engine.AddItem(context.Background(), 7, 3)

	// Logout drops the in-memory engine but not the stored lines.
	manager.Release(42)

	restored := engineFor(t, manager, 42)
	if got := restored.QuantityOf(7); got != 3 {
		t.Errorf("restored quantity = %d, want 3", got)
	}
}

func TestCartsAreIsolatedPerCustomer(t *testing.T) {
	products := map[uint]*catalog.Product{
		7: {ID: 7, SellPrice: 50, Quantity: 10, IsActive: true},
	}
	manager := newTestManager(products, newMemStore())

	alice := engineFor(t, manager, 1)
	bob := engineFor(t, manager, 2)

	alice.AddItem(context.Background(), 7, 5)
	if bob.InCart(7) {
		t.Error("carts must be isolated by customer")
	}
	if got := bob.QuantityOf(7); got != 0 {
		t.Errorf("bob's quantity = %d, want 0", got)
	}
}

func TestForCustomerRequiresIdentity(t *testing.T) {
	manager := newTestManager(nil, newMemStore())
	if _, err := manager.ForCustomer(context.Background(), 0); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("got %v, want ErrNotAuthenticated", err)
	}
}
