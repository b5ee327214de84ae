package command

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/internal/bus"
	"github.com/catalogd/backend/internal/infrastructure/eventlog"
	"github.com/catalogd/backend/repository"
	"github.com/catalogd/backend/repository/memory"
	"github.com/catalogd/backend/usecase/projection"
)

type fixture struct {
	handler  *Handler
	store    *eventlog.Store
	bus      *bus.Bus
	products repository.ProductReadModel
}

// newFixture wires the full write path against in-memory infrastructure: a
// temp Bolt log, a live bus with the projector subscribed, and the memory
// read model.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := eventlog.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open event log: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	products := memory.NewProductReadModel()
	projector := projection.NewProjector(products, nil)

	b := bus.New(nil)
	for _, kind := range []domain.Kind{
		domain.KindProductCreated,
		domain.KindStockAdjusted,
		domain.KindPriceChanged,
		domain.KindProductViewed,
	} {
		b.Subscribe(kind, "read_model", projector.Apply)
	}
	b.Start()
	t.Cleanup(func() { b.Shutdown(context.Background()) })

	return &fixture{
		handler:  New(store, b, memory.NewSupplierDirectory(), nil),
		store:    store,
		bus:      b,
		products: products,
	}
}

func (f *fixture) createSupplier(t *testing.T) *domain.Supplier {
	t.Helper()
	supplier, err := f.handler.CreateSupplier(context.Background(), domain.CreateSupplier{
		Name:  "Acme Supplies",
		Email: "orders@acme.test",
	})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}
	return supplier
}

func (f *fixture) createProduct(t *testing.T, supplierID uint64) uint64 {
	t.Helper()
	id, err := f.handler.CreateProduct(context.Background(), domain.CreateProduct{
		Name:       "Gaming Laptop",
		Price:      1200,
		CostPrice:  800,
		SupplierID: supplierID,
		Stock:      20,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	return id
}

func TestCreateProductProjectsReadModel(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)

	id := f.createProduct(t, supplier.ID)
	f.bus.Drain()

	detail, err := f.products.GetDetail(context.Background(), id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Name != "Gaming Laptop" {
		t.Errorf("Name = %q, want %q", detail.Name, "Gaming Laptop")
	}
	if detail.Stock != 20 {
		t.Errorf("Stock = %d, want 20", detail.Stock)
	}
	if detail.SupplierName != "Acme Supplies" {
		t.Errorf("SupplierName = %q, want %q", detail.SupplierName, "Acme Supplies")
	}
	if detail.ViewCount != 0 {
		t.Errorf("ViewCount = %d, want 0", detail.ViewCount)
	}
}

func TestAdjustStockFlowsToReadModel(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	id := f.createProduct(t, supplier.ID)

	if err := f.handler.AdjustStock(context.Background(), domain.AdjustStock{ProductID: id, NewStock: 50}); err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	f.bus.Drain()

	detail, err := f.products.GetDetail(context.Background(), id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Stock != 50 {
		t.Errorf("Stock = %d, want 50", detail.Stock)
	}

	events, err := f.store.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("stream has %d events, want 2", len(events))
	}
	if events[1].Kind() != domain.KindStockAdjusted {
		t.Errorf("second event kind = %s, want %s", events[1].Kind(), domain.KindStockAdjusted)
	}
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)

	tests := []struct {
		name string
		cmd  domain.CreateProduct
	}{
		{"empty name", domain.CreateProduct{Price: 10, CostPrice: 5, SupplierID: supplier.ID, Stock: 1}},
		{"zero price", domain.CreateProduct{Name: "X", Price: 0, CostPrice: 5, SupplierID: supplier.ID, Stock: 1}},
		{"negative price", domain.CreateProduct{Name: "X", Price: -5, CostPrice: 5, SupplierID: supplier.ID, Stock: 1}},
		{"zero cost price", domain.CreateProduct{Name: "X", Price: 10, CostPrice: 0, SupplierID: supplier.ID, Stock: 1}},
		{"negative stock", domain.CreateProduct{Name: "X", Price: 10, CostPrice: 5, SupplierID: supplier.ID, Stock: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.handler.CreateProduct(context.Background(), tt.cmd)
			if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Errorf("error = %v, want INVALID", err)
			}
		})
	}

	// Rejected commands must leave the log untouched.
	count, err := f.store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("event count = %d, want 0 after rejected commands", count)
	}
}

func TestCreateProductUnknownSupplier(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.CreateProduct(context.Background(), domain.CreateProduct{
		Name:       "Orphan",
		Price:      10,
		CostPrice:  5,
		SupplierID: 99,
		Stock:      1,
	})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestAdjustStockMissingProduct(t *testing.T) {
	f := newFixture(t)

	err := f.handler.AdjustStock(context.Background(), domain.AdjustStock{ProductID: 404, NewStock: 5})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestAdjustStockNegativeRejected(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	id := f.createProduct(t, supplier.ID)

	err := f.handler.AdjustStock(context.Background(), domain.AdjustStock{ProductID: id, NewStock: -1})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("error = %v, want INVALID", err)
	}

	events, loadErr := f.store.Load(id)
	if loadErr != nil {
		t.Fatalf("Load: %v", loadErr)
	}
	if len(events) != 1 {
		t.Errorf("stream has %d events, want 1 (rejection appends nothing)", len(events))
	}
}

func TestChangePriceMissingProduct(t *testing.T) {
	f := newFixture(t)

	err := f.handler.ChangePrice(context.Background(), domain.ChangePrice{ProductID: 404, NewPrice: 10})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestChangePriceNonPositiveRejected(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	id := f.createProduct(t, supplier.ID)

	for _, price := range []float64{0, -3} {
		err := f.handler.ChangePrice(context.Background(), domain.ChangePrice{ProductID: id, NewPrice: price})
		if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
			t.Errorf("price %v: error = %v, want INVALID", price, err)
		}
	}
}

func TestRecordViewSkipsValidation(t *testing.T) {
	f := newFixture(t)

	// Views are recorded even for products that do not exist yet.
	if err := f.handler.RecordView(context.Background(), domain.RecordView{ProductID: 999}); err != nil {
		t.Fatalf("RecordView: %v", err)
	}
	f.bus.Drain()

	events, err := f.store.Load(999)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("stream has %d events, want 1", len(events))
	}
	if events[0].Kind() != domain.KindProductViewed {
		t.Errorf("kind = %s, want %s", events[0].Kind(), domain.KindProductViewed)
	}
}

func TestViewsAccumulateInReadModel(t *testing.T) {
	f := newFixture(t)
	supplier := f.createSupplier(t)
	id := f.createProduct(t, supplier.ID)

	for i := 0; i < 3; i++ {
		if err := f.handler.RecordView(context.Background(), domain.RecordView{ProductID: id}); err != nil {
			t.Fatalf("RecordView: %v", err)
		}
	}
	f.bus.Drain()

	detail, err := f.products.GetDetail(context.Background(), id)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.ViewCount != 3 {
		t.Errorf("ViewCount = %d, want 3", detail.ViewCount)
	}
}

func TestCreateSupplierRequiresName(t *testing.T) {
	f := newFixture(t)

	_, err := f.handler.CreateSupplier(context.Background(), domain.CreateSupplier{Name: "   "})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("error = %v, want INVALID", err)
	}
}
