package projection

import (
	"context"
	"testing"
	"time"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/repository"
	"github.com/catalogd/backend/repository/memory"
)

func eventAt(min int) time.Time {
	return time.Date(2025, 3, 1, 12, min, 0, 0, time.UTC)
}

func createdEvent(id uint64, name string, stock int) domain.ProductCreated {
	return domain.ProductCreated{
		ProductID:    id,
		Name:         name,
		Price:        100,
		CostPrice:    60,
		SupplierID:   1,
		SupplierName: "Acme Supplies",
		Stock:        stock,
		OccurredAt:   eventAt(0),
	}
}

func TestApplyMaintainsDetail(t *testing.T) {
	products := memory.NewProductReadModel()
	p := NewProjector(products, nil)
	ctx := context.Background()

	events := []domain.Event{
		createdEvent(1, "Widget", 8),
		domain.StockAdjusted{ProductID: 1, NewStock: 3, OccurredAt: eventAt(1)},
		domain.PriceChanged{ProductID: 1, NewPrice: 79.9, OccurredAt: eventAt(2)},
		domain.ProductViewed{ProductID: 1, OccurredAt: eventAt(3)},
		domain.ProductViewed{ProductID: 1, OccurredAt: eventAt(4)},
	}
	for _, evt := range events {
		if err := p.Apply(ctx, evt); err != nil {
			t.Fatalf("Apply(%s): %v", evt.Kind(), err)
		}
	}

	detail, err := products.GetDetail(ctx, 1)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Stock != 3 {
		t.Errorf("Stock = %d, want 3", detail.Stock)
	}
	if detail.Price != 79.9 {
		t.Errorf("Price = %v, want 79.9", detail.Price)
	}
	if detail.ViewCount != 2 {
		t.Errorf("ViewCount = %d, want 2", detail.ViewCount)
	}
	if detail.UpdatedAt != eventAt(2) {
		t.Errorf("UpdatedAt = %v, want %v", detail.UpdatedAt, eventAt(2))
	}
}

func TestApplyIdempotentForStateEvents(t *testing.T) {
	products := memory.NewProductReadModel()
	p := NewProjector(products, nil)
	ctx := context.Background()

	evt := domain.StockAdjusted{ProductID: 1, NewStock: 3, OccurredAt: eventAt(1)}
	if err := p.Apply(ctx, createdEvent(1, "Widget", 8)); err != nil {
		t.Fatalf("Apply created: %v", err)
	}
	// Redelivery of the same state event must not change the row.
	for i := 0; i < 3; i++ {
		if err := p.Apply(ctx, evt); err != nil {
			t.Fatalf("Apply redelivery %d: %v", i, err)
		}
	}

	detail, err := products.GetDetail(ctx, 1)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Stock != 3 {
		t.Errorf("Stock = %d, want 3 after redelivery", detail.Stock)
	}
}

func TestApplyUnknownKind(t *testing.T) {
	p := NewProjector(memory.NewProductReadModel(), nil)

	err := p.Apply(context.Background(), unknownEvent{})
	if !domain.IsDomainError(err, domain.ErrCodeSchema) {
		t.Errorf("error = %v, want SCHEMA", err)
	}
}

type unknownEvent struct{}

func (unknownEvent) Kind() domain.Kind { return domain.Kind("product.recalled") }
func (unknownEvent) Subject() uint64   { return 1 }
func (unknownEvent) Time() time.Time   { return eventAt(0) }

type sliceSource []domain.Event

func (s sliceSource) LoadAll() ([]domain.Event, error) { return s, nil }

func TestRebuildAllReplacesState(t *testing.T) {
	products := memory.NewProductReadModel()
	p := NewProjector(products, nil)
	ctx := context.Background()

	// Seed a stale row that the rebuild must wipe.
	if err := p.Apply(ctx, createdEvent(99, "Stale", 1)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	history := sliceSource{
		createdEvent(1, "Widget", 8),
		domain.StockAdjusted{ProductID: 1, NewStock: 3, OccurredAt: eventAt(1)},
		domain.ProductViewed{ProductID: 1, OccurredAt: eventAt(2)},
	}
	n, err := p.RebuildAll(ctx, history)
	if err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}
	if n != len(history) {
		t.Errorf("replayed %d events, want %d", n, len(history))
	}

	if _, err := products.GetDetail(ctx, 99); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("stale row survived rebuild: %v", err)
	}

	detail, err := products.GetDetail(ctx, 1)
	if err != nil {
		t.Fatalf("GetDetail: %v", err)
	}
	if detail.Stock != 3 || detail.ViewCount != 1 {
		t.Errorf("rebuilt detail = stock %d views %d, want stock 3 views 1", detail.Stock, detail.ViewCount)
	}
}

func TestRebuildMatchesIncremental(t *testing.T) {
	history := []domain.Event{
		createdEvent(1, "Widget", 8),
		createdEvent(2, "Gadget", 2),
		domain.StockAdjusted{ProductID: 1, NewStock: 3, OccurredAt: eventAt(1)},
		domain.PriceChanged{ProductID: 2, NewPrice: 59.5, OccurredAt: eventAt(2)},
		domain.ProductViewed{ProductID: 2, OccurredAt: eventAt(3)},
	}
	ctx := context.Background()

	incremental := memory.NewProductReadModel()
	pi := NewProjector(incremental, nil)
	for _, evt := range history {
		if err := pi.Apply(ctx, evt); err != nil {
			t.Fatalf("incremental Apply: %v", err)
		}
	}

	rebuilt := memory.NewProductReadModel()
	pr := NewProjector(rebuilt, nil)
	if _, err := pr.RebuildAll(ctx, sliceSource(history)); err != nil {
		t.Fatalf("RebuildAll: %v", err)
	}

	for _, id := range []uint64{1, 2} {
		a, err := incremental.GetDetail(ctx, id)
		if err != nil {
			t.Fatalf("incremental GetDetail(%d): %v", id, err)
		}
		b, err := rebuilt.GetDetail(ctx, id)
		if err != nil {
			t.Fatalf("rebuilt GetDetail(%d): %v", id, err)
		}
		if *a != *b {
			t.Errorf("product %d diverged: incremental %+v, rebuilt %+v", id, a, b)
		}
	}
}

type captureSink struct {
	alerts []repository.StockAlert
}

func (s *captureSink) Notify(ctx context.Context, alert repository.StockAlert) error {
	s.alerts = append(s.alerts, alert)
	return nil
}

func TestLowStockAlert(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		wantAlert bool
	}{
		{"well stocked", 50, false},
		{"at threshold", 10, false},
		{"just below", 9, true},
		{"empty", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &captureSink{}
			policy := NewLowStockAlert(10, sink, nil)

			evt := domain.StockAdjusted{ProductID: 1, NewStock: tt.stock, OccurredAt: eventAt(1)}
			if err := policy.Check(context.Background(), evt); err != nil {
				t.Fatalf("Check: %v", err)
			}

			if got := len(sink.alerts) > 0; got != tt.wantAlert {
				t.Fatalf("alert fired = %v, want %v", got, tt.wantAlert)
			}
			if tt.wantAlert {
				alert := sink.alerts[0]
				if alert.Stock != tt.stock || alert.Threshold != 10 {
					t.Errorf("alert = %+v, want stock %d threshold 10", alert, tt.stock)
				}
			}
		})
	}
}

func TestLowStockAlertIgnoresOtherKinds(t *testing.T) {
	sink := &captureSink{}
	policy := NewLowStockAlert(10, sink, nil)

	if err := policy.Check(context.Background(), createdEvent(1, "Widget", 0)); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(sink.alerts) != 0 {
		t.Errorf("alert fired for non-stock event")
	}
}

func TestLowStockAlertNilSink(t *testing.T) {
	policy := NewLowStockAlert(10, nil, nil)

	evt := domain.StockAdjusted{ProductID: 1, NewStock: 2, OccurredAt: eventAt(1)}
	if err := policy.Check(context.Background(), evt); err != nil {
		t.Fatalf("Check with nil sink: %v", err)
	}
}

func TestAuditLogRecords(t *testing.T) {
	audit := NewAuditLog(nil)
	if err := audit.Record(context.Background(), createdEvent(1, "Widget", 5)); err != nil {
		t.Fatalf("Record: %v", err)
	}
}
