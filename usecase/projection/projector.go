package projection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/repository"
)

// EventSource supplies the full log in global append order. Satisfied by the
// event log store; abstracted so rebuilds can be tested against fixtures.
type EventSource interface {
	LoadAll() ([]domain.Event, error)
}

// Projector maintains the denormalized read model. Idempotent by
// construction: reapplying an event yields an identical row, so at-least-once
// delivery is safe (view counts rely on each observation event being unique).
type Projector struct {
	products repository.ProductReadModel
	logger   *zap.Logger
}

func NewProjector(products repository.ProductReadModel, logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{
		products: products,
		logger:   logger,
	}
}

// Apply projects one event into the read model.
func (p *Projector) Apply(ctx context.Context, evt domain.Event) error {
	switch e := evt.(type) {
	case domain.ProductCreated:
		return p.products.UpsertDetail(ctx, repository.ProductDetail{
			ID:           e.ProductID,
			Name:         e.Name,
			Description:  e.Description,
			Price:        e.Price,
			Stock:        e.Stock,
			ViewCount:    0,
			SupplierName: e.SupplierName,
			CreatedAt:    e.OccurredAt,
			UpdatedAt:    e.OccurredAt,
		})
	case domain.StockAdjusted:
		return p.products.SetStock(ctx, e.ProductID, e.NewStock, e.OccurredAt)
	case domain.PriceChanged:
		return p.products.SetPrice(ctx, e.ProductID, e.NewPrice, e.OccurredAt)
	case domain.ProductViewed:
		return p.products.IncrementViews(ctx, e.ProductID)
	default:
		return domain.NewError(domain.ErrCodeSchema, fmt.Sprintf("unknown event kind %q", evt.Kind()))
	}
}

// RebuildAll clears the read model and replays every event synchronously.
// The canonical recovery path, and the retrofit mechanism for projecting new
// views over historical data. Returns the number of events replayed.
func (p *Projector) RebuildAll(ctx context.Context, source EventSource) (int, error) {
	if err := p.products.Reset(ctx); err != nil {
		return 0, err
	}
	events, err := source.LoadAll()
	if err != nil {
		return 0, err
	}
	for i, evt := range events {
		if err := p.Apply(ctx, evt); err != nil {
			return i, err
		}
	}
	p.logger.Info("read model rebuilt", zap.Int("events", len(events)))
	return len(events), nil
}
