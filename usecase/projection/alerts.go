package projection

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalogd/backend/domain"
	"github.com/catalogd/backend/repository"
)

// DefaultLowStockThreshold is used when no threshold is configured.
const DefaultLowStockThreshold = 10

// LowStockAlert is a stateless policy evaluated per stock event. It
// subscribes independently of the projector: zero coupling between the two.
type LowStockAlert struct {
	threshold int
	sink      repository.AlertSink
	logger    *zap.Logger
}

// NewLowStockAlert builds the policy. The sink may be nil, in which case
// alerts only reach the log.
func NewLowStockAlert(threshold int, sink repository.AlertSink, logger *zap.Logger) *LowStockAlert {
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LowStockAlert{
		threshold: threshold,
		sink:      sink,
		logger:    logger,
	}
}

func (a *LowStockAlert) Check(ctx context.Context, evt domain.Event) error {
	e, ok := evt.(domain.StockAdjusted)
	if !ok {
		return nil
	}
	if e.NewStock >= a.threshold {
		return nil
	}

	a.logger.Warn("low stock",
		zap.Uint64("product_id", e.ProductID),
		zap.Int("stock", e.NewStock),
		zap.Int("threshold", a.threshold))

	if a.sink == nil {
		return nil
	}
	return a.sink.Notify(ctx, repository.StockAlert{
		ProductID:  e.ProductID,
		Stock:      e.NewStock,
		Threshold:  a.threshold,
		OccurredAt: e.OccurredAt,
	})
}
