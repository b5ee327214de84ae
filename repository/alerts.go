package repository

import (
	"context"
	"time"
)

// StockAlert is a low-stock notification emitted by the alert policy.
type StockAlert struct {
	ProductID  uint64    `json:"product_id"`
	Stock      int       `json:"stock"`
	Threshold  int       `json:"threshold"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AlertSink delivers stock alerts to an operational channel.
type AlertSink interface {
	Notify(ctx context.Context, alert StockAlert) error
}
