package redis

import (
	"context"
	"encoding/json"

	redislib "github.com/redis/go-redis/v9"

	"github.com/catalogd/backend/repository"
)

const defaultAlertKey = "alerts:low_stock"

type alertSink struct {
	client *redislib.Client
	key    string
	max    int64
}

// NewAlertSink creates a Redis-backed alert sink. Alerts are pushed onto a
// list capped at max entries, newest first, for operational consumers.
func NewAlertSink(client *redislib.Client, key string, max int64) repository.AlertSink {
	if key == "" {
		key = defaultAlertKey
	}
	if max <= 0 {
		max = 1000
	}
	return &alertSink{
		client: client,
		key:    key,
		max:    max,
	}
}

func (s *alertSink) Notify(ctx context.Context, alert repository.StockAlert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, payload)
	pipe.LTrim(ctx, s.key, 0, s.max-1)
	_, err = pipe.Exec(ctx)
	return err
}
