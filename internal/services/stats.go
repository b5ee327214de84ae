package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/catalogd/backend/internal/bus"
	"github.com/catalogd/backend/internal/infrastructure/eventlog"
)

// StatsReporter periodically logs operational figures: log size, queue
// depth. Observability only; it never touches the write path.
type StatsReporter struct {
	log    *eventlog.Store
	bus    *bus.Bus
	logger *zap.Logger
	cron   *cron.Cron
}

func NewStatsReporter(log *eventlog.Store, b *bus.Bus, logger *zap.Logger, interval time.Duration) *StatsReporter {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sr := &StatsReporter{
		log:    log,
		bus:    b,
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = sr.cron.AddFunc(schedule, sr.report)

	return sr
}

// Start launches the cron scheduler.
func (sr *StatsReporter) Start() {
	if sr == nil || sr.cron == nil {
		return
	}
	sr.cron.Start()
	sr.logger.Info("stats reporter started")
}

// Stop gracefully stops the scheduler.
func (sr *StatsReporter) Stop(ctx context.Context) {
	if sr == nil || sr.cron == nil {
		return
	}
	stopCtx := sr.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	sr.logger.Info("stats reporter stopped")
}

func (sr *StatsReporter) report() {
	count, err := sr.log.Count()
	if err != nil {
		sr.logger.Warn("event count failed", zap.Error(err))
		return
	}
	sr.logger.Info("event store stats",
		zap.Int("events", count),
		zap.Int("queue_depth", sr.bus.Depth()))
}
