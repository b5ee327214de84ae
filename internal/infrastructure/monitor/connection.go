package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/catalogd/backend/internal/bus"
	"github.com/catalogd/backend/internal/infrastructure/eventlog"
)

// Monitor periodically checks the health of the event log, the bus queue and
// any configured external stores, and caches the result for the health
// endpoint. Unconfigured dependencies are not treated as failures.
type Monitor struct {
	pg    *pgxpool.Pool
	redis *redislib.Client
	log   *eventlog.Store
	bus   *bus.Bus

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	logger   *zap.Logger
}

func New(pg *pgxpool.Pool, redis *redislib.Client, log *eventlog.Store, b *bus.Bus, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		pg:       pg,
		redis:    redis,
		log:      log,
		bus:      b,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	close(m.stopCh)
}

// IsOnline reports whether every configured dependency is reachable.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.EventLog && m.status.PostgreSQL && m.status.Redis
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.refresh()
	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	logOK, eventCount := m.checkEventLog()
	status := Status{
		EventLog:   logOK,
		EventCount: eventCount,
		PostgreSQL: m.checkPostgres(),
		Redis:      m.checkRedis(),
		QueueDepth: m.queueDepth(),
		LastCheck:  time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkPostgres() bool {
	if m.pg == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.pg.Ping(ctx) == nil
}

func (m *Monitor) checkRedis() bool {
	if m.redis == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}

func (m *Monitor) checkEventLog() (bool, int) {
	if m.log == nil {
		return false, 0
	}
	count, err := m.log.Count()
	if err != nil {
		m.logger.Warn("event log check failed", zap.Error(err))
		return false, count
	}
	return true, count
}

func (m *Monitor) queueDepth() int {
	if m.bus == nil {
		return 0
	}
	return m.bus.Depth()
}
