package projection

import (
	"context"

	"go.uber.org/zap"

	"github.com/catalogd/backend/domain"
)

// AuditLog records every event it sees. Pure side effect, no state: the
// structured log is the append-only audit trail.
type AuditLog struct {
	logger *zap.Logger
}

func NewAuditLog(logger *zap.Logger) *AuditLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditLog{logger: logger.Named("audit")}
}

func (a *AuditLog) Record(ctx context.Context, evt domain.Event) error {
	a.logger.Info("event",
		zap.Time("occurred_at", evt.Time()),
		zap.String("kind", string(evt.Kind())),
		zap.Uint64("product_id", evt.Subject()))
	return nil
}
