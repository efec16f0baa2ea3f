package bootstrap

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iworck/class-chronicle-sub001/internal/shared/contextutil"
)

// StdoutAuditLogger writes operational audit events through the process
// logger. Attendance adjustments have their own persistent trail; this one
// covers lifecycle events only.
type StdoutAuditLogger struct{}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info(entry.Action,
		zap.String("logged_at", time.Now().UTC().Format(time.RFC3339)),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	)
}
