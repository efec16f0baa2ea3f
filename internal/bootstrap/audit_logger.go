package bootstrap

import "context"

// AuditLog is one operational audit event (startup, shutdown, policy reload).
// Domain-level audit (attendance adjustments) lives in its own table and does
// not pass through here.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
