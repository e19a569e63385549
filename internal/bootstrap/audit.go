package bootstrap

import "context"

type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

// AuditLogger records operational events such as server shutdown.
type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
