package ports

import (
	"context"

	"github.com/99minutos/invoice-dashboard/internal/core/domain"
)

// AuditRepository persists audit events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}

// AuditService records a single audit event.
type AuditService interface {
	Record(ctx context.Context, event domain.AuditEvent) error
}

// AuditSink accepts audit events for asynchronous recording. Enqueue never
// blocks the caller.
type AuditSink interface {
	Enqueue(event domain.AuditEvent)
}
