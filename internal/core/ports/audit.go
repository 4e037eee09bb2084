package ports

import (
	"context"

	"github.com/debttracker/debt-api/internal/core/domain"
)

// AuditRepository persists audit entries to the audit_events collection.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditService processes a single audit entry.
type AuditService interface {
	Record(ctx context.Context, entry domain.AuditEntry) error
}

// AuditRecorder is what mutating services use to emit audit entries.
// Implementations must not block the request for long.
type AuditRecorder interface {
	Enqueue(entry domain.AuditEntry)
}
