package ports

import (
	"context"

	"github.com/atelierhq/backoffice/internal/core/domain"
)

// AuditRecorder accepts audit entries for asynchronous persistence. Record
// must not block the caller beyond queueing.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}

// AuditRepository persists audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
	ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*domain.AuditEntry, error)
}
