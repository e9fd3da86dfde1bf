package ports

import (
	"context"
	"io"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

// AuditRecorder accepts mutation outcomes. Implementations must not block
// the caller on slow storage and must never fail the mutation.
type AuditRecorder interface {
	Record(ctx context.Context, rec domain.MutationRecord)
}

// AuditRepository durably stores audit records.
type AuditRepository interface {
	Insert(ctx context.Context, rec domain.MutationRecord) error
}

// ViewDeduplicator decides whether a visit should bump a view counter.
type ViewDeduplicator interface {
	FirstView(ctx context.Context, slug, visitor string) (bool, error)
}

// FileStore stores uploaded objects and returns their public URL.
type FileStore interface {
	Put(ctx context.Context, name, contentType string, body io.Reader, size int64) (string, error)
}

// AuditReader reads back the audit trail of a resource.
type AuditReader interface {
	Recent(ctx context.Context, resource string, limit int64) ([]domain.MutationRecord, error)
}
