package service

import (
	"context"
	"time"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// recordOutcome reports how a mutation ended. A nil recorder disables the trail.
func recordOutcome(ctx context.Context, rec ports.AuditRecorder, action, resource string, cred policy.Credential, err error) {
	if rec == nil {
		return
	}
	m := domain.MutationRecord{
		Action:     action,
		Resource:   resource,
		ActorID:    cred.ActorID(),
		State:      domain.OutcomeOf(err),
		OccurredAt: time.Now().UTC(),
	}
	if err != nil {
		m.Reason = domain.Reason(err)
		if m.Reason == "" {
			m.Reason = "internal error"
		}
	}
	rec.Record(context.WithoutCancel(ctx), m)
}
