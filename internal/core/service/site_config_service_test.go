package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

func TestSiteConfigService_GetDefaultsWhenMissing(t *testing.T) {
	svc := NewSiteConfigService(newMemStore(), nil)

	cfg, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !cfg.IsLiveActive || cfg.LiveStreamURL != nil || cfg.BreakingNewsBanner != nil {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestSiteConfigService_Update(t *testing.T) {
	store := newMemStore()
	rec := &recorder{}
	svc := NewSiteConfigService(store, rec)

	_, err := svc.Update(context.Background(), as(2, domain.RoleEditor), domain.SiteConfigPatch{IsLiveActive: domain.Optional[bool]{Value: false, Present: true}})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for editor, got %v", err)
	}
	if rec.last().State != domain.MutationRejected {
		t.Fatalf("expected rejected audit record")
	}

	patch := domain.SiteConfigPatch{BreakingNewsBanner: domain.Optional[string]{Value: "Polls close at 8pm", Present: true}}
	cfg, err := svc.Update(context.Background(), as(1, domain.RoleAdmin), patch)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if !cfg.IsLiveActive || cfg.BreakingNewsBanner == nil || *cfg.BreakingNewsBanner != "Polls close at 8pm" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	got, _ := svc.Get(context.Background())
	if *got.BreakingNewsBanner != "Polls close at 8pm" {
		t.Fatalf("update not persisted: %+v", got)
	}

	_, err = svc.Update(context.Background(), as(1, domain.RoleAdmin), domain.SiteConfigPatch{IsLiveActive: domain.Optional[bool]{Present: true, Null: true}})
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected bad request for null flag, got %v", err)
	}
}
