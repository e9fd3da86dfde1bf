package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// SiteConfigService reads and updates the singleton site configuration.
type SiteConfigService struct {
	store ports.Store
	audit ports.AuditRecorder
}

func NewSiteConfigService(store ports.Store, audit ports.AuditRecorder) *SiteConfigService {
	return &SiteConfigService{store: store, audit: audit}
}

// Get returns the saved configuration, or the defaults when none is saved.
func (s *SiteConfigService) Get(ctx context.Context) (*domain.SiteConfig, error) {
	cfg, err := s.store.SiteConfig().Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		def := domain.DefaultSiteConfig()
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get site config: %w", err)
	}
	return cfg, nil
}

// Update saves the present fields of patch. Admins only.
func (s *SiteConfigService) Update(ctx context.Context, cred policy.Credential, patch domain.SiteConfigPatch) (*domain.SiteConfig, error) {
	var cfg *domain.SiteConfig
	err := policy.Authorize(cred, policy.AdminOnly, nil)
	if err == nil && patch.IsLiveActive.Null {
		err = domain.Invalid("is_live_active cannot be null")
	}
	if err == nil {
		cfg, err = s.store.SiteConfig().Save(ctx, patch)
	}
	recordOutcome(ctx, s.audit, "site_config.update", "site_config:1", cred, err)
	if err != nil {
		return nil, fmt.Errorf("update site config: %w", err)
	}
	return cfg, nil
}
