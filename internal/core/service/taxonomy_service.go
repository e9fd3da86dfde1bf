package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// TaxonomyService manages tags and categories.
type TaxonomyService struct {
	store ports.Store
	audit ports.AuditRecorder
}

func NewTaxonomyService(store ports.Store, audit ports.AuditRecorder) *TaxonomyService {
	return &TaxonomyService{store: store, audit: audit}
}

func (s *TaxonomyService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	return s.store.Tags().List(ctx)
}

// CreateTag adds a tag. The slug defaults to the slugified name.
func (s *TaxonomyService) CreateTag(ctx context.Context, cred policy.Credential, name string, slug *string) (*domain.Tag, error) {
	tag, err := s.createTag(ctx, cred, name, slug)
	recordOutcome(ctx, s.audit, "tag.create", "tag:"+name, cred, err)
	return tag, err
}

func (s *TaxonomyService) createTag(ctx context.Context, cred policy.Credential, name string, slug *string) (*domain.Tag, error) {
	if err := policy.Authorize(cred, policy.AdminOnly, nil); err != nil {
		return nil, err
	}
	name, s2, err := nameAndSlug(name, slug)
	if err != nil {
		return nil, err
	}
	tag, err := s.store.Tags().Create(ctx, name, s2)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

func (s *TaxonomyService) DeleteTag(ctx context.Context, cred policy.Credential, id int32) error {
	err := policy.Authorize(cred, policy.AdminOnly, nil)
	if err == nil {
		err = s.store.Tags().Delete(ctx, id)
	}
	recordOutcome(ctx, s.audit, "tag.delete", "tag:"+strconv.Itoa(int(id)), cred, err)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

func (s *TaxonomyService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.store.Categories().List(ctx)
}

func (s *TaxonomyService) CreateCategory(ctx context.Context, cred policy.Credential, name string, slug, description *string) (*domain.Category, error) {
	category, err := s.createCategory(ctx, cred, name, slug, description)
	recordOutcome(ctx, s.audit, "category.create", "category:"+name, cred, err)
	return category, err
}

func (s *TaxonomyService) createCategory(ctx context.Context, cred policy.Credential, name string, slug, description *string) (*domain.Category, error) {
	if err := policy.Authorize(cred, policy.AdminOnly, nil); err != nil {
		return nil, err
	}
	name, s2, err := nameAndSlug(name, slug)
	if err != nil {
		return nil, err
	}
	category, err := s.store.Categories().Create(ctx, name, s2, description)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

func nameAndSlug(name string, slug *string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", domain.Invalid("name is required")
	}
	s := domain.Slugify(name)
	if slug != nil && strings.TrimSpace(*slug) != "" {
		s = domain.Slugify(*slug)
	}
	if s == "" {
		return "", "", domain.Invalid("slug must contain letters or digits")
	}
	return name, s, nil
}
