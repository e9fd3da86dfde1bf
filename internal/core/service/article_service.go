package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
	"github.com/ctvnews/newsroom/internal/metrics"
)

// ArticleService implements article reads and the ownership-aware mutations.
type ArticleService struct {
	store ports.Store
	views ports.ViewDeduplicator
	audit ports.AuditRecorder
	log   zerolog.Logger
}

// NewArticleService returns an ArticleService. views may be nil, in which
// case every visit is counted.
func NewArticleService(store ports.Store, views ports.ViewDeduplicator, audit ports.AuditRecorder, log zerolog.Logger) *ArticleService {
	return &ArticleService{store: store, views: views, audit: audit, log: log}
}

func articleResource(id int64) string {
	return "article:" + strconv.FormatInt(id, 10)
}

// Create stores a new article owned by the caller.
func (s *ArticleService) Create(ctx context.Context, cred policy.Credential, in domain.NewArticle) (*domain.Article, error) {
	if err := policy.Authorize(cred, policy.Authenticated, nil); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, domain.Invalid("title is required")
	}
	if in.Status == "" {
		in.Status = domain.StatusDraft
	}
	if !in.Status.Valid() {
		return nil, domain.Invalid("status must be one of: draft published archived")
	}

	a, err := s.store.Articles().Create(ctx, cred.Identity.UserID, domain.ArticleSlug(in.Title), in)
	resource := "article:new"
	if a != nil {
		resource = articleResource(a.ID)
	}
	recordOutcome(ctx, s.audit, "article.create", resource, cred, err)
	if err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return a, nil
}

// Update merges patch into the article. The article must exist before
// ownership is checked, so a missing article is reported as not found even
// to callers who could not have edited it.
func (s *ArticleService) Update(ctx context.Context, cred policy.Credential, id int64, patch domain.ArticlePatch) (*domain.Article, error) {
	a, err := s.update(ctx, cred, id, patch)
	recordOutcome(ctx, s.audit, "article.update", articleResource(id), cred, err)
	return a, err
}

func (s *ArticleService) update(ctx context.Context, cred policy.Credential, id int64, patch domain.ArticlePatch) (*domain.Article, error) {
	if err := policy.Authorize(cred, policy.Authenticated, nil); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	owner, err := s.store.Articles().OwnerOf(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	if err := policy.Authorize(cred, policy.EditContent, owner); err != nil {
		return nil, err
	}

	a, err := s.store.Articles().Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}
	return a, nil
}

// Delete removes an article. Admins only.
func (s *ArticleService) Delete(ctx context.Context, cred policy.Credential, id int64) error {
	err := policy.Authorize(cred, policy.AdminOnly, nil)
	if err == nil {
		err = s.store.Articles().Delete(ctx, id)
	}
	recordOutcome(ctx, s.audit, "article.delete", articleResource(id), cred, err)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

func (s *ArticleService) Get(ctx context.Context, slug string) (*domain.Article, error) {
	return s.store.Articles().GetBySlug(ctx, slug)
}

func (s *ArticleService) List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error) {
	if filter.Search != nil && strings.TrimSpace(*filter.Search) == "" {
		filter.Search = nil
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, domain.Invalid("status must be one of: draft published archived")
	}
	return s.store.Articles().List(ctx, filter, domain.ListLimit)
}

// RegisterView counts a visit and returns the resulting view count. Repeat
// visits from the same visitor inside the dedup window are not counted.
func (s *ArticleService) RegisterView(ctx context.Context, slug, visitor string) (int64, error) {
	first := true
	if s.views != nil {
		ok, err := s.views.FirstView(ctx, slug, visitor)
		if err != nil {
			s.log.Warn().Err(err).Str("slug", slug).Msg("view dedup check failed, counting anyway")
		} else {
			first = ok
		}
	}

	if !first {
		return s.store.Articles().ViewCount(ctx, slug)
	}
	return s.store.Articles().IncrementViews(ctx, slug)
}

// SetTags replaces the article's tag set with tagIDs as one unit of work.
// Duplicate ids collapse. If any id does not name a tag nothing changes.
func (s *ArticleService) SetTags(ctx context.Context, cred policy.Credential, articleID int64, tagIDs []int32) error {
	start := time.Now()
	err := s.setTags(ctx, cred, articleID, uniqueIDs(tagIDs))
	metrics.TagReplaceDuration.WithLabelValues(string(domain.OutcomeOf(err))).Observe(time.Since(start).Seconds())
	recordOutcome(ctx, s.audit, "article.set_tags", articleResource(articleID), cred, err)
	if err != nil {
		return fmt.Errorf("set tags: %w", err)
	}
	return nil
}

func (s *ArticleService) setTags(ctx context.Context, cred policy.Credential, articleID int64, tagIDs []int32) error {
	if err := policy.Authorize(cred, policy.Authenticated, nil); err != nil {
		return err
	}

	return s.store.WithinTx(ctx, func(ctx context.Context, tx ports.Repositories) error {
		owner, err := tx.Articles().LockOwnerOf(ctx, articleID)
		if err != nil {
			return err
		}
		if err := policy.Authorize(cred, policy.EditContent, owner); err != nil {
			return err
		}

		if err := tx.Articles().ClearTags(ctx, articleID); err != nil {
			return err
		}
		for _, id := range tagIDs {
			if err := tx.Articles().AddTag(ctx, articleID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// Tags lists the tags assigned to the article identified by slug.
func (s *ArticleService) Tags(ctx context.Context, slug string) ([]domain.Tag, error) {
	if _, err := s.store.Articles().GetBySlug(ctx, slug); err != nil {
		return nil, err
	}
	return s.store.Articles().TagsOf(ctx, slug)
}

func uniqueIDs(ids []int32) []int32 {
	seen := make(map[int32]struct{}, len(ids))
	out := make([]int32, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
