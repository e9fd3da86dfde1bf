package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

// SiteConfigRepository implements ports.SiteConfigRepository over the
// single row with id 1.
type SiteConfigRepository struct {
	db DBTX
}

func NewSiteConfigRepository(db DBTX) *SiteConfigRepository {
	return &SiteConfigRepository{db: db}
}

func (r *SiteConfigRepository) Get(ctx context.Context) (*domain.SiteConfig, error) {
	var c domain.SiteConfig
	err := r.db.QueryRowContext(ctx,
		`SELECT live_stream_url, is_live_active, breaking_news_banner FROM site_config WHERE id = 1`).
		Scan(&c.LiveStreamURL, &c.IsLiveActive, &c.BreakingNewsBanner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}

// Save upserts the row, touching only the fields present in patch. The
// $n::bool flags tell the statement which arguments were sent so that a
// present null can clear a column.
func (r *SiteConfigRepository) Save(ctx context.Context, patch domain.SiteConfigPatch) (*domain.SiteConfig, error) {
	const q = `
		INSERT INTO site_config (id, live_stream_url, is_live_active, breaking_news_banner)
		VALUES (1, $2, COALESCE($4, TRUE), $6)
		ON CONFLICT (id) DO UPDATE SET
			live_stream_url      = CASE WHEN $1::bool THEN EXCLUDED.live_stream_url ELSE site_config.live_stream_url END,
			is_live_active       = CASE WHEN $3::bool THEN EXCLUDED.is_live_active ELSE site_config.is_live_active END,
			breaking_news_banner = CASE WHEN $5::bool THEN EXCLUDED.breaking_news_banner ELSE site_config.breaking_news_banner END
		RETURNING live_stream_url, is_live_active, breaking_news_banner`

	var c domain.SiteConfig
	err := r.db.QueryRowContext(ctx, q,
		patch.LiveStreamURL.Present, patch.LiveStreamURL.Ptr(),
		patch.IsLiveActive.Present && !patch.IsLiveActive.Null, patch.IsLiveActive.Ptr(),
		patch.BreakingNewsBanner.Present, patch.BreakingNewsBanner.Ptr(),
	).Scan(&c.LiveStreamURL, &c.IsLiveActive, &c.BreakingNewsBanner)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &c, nil
}
