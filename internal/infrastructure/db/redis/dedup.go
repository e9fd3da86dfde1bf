package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ctvnews/newsroom/internal/metrics"
)

const defaultViewWindow = 30 * time.Minute

// ViewDedup remembers which visitor already viewed an article within a window.
// Key format: views:<slug>:<visitor>
type ViewDedup struct {
	client *redis.Client
	window time.Duration
}

// NewViewDedup wraps client. window <= 0 selects defaultViewWindow.
func NewViewDedup(client *redis.Client, window time.Duration) *ViewDedup {
	if window <= 0 {
		window = defaultViewWindow
	}
	return &ViewDedup{client: client, window: window}
}

// FirstView atomically marks the visit and reports whether it is the first
// one inside the window.
func (d *ViewDedup) FirstView(ctx context.Context, slug, visitor string) (bool, error) {
	first, err := d.client.SetNX(ctx, d.key(slug, visitor), "1", d.window).Result()
	if err != nil {
		return false, fmt.Errorf("view dedup: %w", err)
	}
	if first {
		metrics.ArticleViewsTotal.WithLabelValues("counted").Inc()
	} else {
		metrics.ArticleViewsTotal.WithLabelValues("deduplicated").Inc()
	}
	return first, nil
}

func (d *ViewDedup) key(slug, visitor string) string {
	return fmt.Sprintf("views:%s:%s", slug, visitor)
}
