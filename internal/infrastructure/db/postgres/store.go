package postgres

import (
	"context"
	"database/sql"

	"github.com/ctvnews/newsroom/internal/core/ports"
)

// Store implements ports.Store. Repositories returned by its accessors use
// the pool directly; those handed to WithinTx share one transaction.
type Store struct {
	db *sql.DB
	repos
}

// NewStore wraps an open pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, repos: repos{db: db}}
}

// WithinTx runs fn in a read-committed transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Repositories) error) error {
	return WithTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx DBTX) error {
		return fn(ctx, repos{db: tx})
	})
}

// Ping reports whether the pool can reach the server.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// repos binds every repository to one handle.
type repos struct {
	db DBTX
}

func (r repos) Users() ports.UserRepository             { return NewUserRepository(r.db) }
func (r repos) Articles() ports.ArticleRepository       { return NewArticleRepository(r.db) }
func (r repos) Tags() ports.TagRepository               { return NewTagRepository(r.db) }
func (r repos) Categories() ports.CategoryRepository    { return NewCategoryRepository(r.db) }
func (r repos) SiteConfig() ports.SiteConfigRepository { return NewSiteConfigRepository(r.db) }
