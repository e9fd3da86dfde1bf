package ports

import (
	"context"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	// LockForCreate serialises account creation and returns the current
	// number of accounts. It must run inside a unit of work.
	LockForCreate(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ArticleRepository persists articles and their tag assignments.
type ArticleRepository interface {
	Create(ctx context.Context, authorID int64, slug string, in domain.NewArticle) (*domain.Article, error)
	// OwnerOf returns the owner of an article, nil for unowned content.
	OwnerOf(ctx context.Context, id int64) (*int64, error)
	// LockOwnerOf is OwnerOf with a row lock held until the unit of work ends.
	LockOwnerOf(ctx context.Context, id int64) (*int64, error)
	Update(ctx context.Context, id int64, patch domain.ArticlePatch) (*domain.Article, error)
	Delete(ctx context.Context, id int64) error
	GetBySlug(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context, filter domain.ArticleFilter, limit int) ([]domain.Article, error)
	IncrementViews(ctx context.Context, slug string) (int64, error)
	ViewCount(ctx context.Context, slug string) (int64, error)

	ClearTags(ctx context.Context, articleID int64) error
	AddTag(ctx context.Context, articleID int64, tagID int32) error
	TagsOf(ctx context.Context, slug string) ([]domain.Tag, error)
}

// TagRepository persists the tag taxonomy.
type TagRepository interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Create(ctx context.Context, name, slug string) (*domain.Tag, error)
	Delete(ctx context.Context, id int32) error
}

// CategoryRepository persists article categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, name, slug string, description *string) (*domain.Category, error)
}

// SiteConfigRepository persists the singleton site configuration.
type SiteConfigRepository interface {
	// Get returns domain.ErrNotFound when nothing has been saved yet.
	Get(ctx context.Context) (*domain.SiteConfig, error)
	Save(ctx context.Context, patch domain.SiteConfigPatch) (*domain.SiteConfig, error)
}

// Repositories groups the repositories bound to one database handle.
type Repositories interface {
	Users() UserRepository
	Articles() ArticleRepository
	Tags() TagRepository
	Categories() CategoryRepository
	SiteConfig() SiteConfigRepository
}

// Store exposes repositories outside of a transaction and runs units of work.
// fn receives repositories bound to the transaction; returning an error (or
// panicking) rolls every change back, returning nil commits.
type Store interface {
	Repositories
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error
}
