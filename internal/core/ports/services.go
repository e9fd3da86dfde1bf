package ports

import (
	"context"
	"io"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
)

// RegisterInput is the account data a client may supply. The role is never
// part of it.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Session is the result of a successful login.
type Session struct {
	Token    string
	Identity domain.Identity
}

type AuthService interface {
	Register(ctx context.Context, cred policy.Credential, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
}

type ArticleService interface {
	Create(ctx context.Context, cred policy.Credential, in domain.NewArticle) (*domain.Article, error)
	Update(ctx context.Context, cred policy.Credential, id int64, patch domain.ArticlePatch) (*domain.Article, error)
	Delete(ctx context.Context, cred policy.Credential, id int64) error
	Get(ctx context.Context, slug string) (*domain.Article, error)
	List(ctx context.Context, filter domain.ArticleFilter) ([]domain.Article, error)
	RegisterView(ctx context.Context, slug, visitor string) (int64, error)
	SetTags(ctx context.Context, cred policy.Credential, articleID int64, tagIDs []int32) error
	Tags(ctx context.Context, slug string) ([]domain.Tag, error)
}

type TaxonomyService interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, cred policy.Credential, name string, slug *string) (*domain.Tag, error)
	DeleteTag(ctx context.Context, cred policy.Credential, id int32) error
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, cred policy.Credential, name string, slug, description *string) (*domain.Category, error)
}

type SiteConfigService interface {
	Get(ctx context.Context) (*domain.SiteConfig, error)
	Update(ctx context.Context, cred policy.Credential, patch domain.SiteConfigPatch) (*domain.SiteConfig, error)
}

// UploadInput is a file received from a client.
type UploadInput struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type UploadService interface {
	Upload(ctx context.Context, cred policy.Credential, in UploadInput) (*domain.StoredFile, error)
}
