package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

const articleColumns = `id, title, slug, content, excerpt, main_image_url, video_embed_url,
	author_id, category_id, status, is_featured, is_breaking, views_count,
	published_at, created_at, updated_at`

// ArticleRepository implements ports.ArticleRepository.
type ArticleRepository struct {
	db DBTX
}

func NewArticleRepository(db DBTX) *ArticleRepository {
	return &ArticleRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var (
		a      domain.Article
		status string
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Slug, &a.Content, &a.Excerpt, &a.MainImageURL, &a.VideoEmbedURL,
		&a.AuthorID, &a.CategoryID, &status, &a.IsFeatured, &a.IsBreaking, &a.ViewsCount,
		&a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Status = domain.ArticleStatus(status)
	return &a, nil
}

func (r *ArticleRepository) Create(ctx context.Context, authorID int64, slug string, in domain.NewArticle) (*domain.Article, error) {
	q := `
		INSERT INTO articles (title, slug, content, excerpt, main_image_url, video_embed_url,
			author_id, category_id, status, is_featured, is_breaking, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + articleColumns

	status := in.Status
	if status == "" {
		status = domain.StatusDraft
	}

	a, err := scanArticle(r.db.QueryRowContext(ctx, q,
		in.Title, slug, in.Content, in.Excerpt, in.MainImageURL, in.VideoEmbedURL,
		authorID, in.CategoryID, string(status), in.IsFeatured, in.IsBreaking, in.PublishedAt,
	))
	if err != nil {
		return nil, translate(err, domain.ErrArticleExists, domain.ErrUnknownCategory)
	}
	return a, nil
}

func (r *ArticleRepository) OwnerOf(ctx context.Context, id int64) (*int64, error) {
	return r.owner(ctx, `SELECT author_id FROM articles WHERE id = $1`, id)
}

func (r *ArticleRepository) LockOwnerOf(ctx context.Context, id int64) (*int64, error) {
	return r.owner(ctx, `SELECT author_id FROM articles WHERE id = $1 FOR UPDATE`, id)
}

func (r *ArticleRepository) owner(ctx context.Context, q string, id int64) (*int64, error) {
	var owner *int64
	err := r.db.QueryRowContext(ctx, q, id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return owner, nil
}

// Update writes only the fields present in patch and always bumps updated_at.
func (r *ArticleRepository) Update(ctx context.Context, id int64, patch domain.ArticlePatch) (*domain.Article, error) {
	var set assignments
	if patch.Title.Present {
		set.add("title", patch.Title.Value)
	}
	if patch.Content.Present {
		set.add("content", patch.Content.Value)
	}
	if patch.Excerpt.Present {
		set.add("excerpt", patch.Excerpt.Ptr())
	}
	if patch.MainImageURL.Present {
		set.add("main_image_url", patch.MainImageURL.Ptr())
	}
	if patch.VideoEmbedURL.Present {
		set.add("video_embed_url", patch.VideoEmbedURL.Ptr())
	}
	if patch.CategoryID.Present {
		set.add("category_id", patch.CategoryID.Ptr())
	}
	if patch.Status.Present {
		set.add("status", string(patch.Status.Value))
	}
	if patch.IsFeatured.Present {
		set.add("is_featured", patch.IsFeatured.Value)
	}
	if patch.IsBreaking.Present {
		set.add("is_breaking", patch.IsBreaking.Value)
	}
	if patch.PublishedAt.Present {
		set.add("published_at", patch.PublishedAt.Ptr())
	}
	set.cols = append(set.cols, "updated_at = NOW()")
	set.args = append(set.args, id)

	q := fmt.Sprintf("UPDATE articles SET %s WHERE id = $%d RETURNING %s",
		strings.Join(set.cols, ", "), len(set.args), articleColumns)

	a, err := scanArticle(r.db.QueryRowContext(ctx, q, set.args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, translate(err, nil, domain.ErrUnknownCategory)
	}
	return a, nil
}

// assignments accumulates "col = $n" fragments with their arguments.
type assignments struct {
	cols []string
	args []any
}

func (a *assignments) add(col string, v any) {
	a.args = append(a.args, v)
	a.cols = append(a.cols, fmt.Sprintf("%s = $%d", col, len(a.args)))
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	a, err := scanArticle(r.db.QueryRowContext(ctx,
		`SELECT `+articleColumns+` FROM articles WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *ArticleRepository) List(ctx context.Context, f domain.ArticleFilter, limit int) ([]domain.Article, error) {
	q := `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE ($1::int IS NULL OR category_id = $1)
		  AND ($2::text IS NULL OR title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
		  AND ($3::bool IS NULL OR is_featured = $3)
		  AND ($4::bool IS NULL OR is_breaking = $4)
		  AND ($5::bool IS NULL OR (video_embed_url IS NOT NULL) = $5)
		  AND ($6::text IS NULL OR status = $6)
		ORDER BY created_at DESC
		LIMIT $7`

	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	rows, err := r.db.QueryContext(ctx, q, f.CategoryID, f.Search, f.IsFeatured, f.IsBreaking, f.HasVideo, status, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0, limit)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return articles, nil
}

func (r *ArticleRepository) IncrementViews(ctx context.Context, slug string) (int64, error) {
	return r.views(ctx, `UPDATE articles SET views_count = views_count + 1 WHERE slug = $1 RETURNING views_count`, slug)
}

func (r *ArticleRepository) ViewCount(ctx context.Context, slug string) (int64, error) {
	return r.views(ctx, `SELECT views_count FROM articles WHERE slug = $1`, slug)
}

func (r *ArticleRepository) views(ctx context.Context, q, slug string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, q, slug).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrArticleNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *ArticleRepository) ClearTags(ctx context.Context, articleID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, articleID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// AddTag tolerates an existing assignment.
func (r *ArticleRepository) AddTag(ctx context.Context, articleID int64, tagID int32) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO article_tags (article_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		articleID, tagID)
	if err != nil {
		return translate(err, nil, domain.ErrUnknownTag)
	}
	return nil
}

func (r *ArticleRepository) TagsOf(ctx context.Context, slug string) ([]domain.Tag, error) {
	const q = `
		SELECT t.id, t.name, t.slug
		FROM tags t
		JOIN article_tags at ON at.tag_id = t.id
		JOIN articles a ON a.id = at.article_id
		WHERE a.slug = $1
		ORDER BY t.name ASC`

	rows, err := r.db.QueryContext(ctx, q, slug)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tags, nil
}
