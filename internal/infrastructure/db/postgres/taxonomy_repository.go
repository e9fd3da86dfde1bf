package postgres

import (
	"context"
	"fmt"

	"github.com/ctvnews/newsroom/internal/core/domain"
)

// TagRepository implements ports.TagRepository.
type TagRepository struct {
	db DBTX
}

func NewTagRepository(db DBTX) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug FROM tags ORDER BY name ASC`)
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

func (r *TagRepository) Create(ctx context.Context, name, slug string) (*domain.Tag, error) {
	t := domain.Tag{Name: name, Slug: slug}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id`, name, slug).Scan(&t.ID)
	if err != nil {
		return nil, translate(err, domain.ErrTagExists, nil)
	}
	return &t, nil
}

// Delete removes a tag; its assignments go with it through the foreign key.
func (r *TagRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return domain.ErrTagNotFound
	}
	return nil
}

// CategoryRepository implements ports.CategoryRepository.
type CategoryRepository struct {
	db DBTX
}

func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, description FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, name, slug string, description *string) (*domain.Category, error) {
	c := domain.Category{Name: name, Slug: slug, Description: description}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug, description) VALUES ($1, $2, $3) RETURNING id`,
		name, slug, description).Scan(&c.ID)
	if err != nil {
		return nil, translate(err, domain.ErrCategoryExists, nil)
	}
	return &c, nil
}
