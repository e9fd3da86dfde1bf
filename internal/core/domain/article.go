package domain

import "time"

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
	StatusArchived  ArticleStatus = "archived"
)

// Valid reports whether s is a known publication state.
func (s ArticleStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// ListLimit caps the number of articles returned by a listing.
const ListLimit = 20

// Article is a news item. AuthorID is the owner and never changes after
// creation; it is nil for unowned content.
type Article struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Slug          string        `json:"slug"`
	Content       string        `json:"content"`
	Excerpt       *string       `json:"excerpt"`
	MainImageURL  *string       `json:"main_image_url"`
	VideoEmbedURL *string       `json:"video_embed_url"`
	AuthorID      *int64        `json:"author_id"`
	CategoryID    *int32        `json:"category_id"`
	Status        ArticleStatus `json:"status"`
	IsFeatured    bool          `json:"is_featured"`
	IsBreaking    bool          `json:"is_breaking"`
	ViewsCount    int64         `json:"views_count"`
	PublishedAt   *time.Time    `json:"published_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewArticle carries the fields accepted when creating an article.
type NewArticle struct {
	Title         string
	Content       string
	Excerpt       *string
	MainImageURL  *string
	VideoEmbedURL *string
	CategoryID    *int32
	Status        ArticleStatus
	IsFeatured    bool
	IsBreaking    bool
	PublishedAt   *time.Time
}

// ArticlePatch is a partial update. Only present fields are written; a
// present null clears a nullable column.
type ArticlePatch struct {
	Title         Optional[string]        `json:"title"`
	Content       Optional[string]        `json:"content"`
	Excerpt       Optional[string]        `json:"excerpt"`
	MainImageURL  Optional[string]        `json:"main_image_url"`
	VideoEmbedURL Optional[string]        `json:"video_embed_url"`
	CategoryID    Optional[int32]         `json:"category_id"`
	Status        Optional[ArticleStatus] `json:"status"`
	IsFeatured    Optional[bool]          `json:"is_featured"`
	IsBreaking    Optional[bool]          `json:"is_breaking"`
	PublishedAt   Optional[time.Time]     `json:"published_at"`
}

// Validate rejects empty patches, nulls for required columns and unknown statuses.
func (p ArticlePatch) Validate() error {
	switch {
	case p.Empty():
		return Invalid("no fields to update")
	case p.Title.Null:
		return Invalid("title cannot be null")
	case p.Title.Present && p.Title.Value == "":
		return Invalid("title cannot be empty")
	case p.Content.Null:
		return Invalid("content cannot be null")
	case p.Status.Null:
		return Invalid("status cannot be null")
	case p.Status.Present && !p.Status.Value.Valid():
		return Invalid("status must be one of: draft published archived")
	case p.IsFeatured.Null:
		return Invalid("is_featured cannot be null")
	case p.IsBreaking.Null:
		return Invalid("is_breaking cannot be null")
	}
	return nil
}

// Empty reports whether the patch changes nothing.
func (p ArticlePatch) Empty() bool {
	return !p.Title.Present && !p.Content.Present && !p.Excerpt.Present &&
		!p.MainImageURL.Present && !p.VideoEmbedURL.Present && !p.CategoryID.Present &&
		!p.Status.Present && !p.IsFeatured.Present && !p.IsBreaking.Present && !p.PublishedAt.Present
}

// ArticleFilter narrows an article listing. Nil fields do not filter.
type ArticleFilter struct {
	CategoryID *int32
	Search     *string
	IsFeatured *bool
	IsBreaking *bool
	HasVideo   *bool
	Status     *ArticleStatus
}
