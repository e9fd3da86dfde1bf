package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// ArticleHandler handles HTTP requests for articles and their tags.
type ArticleHandler struct {
	service ports.ArticleService
}

func NewArticleHandler(service ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// --- Request / Response types ---

type createArticleRequest struct {
	Title         string     `json:"title"           validate:"required"`
	Content       string     `json:"content"`
	Excerpt       *string    `json:"excerpt"`
	MainImageURL  *string    `json:"main_image_url"`
	VideoEmbedURL *string    `json:"video_embed_url"`
	CategoryID    *int32     `json:"category_id"`
	Status        string     `json:"status"          validate:"omitempty,oneof=draft published archived"`
	IsFeatured    bool       `json:"is_featured"`
	IsBreaking    bool       `json:"is_breaking"`
	PublishedAt   *time.Time `json:"published_at"`
}

type setTagsRequest struct {
	TagIDs []int32 `json:"tag_ids" validate:"required"`
}

type viewsResponse struct {
	ViewsCount int64 `json:"views_count"`
}

// List returns the newest articles matching the query filters.
//
// @Summary      List articles
// @Tags         articles
// @Produce      json
// @Param        category_id  query  int     false  "Category id"
// @Param        search       query  string  false  "Case-insensitive title search"
// @Param        is_featured  query  bool    false  "Featured only"
// @Param        is_breaking  query  bool    false  "Breaking only"
// @Param        has_video    query  bool    false  "With or without a video embed"
// @Param        status       query  string  false  "draft, published or archived"
// @Success      200  {array}   domain.Article
// @Failure      400  {object}  map[string]string
// @Router       /api/articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}
	articles, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// Get returns one article by slug.
//
// @Summary      Get article
// @Tags         articles
// @Produce      json
// @Param        slug  path      string  true  "Article slug"
// @Success      200   {object}  domain.Article
// @Failure      404   {object}  map[string]string
// @Router       /api/articles/{slug} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	a, err := h.service.Get(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// RegisterView counts a visit to the article.
//
// @Summary      Register a view
// @Tags         articles
// @Produce      json
// @Param        slug  path      string  true  "Article slug"
// @Success      200   {object}  viewsResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/articles/{slug}/view [post]
func (h *ArticleHandler) RegisterView(c echo.Context) error {
	count, err := h.service.RegisterView(c.Request().Context(), c.Param("slug"), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewsResponse{ViewsCount: count})
}

// Tags lists the tags of an article.
//
// @Summary      Article tags
// @Tags         articles
// @Produce      json
// @Param        slug  path      string  true  "Article slug"
// @Success      200   {array}   domain.Tag
// @Failure      404   {object}  map[string]string
// @Router       /api/articles/{slug}/tags [get]
func (h *ArticleHandler) Tags(c echo.Context) error {
	tags, err := h.service.Tags(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tags)
}

// Create stores a new article owned by the caller.
//
// @Summary      Create article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        body  body      createArticleRequest  true  "Article"
// @Success      201   {object}  domain.Article
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	var req createArticleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	a, err := h.service.Create(c.Request().Context(), credential(c), domain.NewArticle{
		Title:         req.Title,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		MainImageURL:  req.MainImageURL,
		VideoEmbedURL: req.VideoEmbedURL,
		CategoryID:    req.CategoryID,
		Status:        domain.ArticleStatus(req.Status),
		IsFeatured:    req.IsFeatured,
		IsBreaking:    req.IsBreaking,
		PublishedAt:   req.PublishedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Update applies a partial update. Absent fields are kept, null clears a
// nullable field.
//
// @Summary      Update article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Article id"
// @Param        body  body      domain.ArticlePatch  true  "Fields to change"
// @Success      200   {object}  domain.Article
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	id, err := pathInt64(c, "id")
	if err != nil {
		return err
	}
	var patch domain.ArticlePatch
	if err := decodeJSON(c, &patch); err != nil {
		return err
	}

	a, err := h.service.Update(c.Request().Context(), credential(c), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete removes an article.
//
// @Summary      Delete article
// @Tags         articles
// @Param        id  path  int  true  "Article id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	id, err := pathInt64(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), credential(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SetTags replaces the article's tag set atomically.
//
// @Summary      Replace article tags
// @Tags         articles
// @Accept       json
// @Param        id    path  int             true  "Article id"
// @Param        body  body  setTagsRequest  true  "New tag set"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/admin/articles/{id}/tags [put]
func (h *ArticleHandler) SetTags(c echo.Context) error {
	id, err := pathInt64(c, "id")
	if err != nil {
		return err
	}
	var req setTagsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.SetTags(c.Request().Context(), credential(c), id, req.TagIDs); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func parseFilter(c echo.Context) (domain.ArticleFilter, error) {
	var f domain.ArticleFilter

	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, "category_id must be an integer")
		}
		cid := int32(id)
		f.CategoryID = &cid
	}
	if v := c.QueryParam("search"); v != "" {
		f.Search = &v
	}
	if v := c.QueryParam("status"); v != "" {
		st := domain.ArticleStatus(v)
		f.Status = &st
	}

	flags := []struct {
		name string
		dst  **bool
	}{
		{"is_featured", &f.IsFeatured},
		{"is_breaking", &f.IsBreaking},
		{"has_video", &f.HasVideo},
	}
	for _, fl := range flags {
		v := c.QueryParam(fl.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, echo.NewHTTPError(http.StatusBadRequest, fl.name+" must be a boolean")
		}
		*fl.dst = &b
	}
	return f, nil
}
