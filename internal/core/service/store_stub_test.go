package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ctvnews/newsroom/internal/core/domain"
	"github.com/ctvnews/newsroom/internal/core/policy"
	"github.com/ctvnews/newsroom/internal/core/ports"
)

// memStore is an in-memory ports.Store. WithinTx serialises units of work
// and restores a snapshot when fn fails.
type memStore struct {
	txMu sync.Mutex
	data memData

	commitErr error
}

type memData struct {
	users       []domain.User
	articles    map[int64]domain.Article
	tags        map[int32]domain.Tag
	categories  []domain.Category
	articleTags map[int64]map[int32]struct{}
	site        *domain.SiteConfig
	nextID      int64
}

func newMemStore() *memStore {
	return &memStore{data: memData{
		articles:    map[int64]domain.Article{},
		tags:        map[int32]domain.Tag{},
		articleTags: map[int64]map[int32]struct{}{},
	}}
}

func (d memData) clone() memData {
	c := d
	c.users = append([]domain.User(nil), d.users...)
	c.categories = append([]domain.Category(nil), d.categories...)
	c.articles = make(map[int64]domain.Article, len(d.articles))
	for k, v := range d.articles {
		c.articles[k] = v
	}
	c.tags = make(map[int32]domain.Tag, len(d.tags))
	for k, v := range d.tags {
		c.tags[k] = v
	}
	c.articleTags = make(map[int64]map[int32]struct{}, len(d.articleTags))
	for k, set := range d.articleTags {
		cs := make(map[int32]struct{}, len(set))
		for id := range set {
			cs[id] = struct{}{}
		}
		c.articleTags[k] = cs
	}
	if d.site != nil {
		site := *d.site
		c.site = &site
	}
	return c
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snapshot := s.data.clone()
	err := fn(ctx, s)
	if err == nil && s.commitErr != nil {
		err = s.commitErr
	}
	if err != nil {
		s.data = snapshot
	}
	return err
}

func (s *memStore) Users() ports.UserRepository             { return memUsers{s} }
func (s *memStore) Articles() ports.ArticleRepository       { return memArticles{s} }
func (s *memStore) Tags() ports.TagRepository               { return memTags{s} }
func (s *memStore) Categories() ports.CategoryRepository    { return memCategories{s} }
func (s *memStore) SiteConfig() ports.SiteConfigRepository { return memSite{s} }

func (s *memStore) next() int64 {
	s.data.nextID++
	return s.data.nextID
}

// tagSet returns the tag ids assigned to an article, sorted.
func (s *memStore) tagSet(articleID int64) []int32 {
	ids := make([]int32, 0)
	for id := range s.data.articleTags[articleID] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *memStore) addArticle(owner *int64, title string) domain.Article {
	a := domain.Article{ID: s.next(), Title: title, Slug: domain.Slugify(title), AuthorID: owner, Status: domain.StatusDraft}
	s.data.articles[a.ID] = a
	return a
}

func (s *memStore) addTag(name string) domain.Tag {
	t := domain.Tag{ID: int32(s.next()), Name: name, Slug: domain.Slugify(name)}
	s.data.tags[t.ID] = t
	return t
}

type memUsers struct{ s *memStore }

func (r memUsers) LockForCreate(context.Context) (int64, error) {
	return int64(len(r.s.data.users)), nil
}

func (r memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	for _, existing := range r.s.data.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := *u
	c.ID = r.s.next()
	c.CreatedAt = time.Now().UTC()
	r.s.data.users = append(r.s.data.users, c)
	return &c, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.s.data.users {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type memArticles struct{ s *memStore }

func (r memArticles) Create(_ context.Context, authorID int64, slug string, in domain.NewArticle) (*domain.Article, error) {
	for _, a := range r.s.data.articles {
		if a.Slug == slug {
			return nil, domain.ErrArticleExists
		}
	}
	owner := authorID
	a := domain.Article{
		ID: r.s.next(), Title: in.Title, Slug: slug, Content: in.Content, AuthorID: &owner,
		CategoryID: in.CategoryID, Status: in.Status, IsFeatured: in.IsFeatured, IsBreaking: in.IsBreaking,
	}
	r.s.data.articles[a.ID] = a
	return &a, nil
}

func (r memArticles) OwnerOf(_ context.Context, id int64) (*int64, error) {
	a, ok := r.s.data.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	return a.AuthorID, nil
}

func (r memArticles) LockOwnerOf(ctx context.Context, id int64) (*int64, error) {
	return r.OwnerOf(ctx, id)
}

func (r memArticles) Update(_ context.Context, id int64, p domain.ArticlePatch) (*domain.Article, error) {
	a, ok := r.s.data.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	if p.Title.Present {
		a.Title = p.Title.Value
	}
	if p.Content.Present {
		a.Content = p.Content.Value
	}
	if p.Excerpt.Present {
		a.Excerpt = p.Excerpt.Ptr()
	}
	if p.Status.Present {
		a.Status = p.Status.Value
	}
	if p.IsBreaking.Present {
		a.IsBreaking = p.IsBreaking.Value
	}
	r.s.data.articles[id] = a
	return &a, nil
}

func (r memArticles) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.data.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.s.data.articles, id)
	delete(r.s.data.articleTags, id)
	return nil
}

func (r memArticles) bySlug(slug string) (domain.Article, bool) {
	for _, a := range r.s.data.articles {
		if a.Slug == slug {
			return a, true
		}
	}
	return domain.Article{}, false
}

func (r memArticles) GetBySlug(_ context.Context, slug string) (*domain.Article, error) {
	a, ok := r.bySlug(slug)
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	return &a, nil
}

func (r memArticles) List(_ context.Context, f domain.ArticleFilter, limit int) ([]domain.Article, error) {
	out := []domain.Article{}
	for _, a := range r.s.data.articles {
		if f.Search != nil && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(*f.Search)) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memArticles) IncrementViews(_ context.Context, slug string) (int64, error) {
	a, ok := r.bySlug(slug)
	if !ok {
		return 0, domain.ErrArticleNotFound
	}
	a.ViewsCount++
	r.s.data.articles[a.ID] = a
	return a.ViewsCount, nil
}

func (r memArticles) ViewCount(_ context.Context, slug string) (int64, error) {
	a, ok := r.bySlug(slug)
	if !ok {
		return 0, domain.ErrArticleNotFound
	}
	return a.ViewsCount, nil
}

func (r memArticles) ClearTags(_ context.Context, articleID int64) error {
	delete(r.s.data.articleTags, articleID)
	return nil
}

func (r memArticles) AddTag(_ context.Context, articleID int64, tagID int32) error {
	if _, ok := r.s.data.tags[tagID]; !ok {
		return domain.ErrUnknownTag
	}
	set, ok := r.s.data.articleTags[articleID]
	if !ok {
		set = map[int32]struct{}{}
		r.s.data.articleTags[articleID] = set
	}
	set[tagID] = struct{}{}
	return nil
}

func (r memArticles) TagsOf(_ context.Context, slug string) ([]domain.Tag, error) {
	a, ok := r.bySlug(slug)
	if !ok {
		return []domain.Tag{}, nil
	}
	tags := []domain.Tag{}
	for _, id := range r.s.tagSet(a.ID) {
		tags = append(tags, r.s.data.tags[id])
	}
	return tags, nil
}

type memTags struct{ s *memStore }

func (r memTags) List(context.Context) ([]domain.Tag, error) {
	out := []domain.Tag{}
	for _, t := range r.s.data.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memTags) Create(_ context.Context, name, slug string) (*domain.Tag, error) {
	for _, t := range r.s.data.tags {
		if t.Slug == slug {
			return nil, domain.ErrTagExists
		}
	}
	t := domain.Tag{ID: int32(r.s.next()), Name: name, Slug: slug}
	r.s.data.tags[t.ID] = t
	return &t, nil
}

func (r memTags) Delete(_ context.Context, id int32) error {
	if _, ok := r.s.data.tags[id]; !ok {
		return domain.ErrTagNotFound
	}
	delete(r.s.data.tags, id)
	return nil
}

type memCategories struct{ s *memStore }

func (r memCategories) List(context.Context) ([]domain.Category, error) {
	return append([]domain.Category{}, r.s.data.categories...), nil
}

func (r memCategories) Create(_ context.Context, name, slug string, description *string) (*domain.Category, error) {
	c := domain.Category{ID: int32(r.s.next()), Name: name, Slug: slug, Description: description}
	r.s.data.categories = append(r.s.data.categories, c)
	return &c, nil
}

type memSite struct{ s *memStore }

func (r memSite) Get(context.Context) (*domain.SiteConfig, error) {
	if r.s.data.site == nil {
		return nil, domain.ErrNotFound
	}
	c := *r.s.data.site
	return &c, nil
}

func (r memSite) Save(_ context.Context, p domain.SiteConfigPatch) (*domain.SiteConfig, error) {
	base := domain.DefaultSiteConfig()
	if r.s.data.site != nil {
		base = *r.s.data.site
	}
	cfg := p.Apply(base)
	r.s.data.site = &cfg
	return &cfg, nil
}

// recorder captures audit records.
type recorder struct {
	mu      sync.Mutex
	records []domain.MutationRecord
}

func (r *recorder) Record(_ context.Context, rec domain.MutationRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *recorder) last() domain.MutationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.records) == 0 {
		return domain.MutationRecord{}
	}
	return r.records[len(r.records)-1]
}

// plainHasher is a fast, reversible stand-in for bcrypt.
type plainHasher struct {
	failHash bool
}

func (h plainHasher) Hash(secret string) (string, error) {
	if h.failHash {
		return "", errors.New("entropy exhausted")
	}
	return "hashed:" + secret, nil
}

func (h plainHasher) Verify(secret, digest string) bool {
	return digest == "hashed:"+secret
}

// fakeTokens encodes identities as "<id>|<role>" and decodes them back.
type fakeTokens struct{}

func (fakeTokens) Issue(id domain.Identity) (string, domain.Identity, error) {
	now := time.Now().UTC().Truncate(time.Second)
	id.IssuedAt = now
	id.ExpiresAt = now.Add(24 * time.Hour)
	return id.Subject + "|" + string(id.Role), id, nil
}

func (fakeTokens) Decode(string) (*domain.Identity, error) {
	return nil, domain.ErrUnauthenticated
}

func as(id int64, role domain.Role) policy.Credential {
	return policy.Verified(&domain.Identity{Subject: "user", UserID: id, Role: role})
}
