package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"github.com/iliyamo/umrah-booking/internal/model"
	"github.com/iliyamo/umrah-booking/internal/repository"
	"github.com/iliyamo/umrah-booking/internal/utils"
)

// md renders stored Markdown. Raw HTML in the source is dropped.
var md = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// RenderMarkdown converts Markdown to HTML, returning "" on failure.
func RenderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		log.Printf("content: markdown render failed: %v", err)
		return ""
	}
	return buf.String()
}

// Record is any content type that can check its own fields.
type Record interface {
	Validate() error
}

// Records is the persistence behind a Collection; RecordRepo implements it.
type Records[T any] interface {
	Name() string
	Find(ctx context.Context, f repository.Filter) ([]T, error)
	Get(ctx context.Context, id string) (*T, error)
	GetBy(ctx context.Context, column, value string, publishedOnly bool) (*T, error)
	Create(ctx context.Context, rec *T) (*T, error)
	Update(ctx context.Context, id string, rec *T) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Collection is the CRUD service shared by every content type. prepare
// runs before validation on writes; render decorates records on reads.
type Collection[T Record] struct {
	repo    Records[T]
	prepare func(*T)
	render  func(*T)
}

func NewCollection[T Record](repo Records[T]) *Collection[T] {
	return &Collection[T]{repo: repo}
}

func (c *Collection[T]) resource() string {
	return strings.TrimSuffix(strings.ReplaceAll(c.repo.Name(), "_", " "), "s")
}

func (c *Collection[T]) decorate(rec *T) *T {
	if c.render != nil && rec != nil {
		c.render(rec)
	}
	return rec
}

// List returns every record, or only published ones for public reads.
func (c *Collection[T]) List(ctx context.Context, publishedOnly bool) ([]T, error) {
	return c.Find(ctx, repository.Filter{PublishedOnly: publishedOnly})
}

func (c *Collection[T]) Find(ctx context.Context, f repository.Filter) ([]T, error) {
	out, err := c.repo.Find(ctx, f)
	if err != nil {
		return nil, storeErr("list "+c.repo.Name(), err)
	}
	for i := range out {
		c.decorate(&out[i])
	}
	return out, nil
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	rec, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, classify("load "+c.repo.Name(), c.resource(), err)
	}
	return c.decorate(rec), nil
}

// GetBySlug is used by pages and blog posts.
func (c *Collection[T]) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*T, error) {
	rec, err := c.repo.GetBy(ctx, "slug", strings.TrimSpace(slug), publishedOnly)
	if err != nil {
		return nil, classify("load "+c.repo.Name(), c.resource(), err)
	}
	return c.decorate(rec), nil
}

func (c *Collection[T]) Create(ctx context.Context, rec *T) (*T, error) {
	if err := c.check(rec); err != nil {
		return nil, err
	}
	out, err := c.repo.Create(ctx, rec)
	if err != nil {
		return nil, classify("create "+c.repo.Name(), c.resource(), err)
	}
	return c.decorate(out), nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, rec *T) (*T, error) {
	if err := c.check(rec); err != nil {
		return nil, err
	}
	out, err := c.repo.Update(ctx, id, rec)
	if err != nil {
		return nil, classify("update "+c.repo.Name(), c.resource(), err)
	}
	return c.decorate(out), nil
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return classify("delete "+c.repo.Name(), c.resource(), err)
	}
	return nil
}

func (c *Collection[T]) check(rec *T) error {
	if rec == nil {
		return invalid("", "body is required")
	}
	if c.prepare != nil {
		c.prepare(rec)
	}
	if err := (*rec).Validate(); err != nil {
		return invalid("", err.Error())
	}
	return nil
}

// SettingsStore persists site settings.
type SettingsStore interface {
	List(ctx context.Context) ([]model.Setting, error)
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, settings []model.Setting) error
}

// ContentService groups the marketing collections and site settings.
type ContentService struct {
	FAQs         *Collection[model.GeneralFAQ]
	PackageFAQs  *Collection[model.PackageFAQ]
	Quotes       *Collection[model.IslamicQuote]
	Testimonials *Collection[model.Testimonial]
	TrustBadges  *Collection[model.TrustBadge]
	Pages        *Collection[model.Page]
	Blog         *Collection[model.BlogPost]

	settings SettingsStore
}

// ContentRepos bundles the repositories a ContentService is built from.
type ContentRepos struct {
	FAQs         Records[model.GeneralFAQ]
	PackageFAQs  Records[model.PackageFAQ]
	Quotes       Records[model.IslamicQuote]
	Testimonials Records[model.Testimonial]
	TrustBadges  Records[model.TrustBadge]
	Pages        Records[model.Page]
	Blog         Records[model.BlogPost]
	Settings     SettingsStore
}

func NewContentService(r ContentRepos) *ContentService {
	pages := NewCollection(r.Pages)
	pages.prepare = func(p *model.Page) {
		p.Title = strings.TrimSpace(p.Title)
		if p.Slug = strings.TrimSpace(p.Slug); p.Slug == "" {
			p.Slug = utils.Slugify(p.Title)
		}
	}
	pages.render = func(p *model.Page) { p.ContentHTML = RenderMarkdown(p.Content) }

	blog := NewCollection(r.Blog)
	blog.prepare = func(p *model.BlogPost) {
		p.Title = strings.TrimSpace(p.Title)
		if p.Slug = strings.TrimSpace(p.Slug); p.Slug == "" {
			p.Slug = utils.Slugify(p.Title)
		}
		if p.Tags == nil {
			p.Tags = model.JSONList[string]{}
		}
	}
	blog.render = func(p *model.BlogPost) { p.ContentHTML = RenderMarkdown(p.Content) }

	return &ContentService{
		FAQs:         NewCollection(r.FAQs),
		PackageFAQs:  NewCollection(r.PackageFAQs),
		Quotes:       NewCollection(r.Quotes),
		Testimonials: NewCollection(r.Testimonials),
		TrustBadges:  NewCollection(r.TrustBadges),
		Pages:        pages,
		Blog:         blog,
		settings:     r.Settings,
	}
}

// FAQsForPackage lists the questions attached to one package.
func (s *ContentService) FAQsForPackage(ctx context.Context, packageID string) ([]model.PackageFAQ, error) {
	return s.PackageFAQs.Find(ctx, repository.Filter{Where: "package_id = ?", Args: []any{packageID}})
}

// Settings returns all site settings as a key/value map.
func (s *ContentService) Settings(ctx context.Context) (map[string]string, error) {
	list, err := s.settings.List(ctx)
	if err != nil {
		return nil, storeErr("list settings", err)
	}
	out := make(map[string]string, len(list))
	for _, st := range list {
		out[st.Key] = st.Value
	}
	return out, nil
}

// Setting returns one value or a NotFoundError.
func (s *ContentService) Setting(ctx context.Context, key string) (string, error) {
	v, err := s.settings.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return "", notFound("setting")
	}
	if err != nil {
		return "", storeErr("read setting", err)
	}
	return v, nil
}

// SaveSettings upserts every pair in one transaction.
func (s *ContentService) SaveSettings(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return invalid("settings", "at least one key is required")
	}
	list := make([]model.Setting, 0, len(values))
	for k, v := range values {
		k = strings.TrimSpace(k)
		if k == "" {
			return invalid("key", "must not be empty")
		}
		if len(k) > 100 {
			return invalid("key", "must be at most 100 characters")
		}
		list = append(list, model.Setting{Key: k, Value: v})
	}
	if err := s.settings.Upsert(ctx, list); err != nil {
		return storeErr("save settings", err)
	}
	return nil
}
