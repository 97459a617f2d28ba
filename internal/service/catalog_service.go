package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/umrah-booking/internal/cache"
	"github.com/iliyamo/umrah-booking/internal/model"
	"github.com/iliyamo/umrah-booking/internal/repository"
	"github.com/iliyamo/umrah-booking/internal/utils"
)

// PackageStore is the package persistence the catalog needs.
type PackageStore interface {
	Create(ctx context.Context, p *model.Package) error
	Update(ctx context.Context, p *model.Package) error
	GetByID(ctx context.Context, id string) (*model.Package, error)
	GetBySlug(ctx context.Context, slug string) (*model.Package, error)
	ListAll(ctx context.Context) ([]model.Package, error)
	Delete(ctx context.Context, id string) error
	SearchPublished(ctx context.Context, f model.PackageFilter) ([]model.Package, int64, error)
}

// RecordFinder is the read side of a RecordRepo.
type RecordFinder[T any] interface {
	Find(ctx context.Context, f repository.Filter) ([]T, error)
}

// SettingsReader reads one site setting.
type SettingsReader interface {
	Get(ctx context.Context, key string) (string, error)
}

var five = decimal.NewFromInt(5)

// relatedLimit caps the testimonials shown on a package page.
const relatedLimit = 6

// CatalogService serves the public package catalog and the admin package
// editor. Published listings are cached in Redis when available.
type CatalogService struct {
	packages     PackageStore
	faqs         RecordFinder[model.PackageFAQ]
	testimonials RecordFinder[model.Testimonial]
	settings     SettingsReader
	cache        *cache.RedisCache
	ttl          time.Duration
}

func NewCatalogService(packages PackageStore, faqs RecordFinder[model.PackageFAQ], testimonials RecordFinder[model.Testimonial],
	settings SettingsReader, c *cache.RedisCache, ttl time.Duration) *CatalogService {
	return &CatalogService{packages: packages, faqs: faqs, testimonials: testimonials, settings: settings, cache: c, ttl: ttl}
}

// ListPublished returns one page of published packages.
func (s *CatalogService) ListPublished(ctx context.Context, f model.PackageFilter) (model.PackagePage, error) {
	f.Normalize()
	page, err := cache.GetOrSet(ctx, s.cache, "packages:"+f.Key(), s.ttl, func() (model.PackagePage, error) {
		items, total, err := s.packages.SearchPublished(ctx, f)
		if err != nil {
			return model.PackagePage{}, err
		}
		views := make([]model.PackageView, 0, len(items))
		for _, p := range items {
			views = append(views, model.NewPackageView(p))
		}
		return model.PackagePage{Items: views, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
	})
	if err != nil {
		return model.PackagePage{}, storeErr("search packages", err)
	}
	return page, nil
}

// GetBySlugOrID resolves key as a slug first and then as an id. Unpublished
// packages are invisible to the public.
func (s *CatalogService) GetBySlugOrID(ctx context.Context, key string) (*model.PackageDetail, error) {
	p, err := s.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if !p.Published {
		return nil, notFound("package")
	}
	return s.detail(ctx, p)
}

// PackageDetail loads the package a booking refers to, with its FAQs and
// testimonials. The publish flag is ignored: a customer keeps seeing the
// package they booked after it is withdrawn from the catalog.
func (s *CatalogService) PackageDetail(ctx context.Context, id string) (*model.PackageDetail, error) {
	p, err := s.packages.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, classify("load package", "package", err)
	}
	return s.detail(ctx, p)
}

func (s *CatalogService) detail(ctx context.Context, p *model.Package) (*model.PackageDetail, error) {
	var err error
	d := &model.PackageDetail{PackageView: model.NewPackageView(*p)}
	if d.FAQs, err = s.faqs.Find(ctx, repository.Filter{Where: "package_id = ?", Args: []any{p.ID}}); err != nil {
		return nil, storeErr("list package faqs", err)
	}
	if d.Testimonials, err = s.relatedTestimonials(ctx, p.ID); err != nil {
		return nil, err
	}
	d.WhatsAppNumber = s.whatsAppNumber(ctx)
	return d, nil
}

// GetAny returns a package for the admin editor regardless of its flag.
func (s *CatalogService) GetAny(ctx context.Context, key string) (*model.Package, error) {
	return s.lookup(ctx, key)
}

func (s *CatalogService) lookup(ctx context.Context, key string) (*model.Package, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, invalid("key", "is required")
	}
	p, err := s.packages.GetBySlug(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		p, err = s.packages.GetByID(ctx, key)
	}
	if err != nil {
		return nil, classify("load package", "package", err)
	}
	return p, nil
}

// relatedTestimonials prefers reviews of the package itself and falls back
// to the newest general ones.
func (s *CatalogService) relatedTestimonials(ctx context.Context, packageID string) ([]model.Testimonial, error) {
	out, err := s.testimonials.Find(ctx, repository.Filter{
		Where: "package_id = ?", Args: []any{packageID}, PublishedOnly: true, Limit: relatedLimit,
	})
	if err != nil {
		return nil, storeErr("list testimonials", err)
	}
	if len(out) > 0 {
		return out, nil
	}
	out, err = s.testimonials.Find(ctx, repository.Filter{Where: "package_id IS NULL", PublishedOnly: true, Limit: relatedLimit})
	if err != nil {
		return nil, storeErr("list testimonials", err)
	}
	return out, nil
}

func (s *CatalogService) whatsAppNumber(ctx context.Context) string {
	if s.settings == nil {
		return ""
	}
	phone, err := s.settings.Get(ctx, model.HeaderPhoneKey)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("catalog: read %s failed: %v", model.HeaderPhoneKey, err)
		}
		return ""
	}
	return utils.DigitsOnly(phone)
}

// ListAll is the admin listing, unpublished packages included.
func (s *CatalogService) ListAll(ctx context.Context) ([]model.PackageView, error) {
	items, err := s.packages.ListAll(ctx)
	if err != nil {
		return nil, storeErr("list packages", err)
	}
	out := make([]model.PackageView, 0, len(items))
	for _, p := range items {
		out = append(out, model.NewPackageView(p))
	}
	return out, nil
}

// SavePackage creates the package when id is empty and updates it
// otherwise. A blank slug is generated from the title.
func (s *CatalogService) SavePackage(ctx context.Context, id string, in model.PackageInput) (*model.Package, error) {
	in.Normalize()
	if in.Title == "" {
		return nil, invalid("title", "is required")
	}
	if in.Duration == "" {
		return nil, invalid("duration", "is required")
	}
	if in.Price.IsNegative() {
		return nil, invalid("price", "must not be negative")
	}
	if in.TotalSeats < 0 || in.SeatsBooked < 0 {
		return nil, invalid("total_seats", "seat counts must not be negative")
	}
	if in.Rating != nil && (in.Rating.IsNegative() || in.Rating.GreaterThan(five)) {
		return nil, invalid("rating", "must be between 0 and 5")
	}
	if in.Slug == "" {
		in.Slug = utils.Slugify(in.Title)
		if in.Slug == "" {
			return nil, invalid("slug", "could not be derived from the title")
		}
	}

	p := in.Package
	var err error
	if id == "" {
		err = s.packages.Create(ctx, &p)
	} else {
		p.ID = id
		err = s.packages.Update(ctx, &p)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, &ConflictError{Msg: "slug already in use"}
		}
		return nil, classify("save package", "package", err)
	}
	s.invalidate(ctx)
	return &p, nil
}

// DeletePackage removes a package. Bookings referencing it keep their row
// with the package cleared.
func (s *CatalogService) DeletePackage(ctx context.Context, id string) error {
	if err := s.packages.Delete(ctx, id); err != nil {
		return classify("delete package", "package", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if err := s.cache.Purge(ctx); err != nil {
		log.Printf("catalog: cache purge failed: %v", err)
	}
}
