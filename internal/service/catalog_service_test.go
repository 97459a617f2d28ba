package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/umrah-booking/internal/cache"
	"github.com/iliyamo/umrah-booking/internal/model"
	"github.com/iliyamo/umrah-booking/internal/repository"
)

type memPackages struct {
	byID     map[string]model.Package
	searches int
}

func (m *memPackages) Create(_ context.Context, p *model.Package) error {
	for _, cur := range m.byID {
		if cur.Slug == p.Slug {
			return repository.ErrConflict
		}
	}
	p.ID = "pkg-" + p.Slug
	m.byID[p.ID] = *p
	return nil
}

func (m *memPackages) Update(_ context.Context, p *model.Package) error {
	if _, ok := m.byID[p.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[p.ID] = *p
	return nil
}

func (m *memPackages) GetByID(_ context.Context, id string) (*model.Package, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memPackages) GetBySlug(_ context.Context, slug string) (*model.Package, error) {
	for _, p := range m.byID {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPackages) ListAll(context.Context) ([]model.Package, error) {
	out := []model.Package{}
	for _, p := range m.byID {
		out = append(out, p)
	}
	return out, nil
}

func (m *memPackages) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memPackages) SearchPublished(_ context.Context, f model.PackageFilter) ([]model.Package, int64, error) {
	m.searches++
	out := []model.Package{}
	for _, p := range m.byID {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, int64(len(out)), nil
}

// staticFinder answers Find by matching the first Args value against a
// package id; a filter with no args returns the general records.
type staticFinder[T any] struct {
	byPackage map[string][]T
	general   []T
	filters   []repository.Filter
}

func (s *staticFinder[T]) Find(_ context.Context, f repository.Filter) ([]T, error) {
	s.filters = append(s.filters, f)
	if len(f.Args) == 0 {
		return s.general, nil
	}
	return s.byPackage[f.Args[0].(string)], nil
}

type settingsMap map[string]string

func (s settingsMap) Get(_ context.Context, key string) (string, error) {
	v, ok := s[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func newCatalog() (*CatalogService, *memPackages, *staticFinder[model.Testimonial]) {
	pkgs := &memPackages{byID: map[string]model.Package{
		"p1": {ID: "p1", Slug: "gold-umrah", Title: "Gold Umrah", Published: true, TotalSeats: 40, SeatsBooked: 35, ShowScarcity: true},
		"p2": {ID: "p2", Slug: "draft", Title: "Draft", Published: false},
	}}
	faqs := &staticFinder[model.PackageFAQ]{byPackage: map[string][]model.PackageFAQ{
		"p1": {{ID: "f1", PackageID: "p1", Question: "Visa?", Answer: "Included"}},
	}}
	testimonials := &staticFinder[model.Testimonial]{
		general: []model.Testimonial{{ID: "t-general", Name: "Zaid", Text: "Great", Published: true}},
	}
	svc := NewCatalogService(pkgs, faqs, testimonials, settingsMap{model.HeaderPhoneKey: "+91 98765-43210"}, cache.New(nil, "test"), time.Minute)
	return svc, pkgs, testimonials
}

func TestGetBySlugOrID(t *testing.T) {
	svc, _, testimonials := newCatalog()
	for _, key := range []string{"gold-umrah", "p1"} {
		d, err := svc.GetBySlugOrID(context.Background(), key)
		if err != nil {
			t.Fatalf("GetBySlugOrID(%s): %v", key, err)
		}
		if d.ID != "p1" || len(d.FAQs) != 1 || d.SeatsLeft != 5 || !d.Scarce {
			t.Fatalf("unexpected detail %+v", d)
		}
		if d.WhatsAppNumber != "919876543210" {
			t.Fatalf("whatsapp = %q", d.WhatsAppNumber)
		}
		if len(d.Testimonials) != 1 || d.Testimonials[0].ID != "t-general" {
			t.Fatalf("expected general testimonial fallback, got %+v", d.Testimonials)
		}
	}
	last := testimonials.filters[len(testimonials.filters)-1]
	if last.Where != "package_id IS NULL" || last.Limit != relatedLimit || !last.PublishedOnly {
		t.Fatalf("fallback filter = %+v", last)
	}
}

func TestGetBySlugOrIDHidesDrafts(t *testing.T) {
	svc, _, _ := newCatalog()
	for _, key := range []string{"draft", "missing"} {
		if _, err := svc.GetBySlugOrID(context.Background(), key); !IsNotFound(err) {
			t.Fatalf("%s: expected NotFoundError, got %v", key, err)
		}
	}
	if p, err := svc.GetAny(context.Background(), "draft"); err != nil || p.ID != "p2" {
		t.Fatalf("GetAny(draft) = %v, %v", p, err)
	}
}

func TestPackageDetailIgnoresPublishFlag(t *testing.T) {
	svc, _, testimonials := newCatalog()
	testimonials.byPackage = map[string][]model.Testimonial{"p2": {{ID: "t-p2", Name: "Aisha", Text: "Smooth trip", Published: true}}}

	d, err := svc.PackageDetail(context.Background(), "p2")
	if err != nil {
		t.Fatalf("PackageDetail(draft): %v", err)
	}
	if d.ID != "p2" || len(d.Testimonials) != 1 || d.Testimonials[0].ID != "t-p2" {
		t.Fatalf("unexpected detail %+v", d)
	}
	if _, err := svc.PackageDetail(context.Background(), "missing"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestListPublished(t *testing.T) {
	svc, pkgs, _ := newCatalog()
	page, err := svc.ListPublished(context.Background(), model.PackageFilter{PageSize: 500})
	if err != nil {
		t.Fatalf("ListPublished: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Page != 1 || page.PageSize != 12 {
		t.Fatalf("unexpected page %+v", page)
	}
	if pkgs.searches != 1 {
		t.Fatalf("searches = %d", pkgs.searches)
	}
}

func TestSavePackage(t *testing.T) {
	svc, pkgs, _ := newCatalog()
	in := model.PackageInput{Package: model.Package{Title: "Premium Umrah Experience!", Duration: "14 days"}}
	p, err := svc.SavePackage(context.Background(), "", in)
	if err != nil {
		t.Fatalf("SavePackage: %v", err)
	}
	if p.Slug != "premium-umrah-experience" || p.TotalSeats != model.DefaultTotalSeats {
		t.Fatalf("unexpected package %+v", p)
	}
	if _, ok := pkgs.byID[p.ID]; !ok {
		t.Fatalf("package not stored")
	}

	if _, err := svc.SavePackage(context.Background(), "", in); !IsConflict(err) {
		t.Fatalf("expected ConflictError on duplicate slug, got %v", err)
	}

	custom := model.PackageInput{Package: model.Package{Title: "Other", Slug: "my-slug", Duration: "7 days"}}
	if p, err := svc.SavePackage(context.Background(), "", custom); err != nil || p.Slug != "my-slug" {
		t.Fatalf("explicit slug not kept: %v, %v", p, err)
	}
}

func TestSavePackageValidation(t *testing.T) {
	svc, _, _ := newCatalog()
	cases := map[string]model.Package{
		"title":    {Duration: "7 days"},
		"duration": {Title: "X"},
		"price":    {Title: "X", Duration: "7", Price: dec("-1")},
		"seats":    {Title: "X", Duration: "7", SeatsBooked: -1},
		"slug":     {Title: "!!!", Duration: "7"},
	}
	for name, p := range cases {
		_, err := svc.SavePackage(context.Background(), "", model.PackageInput{Package: p})
		if !IsValidation(err) {
			t.Fatalf("%s: expected ValidationError, got %v", name, err)
		}
		if name == "slug" && !strings.Contains(err.Error(), "slug") {
			t.Fatalf("unexpected message %q", err.Error())
		}
	}
}

func TestDeletePackage(t *testing.T) {
	svc, _, _ := newCatalog()
	if err := svc.DeletePackage(context.Background(), "p2"); err != nil {
		t.Fatalf("DeletePackage: %v", err)
	}
	if err := svc.DeletePackage(context.Background(), "p2"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
