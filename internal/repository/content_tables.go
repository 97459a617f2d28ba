package repository

import "github.com/iliyamo/umrah-booking/internal/model"

// Table descriptors for the content collections served by RecordRepo.

var GeneralFAQTable = Table[model.GeneralFAQ]{
	Name:      "general_faqs",
	Columns:   []string{"question", "answer", "sort_order", "published"},
	OrderBy:   "sort_order, created_at",
	Published: "published",
	Args: func(f *model.GeneralFAQ) []any {
		return []any{f.Question, f.Answer, f.SortOrder, f.Published}
	},
	Dest: func(f *model.GeneralFAQ) []any {
		return []any{&f.ID, &f.Question, &f.Answer, &f.SortOrder, &f.Published, &f.CreatedAt}
	},
	SetID: func(f *model.GeneralFAQ, id string) { f.ID = id },
}

var PackageFAQTable = Table[model.PackageFAQ]{
	Name:    "package_faqs",
	Columns: []string{"package_id", "question", "answer", "sort_order"},
	OrderBy: "sort_order, created_at",
	Args: func(f *model.PackageFAQ) []any {
		return []any{f.PackageID, f.Question, f.Answer, f.SortOrder}
	},
	Dest: func(f *model.PackageFAQ) []any {
		return []any{&f.ID, &f.PackageID, &f.Question, &f.Answer, &f.SortOrder, &f.CreatedAt}
	},
	SetID: func(f *model.PackageFAQ, id string) { f.ID = id },
}

var QuoteTable = Table[model.IslamicQuote]{
	Name:      "islamic_quotes",
	Columns:   []string{"text", "source", "published"},
	OrderBy:   "created_at DESC",
	Published: "published",
	Args: func(q *model.IslamicQuote) []any {
		return []any{q.Text, q.Source, q.Published}
	},
	Dest: func(q *model.IslamicQuote) []any {
		return []any{&q.ID, &q.Text, &q.Source, &q.Published, &q.CreatedAt}
	},
	SetID: func(q *model.IslamicQuote, id string) { q.ID = id },
}

var TestimonialTable = Table[model.Testimonial]{
	Name:      "testimonials",
	Columns:   []string{"name", "text", "location", "rating", "is_video", "video_url", "package_id", "published"},
	OrderBy:   "created_at DESC",
	Published: "published",
	Args: func(t *model.Testimonial) []any {
		return []any{t.Name, t.Text, t.Location, t.Rating, t.IsVideo, t.VideoURL, t.PackageID, t.Published}
	},
	Dest: func(t *model.Testimonial) []any {
		return []any{&t.ID, &t.Name, &t.Text, &t.Location, &t.Rating, &t.IsVideo, &t.VideoURL, &t.PackageID, &t.Published, &t.CreatedAt}
	},
	SetID: func(t *model.Testimonial, id string) { t.ID = id },
}

var TrustBadgeTable = Table[model.TrustBadge]{
	Name:      "trust_badges",
	Columns:   []string{"category", "title", "description", "icon", "image_url", "sort_order", "published"},
	OrderBy:   "category, sort_order",
	Published: "published",
	Args: func(b *model.TrustBadge) []any {
		return []any{b.Category, b.Title, b.Description, b.Icon, b.ImageURL, b.SortOrder, b.Published}
	},
	Dest: func(b *model.TrustBadge) []any {
		return []any{&b.ID, &b.Category, &b.Title, &b.Description, &b.Icon, &b.ImageURL, &b.SortOrder, &b.Published, &b.CreatedAt}
	},
	SetID: func(b *model.TrustBadge, id string) { b.ID = id },
}

var PageTable = Table[model.Page]{
	Name:      "pages",
	Columns:   []string{"slug", "title", "content", "meta_title", "meta_description", "published"},
	OrderBy:   "title",
	Published: "published",
	Args: func(p *model.Page) []any {
		return []any{p.Slug, p.Title, p.Content, p.MetaTitle, p.MetaDescription, p.Published}
	},
	Dest: func(p *model.Page) []any {
		return []any{&p.ID, &p.Slug, &p.Title, &p.Content, &p.MetaTitle, &p.MetaDescription, &p.Published, &p.CreatedAt}
	},
	SetID: func(p *model.Page, id string) { p.ID = id },
}

var BlogTable = Table[model.BlogPost]{
	Name: "blog_posts",
	Columns: []string{"slug", "title", "content", "excerpt", "category", "tags", "featured_image",
		"meta_title", "meta_description", "published"},
	OrderBy:   "created_at DESC",
	Published: "published",
	Args: func(p *model.BlogPost) []any {
		return []any{p.Slug, p.Title, p.Content, p.Excerpt, p.Category, p.Tags, p.FeaturedImage,
			p.MetaTitle, p.MetaDescription, p.Published}
	},
	Dest: func(p *model.BlogPost) []any {
		return []any{&p.ID, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.Category, &p.Tags, &p.FeaturedImage,
			&p.MetaTitle, &p.MetaDescription, &p.Published, &p.CreatedAt}
	},
	SetID: func(p *model.BlogPost, id string) { p.ID = id },
}
