package model

import (
    "errors"
    "strings"
    "time"
)

// The types below back the back office "content" collections. Each is a
// plain record with field-level validation and no derived state.

// GeneralFAQ is a site-wide question shown on the FAQ page.
type GeneralFAQ struct {
    ID        string    `json:"id"`
    Question  string    `json:"question"`
    Answer    string    `json:"answer"`
    SortOrder int       `json:"sort_order"`
    Published bool      `json:"published"`
    CreatedAt time.Time `json:"created_at"`
}

func (f GeneralFAQ) Validate() error {
    if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
        return errors.New("question and answer are required")
    }
    return nil
}

// PackageFAQ is a question attached to one package.
type PackageFAQ struct {
    ID        string    `json:"id"`
    PackageID string    `json:"package_id"`
    Question  string    `json:"question"`
    Answer    string    `json:"answer"`
    SortOrder int       `json:"sort_order"`
    CreatedAt time.Time `json:"created_at"`
}

func (f PackageFAQ) Validate() error {
    if strings.TrimSpace(f.PackageID) == "" {
        return errors.New("package_id is required")
    }
    if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
        return errors.New("question and answer are required")
    }
    return nil
}

// IslamicQuote is a short quotation rotated on the landing page.
type IslamicQuote struct {
    ID        string    `json:"id"`
    Text      string    `json:"text"`
    Source    *string   `json:"source"`
    Published bool      `json:"published"`
    CreatedAt time.Time `json:"created_at"`
}

func (q IslamicQuote) Validate() error {
    if strings.TrimSpace(q.Text) == "" {
        return errors.New("text is required")
    }
    return nil
}

// Testimonial is a customer review, optionally tied to a package.
type Testimonial struct {
    ID        string    `json:"id"`
    Name      string    `json:"name"`
    Text      string    `json:"text"`
    Location  *string   `json:"location"`
    Rating    int       `json:"rating"`
    IsVideo   bool      `json:"is_video"`
    VideoURL  *string   `json:"video_url"`
    PackageID *string   `json:"package_id"`
    Published bool      `json:"published"`
    CreatedAt time.Time `json:"created_at"`
}

func (t Testimonial) Validate() error {
    if strings.TrimSpace(t.Name) == "" || strings.TrimSpace(t.Text) == "" {
        return errors.New("name and text are required")
    }
    if t.Rating < 0 || t.Rating > 5 {
        return errors.New("rating must be between 0 and 5")
    }
    if t.IsVideo && (t.VideoURL == nil || strings.TrimSpace(*t.VideoURL) == "") {
        return errors.New("video_url is required for video testimonials")
    }
    return nil
}

// TrustBadge is an accreditation or partner logo.
type TrustBadge struct {
    ID          string    `json:"id"`
    Category    string    `json:"category"`
    Title       string    `json:"title"`
    Description *string   `json:"description"`
    Icon        *string   `json:"icon"`
    ImageURL    *string   `json:"image_url"`
    SortOrder   int       `json:"sort_order"`
    Published   bool      `json:"published"`
    CreatedAt   time.Time `json:"created_at"`
}

func (b TrustBadge) Validate() error {
    if strings.TrimSpace(b.Category) == "" || strings.TrimSpace(b.Title) == "" {
        return errors.New("category and title are required")
    }
    return nil
}

// Page is a static CMS page addressed by slug. Content is Markdown;
// ContentHTML is rendered on read and never stored.
type Page struct {
    ID              string    `json:"id"`
    Slug            string    `json:"slug"`
    Title           string    `json:"title"`
    Content         string    `json:"content"`
    ContentHTML     string    `json:"content_html,omitempty"`
    MetaTitle       *string   `json:"meta_title"`
    MetaDescription *string   `json:"meta_description"`
    Published       bool      `json:"published"`
    CreatedAt       time.Time `json:"created_at"`
}

func (p Page) Validate() error {
    if strings.TrimSpace(p.Title) == "" {
        return errors.New("title is required")
    }
    return validSlug(p.Slug)
}

// BlogPost is a Markdown article.
type BlogPost struct {
    ID              string           `json:"id"`
    Slug            string           `json:"slug"`
    Title           string           `json:"title"`
    Content         string           `json:"content"`
    ContentHTML     string           `json:"content_html,omitempty"`
    Excerpt         *string          `json:"excerpt"`
    Category        *string          `json:"category"`
    Tags            JSONList[string] `json:"tags"`
    FeaturedImage   *string          `json:"featured_image"`
    MetaTitle       *string          `json:"meta_title"`
    MetaDescription *string          `json:"meta_description"`
    Published       bool             `json:"published"`
    CreatedAt       time.Time        `json:"created_at"`
}

func (p BlogPost) Validate() error {
    if strings.TrimSpace(p.Title) == "" {
        return errors.New("title is required")
    }
    return validSlug(p.Slug)
}

// validSlug rejects the empty slug a title like "!!!" slugifies to; such
// a record could never be fetched by slug.
func validSlug(slug string) error {
    if strings.TrimSpace(slug) == "" {
        return errors.New("slug could not be derived from the title")
    }
    return nil
}

// Setting is one key/value row of `site_settings`.
type Setting struct {
    Key   string `json:"key"`
    Value string `json:"value"`
}

// HeaderPhoneKey holds the agency phone shown in the header and used for
// WhatsApp links.
const HeaderPhoneKey = "header_phone"
