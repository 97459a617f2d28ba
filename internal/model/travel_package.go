package model

import (
    "database/sql/driver"
    "encoding/json"
    "errors"
    "strconv"
    "strings"
    "time"

    "github.com/shopspring/decimal"
)

// DefaultTotalSeats is the capacity assumed when a package has none set.
const DefaultTotalSeats = 50

// ScarcityThreshold is the seats-left count at or below which the catalog
// shows a "few seats left" badge on packages that opt in.
const ScarcityThreshold = 10

// JSONList stores a slice in a MySQL JSON column.
type JSONList[T any] []T

// Value implements driver.Valuer.
func (l JSONList[T]) Value() (driver.Value, error) {
    if l == nil {
        return "[]", nil
    }
    b, err := json.Marshal([]T(l))
    if err != nil {
        return nil, err
    }
    return string(b), nil
}

// Scan implements sql.Scanner. NULL decodes to an empty list.
func (l *JSONList[T]) Scan(src any) error {
    var raw []byte
    switch v := src.(type) {
    case nil:
        *l = JSONList[T]{}
        return nil
    case []byte:
        raw = v
    case string:
        raw = []byte(v)
    default:
        return errors.New("jsonlist: unsupported source type")
    }
    if len(raw) == 0 {
        *l = JSONList[T]{}
        return nil
    }
    var out []T
    if err := json.Unmarshal(raw, &out); err != nil {
        return err
    }
    *l = out
    return nil
}

// ItineraryDay is one day of a package's travel plan.
type ItineraryDay struct {
    Day         int    `json:"day"`
    Title       string `json:"title"`
    Description string `json:"description"`
}

// Package is a catalog entry in the `packages` table.
type Package struct {
    ID                 string                 `json:"id"`
    Title              string                 `json:"title"`
    Slug               string                 `json:"slug"`
    Duration           string                 `json:"duration"`
    Price              decimal.Decimal        `json:"price"`
    OriginalPrice      *decimal.Decimal       `json:"original_price"`
    EarlyBirdPrice     *decimal.Decimal       `json:"early_bird_price"`
    EarlyBirdEndDate   *time.Time             `json:"early_bird_end_date"`
    Overview           *string                `json:"overview"`
    CoverImage         *string                `json:"cover_image"`
    HotelMakkah        *string                `json:"hotel_makkah"`
    HotelMadinah       *string                `json:"hotel_madinah"`
    DistanceMakkah     *string                `json:"distance_makkah"`
    DistanceMadinah    *string                `json:"distance_madinah"`
    DirectFlight       bool                   `json:"direct_flight"`
    FiveStar           bool                   `json:"five_star"`
    MealsIncluded      bool                   `json:"meals_included"`
    VisaIncluded       bool                   `json:"visa_included"`
    Featured           bool                   `json:"featured"`
    Published          bool                   `json:"published"`
    ShowScarcity       bool                   `json:"show_scarcity"`
    Rating             *decimal.Decimal       `json:"rating"`
    TotalSeats         int                    `json:"total_seats"`
    SeatsBooked        int                    `json:"seats_booked"`
    Itinerary          JSONList[ItineraryDay] `json:"itinerary"`
    Included           JSONList[string]       `json:"included"`
    NotIncluded        JSONList[string]       `json:"not_included"`
    CancellationPolicy *string                `json:"cancellation_policy"`
    RefundPolicy       *string                `json:"refund_policy"`
    DepartureDates     JSONList[string]       `json:"departure_dates"`
    DepartureNote      *string                `json:"departure_note"`
    CreatedAt          time.Time              `json:"created_at"`
    UpdatedAt          time.Time              `json:"updated_at"`
}

// SeatsLeft returns remaining capacity, never negative.
func (p Package) SeatsLeft() int {
    total := p.TotalSeats
    if total <= 0 {
        total = DefaultTotalSeats
    }
    left := total - p.SeatsBooked
    if left < 0 {
        return 0
    }
    return left
}

// Scarce reports whether the scarcity badge should be shown.
func (p Package) Scarce() bool {
    return p.ShowScarcity && p.SeatsLeft() <= ScarcityThreshold
}

// PackageInput is the admin payload for creating or editing a package.
// It reuses the Package shape; server-managed fields are ignored.
type PackageInput struct {
    Package
}

// Normalize trims text fields and applies catalog defaults.
func (in *PackageInput) Normalize() {
    in.Title = strings.TrimSpace(in.Title)
    in.Slug = strings.TrimSpace(in.Slug)
    in.Duration = strings.TrimSpace(in.Duration)
    if in.TotalSeats == 0 {
        in.TotalSeats = DefaultTotalSeats
    }
}

// PackageFilter narrows the public catalog listing.
type PackageFilter struct {
    Query      string // case-insensitive title match
    PriceRange string // under-100k | 100k-200k | 200k-350k | 350k-plus
    Star       string // 5star
    Flight     string // direct
    Featured   bool
    Page       int
    PageSize   int
}

// Normalize clamps paging to sane bounds.
func (f *PackageFilter) Normalize() {
    f.Query = strings.TrimSpace(f.Query)
    if f.Page < 1 {
        f.Page = 1
    }
    if f.PageSize < 1 || f.PageSize > 50 {
        f.PageSize = 12
    }
}

// Key renders a stable cache key fragment for the filter.
func (f PackageFilter) Key() string {
    feat := "0"
    if f.Featured {
        feat = "1"
    }
    return strings.Join([]string{strings.ToLower(f.Query), f.PriceRange, f.Star, f.Flight, feat,
        strconv.Itoa(f.Page), strconv.Itoa(f.PageSize)}, "|")
}

// PackagePage is one page of catalog results.
type PackagePage struct {
    Items    []PackageView `json:"items"`
    Total    int64         `json:"total"`
    Page     int           `json:"page"`
    PageSize int           `json:"page_size"`
}

// PackageView is the public representation with derived catalog fields.
type PackageView struct {
    Package
    SeatsLeft int  `json:"seats_left"`
    Scarce    bool `json:"scarce"`
}

// NewPackageView decorates p with its derived fields.
func NewPackageView(p Package) PackageView {
    return PackageView{Package: p, SeatsLeft: p.SeatsLeft(), Scarce: p.Scarce()}
}

// PackageDetail bundles everything the public detail page shows.
type PackageDetail struct {
    PackageView
    FAQs           []PackageFAQ  `json:"faqs"`
    Testimonials   []Testimonial `json:"testimonials"`
    WhatsAppNumber string        `json:"whatsapp_number,omitempty"`
}
