package model

import (
    "strings"
    "time"

    "github.com/shopspring/decimal"
)

// PaymentStatus is the derived payment category of a booking.
type PaymentStatus string

const (
    PaymentPending   PaymentStatus = "pending"
    PaymentPartial   PaymentStatus = "partial"
    PaymentCompleted PaymentStatus = "completed"
)

// BookingStatus is the operational state of a booking as set by staff.
type BookingStatus string

const (
    BookingConfirmed  BookingStatus = "confirmed"
    BookingInProgress BookingStatus = "in_progress"
    BookingCompleted  BookingStatus = "completed"
    BookingCancelled  BookingStatus = "cancelled"
)

// Valid reports whether s is one of the known booking states.
func (s BookingStatus) Valid() bool {
    switch s {
    case BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
        return true
    }
    return false
}

// Booking represents a customer's reserved package instance as stored in
// the `bookings` table.
//
// Fields:
//  ID                – opaque uuid primary key.
//  CustomerName      – required display name of the traveller.
//  CustomerEmail     – optional, used to link the booking to an account.
//  PackageID         – optional reference into packages.
//  UserID            – owning account once linked.
//  TotalPrice        – agreed price, never negative.
//  RemainingBalance  – outstanding amount, within [0, TotalPrice].
//  PaymentPercentage – 0..100, derived from the payment history.
//  PaymentStatus     – derived from PaymentPercentage.
//  BookingStatus     – staff controlled lifecycle state.
//  DepartureDate     – staff confirmed travel date.
type Booking struct {
    ID                string          `json:"id"`
    CustomerName      string          `json:"customer_name"`
    CustomerEmail     *string         `json:"customer_email"`
    CustomerPhone     *string         `json:"customer_phone"`
    PackageID         *string         `json:"package_id"`
    PackageTitle      *string         `json:"package_title,omitempty"` // joined from packages on reads
    UserID            *string         `json:"user_id"`
    TotalPrice        decimal.Decimal `json:"total_price"`
    RemainingBalance  decimal.Decimal `json:"remaining_balance"`
    PaymentPercentage int             `json:"payment_percentage"`
    PaymentStatus     PaymentStatus   `json:"payment_status"`
    BookingStatus     BookingStatus   `json:"booking_status"`
    DepartureDate     *time.Time      `json:"departure_date"`
    Notes             *string         `json:"notes"`
    CreatedAt         time.Time       `json:"created_at"`
    UpdatedAt         time.Time       `json:"updated_at"`
}

// BookingInput is the validated payload staff submit when creating or
// editing a booking. Derived ledger fields are computed from TotalPrice and
// PaymentPercentage and never accepted directly.
type BookingInput struct {
    CustomerName      string          `json:"customer_name"`
    CustomerEmail     string          `json:"customer_email"`
    CustomerPhone     string          `json:"customer_phone"`
    PackageID         string          `json:"package_id"`
    TotalPrice        decimal.Decimal `json:"total_price"`
    PaymentPercentage int             `json:"payment_percentage"`
    BookingStatus     BookingStatus   `json:"booking_status"`
    DepartureDate     string          `json:"departure_date"` // YYYY-MM-DD
    Notes             string          `json:"notes"`
}

// Normalize trims free-text fields and applies defaults.
func (in *BookingInput) Normalize() {
    in.CustomerName = strings.TrimSpace(in.CustomerName)
    in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
    in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
    in.PackageID = strings.TrimSpace(in.PackageID)
    in.DepartureDate = strings.TrimSpace(in.DepartureDate)
    in.Notes = strings.TrimSpace(in.Notes)
    if in.BookingStatus == "" {
        in.BookingStatus = BookingConfirmed
    }
}

// ParseDepartureDate returns nil for an empty date.
func (in BookingInput) ParseDepartureDate() (*time.Time, error) {
    if in.DepartureDate == "" {
        return nil, nil
    }
    t, err := time.Parse("2006-01-02", in.DepartureDate)
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// DashboardStats summarises the back office landing page.
type DashboardStats struct {
    Packages       int             `json:"packages"`
    Bookings       int             `json:"bookings"`
    Revenue        decimal.Decimal `json:"revenue"`
    PendingPayment int             `json:"pending_payments"`
    Recent         []Booking       `json:"recent_bookings"`
}

// StrPtr returns nil for blank strings so optional columns are stored as NULL.
func StrPtr(s string) *string {
    s = strings.TrimSpace(s)
    if s == "" {
        return nil
    }
    return &s
}
