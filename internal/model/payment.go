package model

import (
    "strings"
    "time"

    "github.com/shopspring/decimal"
)

// Payment is one immutable row of the `payment_history` table. Rows are
// only ever inserted; the owning booking's derived fields are recomputed
// from the full set after every insert.
type Payment struct {
    ID          string          `json:"id"`           // payment_history.id
    BookingID   string          `json:"booking_id"`   // payment_history.booking_id
    Amount      decimal.Decimal `json:"amount"`       // payment_history.amount (> 0)
    PaymentDate time.Time       `json:"payment_date"` // payment_history.payment_date
    PaymentMode *string         `json:"payment_mode"` // free text: bank / UPI / cash
    Notes       *string         `json:"notes"`
    ProofURL    *string         `json:"proof_url"`
    CreatedAt   time.Time       `json:"created_at"`
}

// PaymentInput is the body accepted when staff record a payment.
type PaymentInput struct {
    Amount      decimal.Decimal `json:"amount"`
    PaymentMode string          `json:"payment_mode"`
    Notes       string          `json:"notes"`
    ProofURL    string          `json:"proof_url"`
    PaymentDate *time.Time      `json:"payment_date"`
}

// Normalize trims the free-text fields.
func (in *PaymentInput) Normalize() {
    in.PaymentMode = strings.TrimSpace(in.PaymentMode)
    in.Notes = strings.TrimSpace(in.Notes)
    in.ProofURL = strings.TrimSpace(in.ProofURL)
}
