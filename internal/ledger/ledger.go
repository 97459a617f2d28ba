// Package ledger derives a booking's payment state from its payment
// history. Everything here is pure: callers load the history, call
// Summarize and persist the result.
package ledger

import (
    "errors"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/umrah-booking/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ErrInvalidAmount is returned by ValidateAmount for zero or negative values.
var ErrInvalidAmount = errors.New("amount must be greater than zero")

// Summary is the derived state written back to the bookings row.
type Summary struct {
    Paid       decimal.Decimal
    Remaining  decimal.Decimal
    Percentage int
    Status     model.PaymentStatus
}

// DeriveStatus maps a completion percentage to its payment category.
// Values outside 0..100 are clamped first, so the function is total.
func DeriveStatus(percentage int) model.PaymentStatus {
    switch p := clampPct(percentage); {
    case p >= 100:
        return model.PaymentCompleted
    case p > 0:
        return model.PaymentPartial
    default:
        return model.PaymentPending
    }
}

// Summarize recomputes the booking's derived fields from the complete
// list of payment amounts.
//
// remaining = clamp(total - paid, 0, total)
// percentage = clamp(round(100 * paid / total), 0, 100), rounding half up
//
// A zero total has nothing to divide by: any payment counts as complete
// and an empty history stays pending.
func Summarize(total decimal.Decimal, amounts []decimal.Decimal) Summary {
    if total.IsNegative() {
        total = decimal.Zero
    }
    paid := decimal.Zero
    for _, a := range amounts {
        paid = paid.Add(a)
    }

    pct := 0
    if total.IsZero() {
        if paid.IsPositive() {
            pct = 100
        }
    } else {
        pct = clampPct(int(paid.Mul(hundred).Div(total).Round(0).IntPart()))
    }

    return Summary{
        Paid:       paid,
        Remaining:  clampMoney(total.Sub(paid), total),
        Percentage: pct,
        Status:     DeriveStatus(pct),
    }
}

// FromPercentage derives the remaining balance and status when staff set
// the percentage by hand on the booking form.
func FromPercentage(total decimal.Decimal, percentage int) Summary {
    if total.IsNegative() {
        total = decimal.Zero
    }
    pct := clampPct(percentage)
    paid := total.Mul(decimal.NewFromInt(int64(pct))).Div(hundred).Round(2)
    return Summary{
        Paid:       paid,
        Remaining:  clampMoney(total.Sub(paid), total),
        Percentage: pct,
        Status:     DeriveStatus(pct),
    }
}

// FullyPaid is the administrative override: the booking is marked settled
// regardless of what the payment history adds up to.
func FullyPaid(total decimal.Decimal) Summary {
    return Summary{
        Paid:       total,
        Remaining:  decimal.Zero,
        Percentage: 100,
        Status:     model.PaymentCompleted,
    }
}

// ValidateAmount rejects amounts that cannot be recorded as a payment.
// The amount is rounded to cents before the check.
func ValidateAmount(amount decimal.Decimal) (decimal.Decimal, error) {
    a := amount.Round(2)
    if !a.IsPositive() {
        return decimal.Zero, ErrInvalidAmount
    }
    return a, nil
}

func clampPct(p int) int {
    if p < 0 {
        return 0
    }
    if p > 100 {
        return 100
    }
    return p
}

func clampMoney(v, max decimal.Decimal) decimal.Decimal {
    if v.IsNegative() {
        return decimal.Zero
    }
    if v.GreaterThan(max) {
        return max
    }
    return v
}
