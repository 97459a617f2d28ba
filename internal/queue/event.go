// Package queue defines the ledger events exchanged over RabbitMQ and the
// publisher and consumer that move them.
package queue

import "time"

// LedgerQueue is the durable queue carrying every ledger event.
const LedgerQueue = "booking.ledger"

// Event types.
const (
	EventPaymentRecorded = "payment.recorded"
	EventFullyPaid       = "booking.fully_paid"
)

// LedgerEvent is published after a ledger write commits. It carries the
// booking's derived state so consumers never need to query the database.
type LedgerEvent struct {
	Type              string    `json:"type"`
	BookingID         string    `json:"booking_id"`
	CustomerName      string    `json:"customer_name"`
	PaymentID         string    `json:"payment_id,omitempty"`
	Amount            string    `json:"amount,omitempty"`
	PaymentMode       string    `json:"payment_mode,omitempty"`
	TotalPrice        string    `json:"total_price"`
	PaymentPercentage int       `json:"payment_percentage"`
	RemainingBalance  string    `json:"remaining_balance"`
	PaymentStatus     string    `json:"payment_status"`
	OccurredAt        time.Time `json:"occurred_at"`
}
