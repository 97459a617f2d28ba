// Package service holds the business operations behind the HTTP handlers:
// the booking ledger, the package catalog and the content collections.
package service

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/iliyamo/umrah-booking/internal/ledger"
	"github.com/iliyamo/umrah-booking/internal/model"
	"github.com/iliyamo/umrah-booking/internal/queue"
	"github.com/iliyamo/umrah-booking/internal/repository"
	"github.com/iliyamo/umrah-booking/internal/utils"
)

// BookingStore is the booking persistence used outside the ledger.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	Update(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetForUser(ctx context.Context, id, userID string) (*model.Booking, error)
	List(ctx context.Context) ([]model.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (model.DashboardStats, error)
}

// ProfileFinder resolves an email to a registered profile.
type ProfileFinder interface {
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
}

// PaymentLister reads a booking's payment history.
type PaymentLister interface {
	ListByBooking(ctx context.Context, bookingID string) ([]model.Payment, error)
}

// EventPublisher receives ledger events after commit.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.LedgerEvent) error
}

// BookingService owns every write to a booking's payment state.
type BookingService struct {
	bookings BookingStore
	ledger   ledger.Store
	payments PaymentLister
	profiles ProfileFinder
	events   EventPublisher
	locks    *keyedMutex
}

// NewBookingService wires the service. events may be nil.
func NewBookingService(bookings BookingStore, store ledger.Store, payments PaymentLister, profiles ProfileFinder, events EventPublisher) *BookingService {
	return &BookingService{
		bookings: bookings,
		ledger:   store,
		payments: payments,
		profiles: profiles,
		events:   events,
		locks:    newKeyedMutex(),
	}
}

// RecordPayment appends one payment and recomputes the booking's derived
// fields from the complete history. The insert and the booking update
// commit together or not at all.
func (s *BookingService) RecordPayment(ctx context.Context, bookingID string, in model.PaymentInput) (*model.Booking, *model.Payment, error) {
	in.Normalize()
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, nil, invalid("booking_id", "is required")
	}
	amount, err := ledger.ValidateAmount(in.Amount)
	if err != nil {
		return nil, nil, invalid("amount", err.Error())
	}

	p := &model.Payment{
		BookingID:   bookingID,
		Amount:      amount,
		PaymentMode: model.StrPtr(in.PaymentMode),
		Notes:       model.StrPtr(in.Notes),
		ProofURL:    model.StrPtr(in.ProofURL),
	}
	if in.PaymentDate != nil {
		p.PaymentDate = in.PaymentDate.UTC()
	}

	var booking model.Booking
	unlock := s.locks.Lock(bookingID)
	err = s.ledger.WithBooking(ctx, bookingID, func(tx ledger.Tx) error {
		booking = tx.Booking()
		if err := tx.InsertPayment(ctx, p); err != nil {
			return storeErr("insert payment", err)
		}
		amounts, err := tx.Amounts(ctx)
		if err != nil {
			return storeErr("load payment history", err)
		}
		sum := ledger.Summarize(booking.TotalPrice, amounts)
		if err := tx.Apply(ctx, sum); err != nil {
			return storeErr("update booking", err)
		}
		applySummary(&booking, sum)
		return nil
	})
	unlock()
	if err != nil {
		return nil, nil, classify("record payment", "booking", err)
	}

	s.publish(queue.LedgerEvent{
		Type:        queue.EventPaymentRecorded,
		PaymentID:   p.ID,
		Amount:      p.Amount.String(),
		PaymentMode: in.PaymentMode,
	}, &booking)
	return &booking, p, nil
}

// MarkFullyPaid forces the booking to 100%, zero remaining and completed
// without adding a payment entry. The payment history may then sum to
// less than the total; that gap is kept as-is.
func (s *BookingService) MarkFullyPaid(ctx context.Context, bookingID string) (*model.Booking, error) {
	bookingID = strings.TrimSpace(bookingID)
	if bookingID == "" {
		return nil, invalid("booking_id", "is required")
	}

	var booking model.Booking
	unlock := s.locks.Lock(bookingID)
	err := s.ledger.WithBooking(ctx, bookingID, func(tx ledger.Tx) error {
		booking = tx.Booking()
		sum := ledger.FullyPaid(booking.TotalPrice)
		if err := tx.Apply(ctx, sum); err != nil {
			return storeErr("update booking", err)
		}
		applySummary(&booking, sum)
		return nil
	})
	unlock()
	if err != nil {
		return nil, classify("mark fully paid", "booking", err)
	}

	s.publish(queue.LedgerEvent{Type: queue.EventFullyPaid}, &booking)
	return &booking, nil
}

// ListPayments returns the booking's history, newest payment first.
func (s *BookingService) ListPayments(ctx context.Context, bookingID string) ([]model.Payment, error) {
	if _, err := s.bookings.GetByID(ctx, bookingID); err != nil {
		return nil, classify("load booking", "booking", err)
	}
	out, err := s.payments.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, storeErr("list payments", err)
	}
	return out, nil
}

// LinkAccount returns the user id of the profile registered under email,
// or nil when the email is blank or unknown.
func (s *BookingService) LinkAccount(ctx context.Context, email string) (*string, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || s.profiles == nil {
		return nil, nil
	}
	p, err := s.profiles.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find profile", err)
	}
	id := p.UserID
	return &id, nil
}

// CreateBooking validates in, derives the ledger fields from the entered
// percentage and links the booking to an existing account by email.
func (s *BookingService) CreateBooking(ctx context.Context, in model.BookingInput) (*model.Booking, error) {
	b := &model.Booking{}
	if err := s.fill(ctx, b, in); err != nil {
		return nil, err
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, storeErr("create booking", err)
	}
	log.Printf("ledger: booking %s created total=%s paid=%d%%", b.ID, b.TotalPrice, b.PaymentPercentage)
	return b, nil
}

// UpdateBooking replaces the staff-editable fields of a booking. The ledger
// fields are re-derived from the submitted percentage.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, in model.BookingInput) (*model.Booking, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, classify("load booking", "booking", err)
	}
	prevEmail := ""
	if b.CustomerEmail != nil {
		prevEmail = utils.NormalizeEmail(*b.CustomerEmail)
	}
	prevUser := b.UserID
	if err := s.fill(ctx, b, in); err != nil {
		return nil, err
	}
	// keep an existing link while the email is unchanged
	if b.UserID == nil && prevEmail == utils.NormalizeEmail(in.CustomerEmail) {
		b.UserID = prevUser
	}
	if err := s.bookings.Update(ctx, b); err != nil {
		return nil, classify("update booking", "booking", err)
	}
	return b, nil
}

func (s *BookingService) fill(ctx context.Context, b *model.Booking, in model.BookingInput) error {
	in.Normalize()
	if in.CustomerName == "" {
		return invalid("customer_name", "is required")
	}
	if in.CustomerEmail != "" {
		if _, err := mail.ParseAddress(in.CustomerEmail); err != nil {
			return invalid("customer_email", "is not a valid address")
		}
	}
	if in.TotalPrice.IsNegative() {
		return invalid("total_price", "must not be negative")
	}
	if in.PaymentPercentage < 0 || in.PaymentPercentage > 100 {
		return invalid("payment_percentage", "must be between 0 and 100")
	}
	if !in.BookingStatus.Valid() {
		return invalid("booking_status", "is not a known status")
	}
	departure, err := in.ParseDepartureDate()
	if err != nil {
		return invalid("departure_date", "must be YYYY-MM-DD")
	}
	userID, err := s.LinkAccount(ctx, in.CustomerEmail)
	if err != nil {
		return err
	}

	email := model.StrPtr(utils.NormalizeEmail(in.CustomerEmail))
	b.CustomerName = in.CustomerName
	b.CustomerEmail = email
	b.CustomerPhone = model.StrPtr(in.CustomerPhone)
	b.PackageID = model.StrPtr(in.PackageID)
	b.UserID = userID
	b.TotalPrice = in.TotalPrice.Round(2)
	b.BookingStatus = in.BookingStatus
	b.DepartureDate = departure
	b.Notes = model.StrPtr(in.Notes)
	applySummary(b, ledger.FromPercentage(b.TotalPrice, in.PaymentPercentage))
	return nil
}

// DeleteBooking removes the booking together with its payment history.
func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	unlock := s.locks.Lock(id)
	defer unlock()
	if err := s.bookings.Delete(ctx, id); err != nil {
		return classify("delete booking", "booking", err)
	}
	return nil
}

func (s *BookingService) ListBookings(ctx context.Context) ([]model.Booking, error) {
	out, err := s.bookings.List(ctx)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	return out, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, classify("load booking", "booking", err)
	}
	return b, nil
}

// ListForUser is the customer dashboard listing.
func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]model.Booking, error) {
	out, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeErr("list bookings", err)
	}
	return out, nil
}

// GetForUser returns a booking only to the account it is linked to. A
// booking owned by someone else is reported as not found.
func (s *BookingService) GetForUser(ctx context.Context, id, userID string) (*model.Booking, error) {
	b, err := s.bookings.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, classify("load booking", "booking", err)
	}
	return b, nil
}

// Stats feeds the admin dashboard.
func (s *BookingService) Stats(ctx context.Context) (model.DashboardStats, error) {
	st, err := s.bookings.Stats(ctx)
	if err != nil {
		return st, storeErr("dashboard stats", err)
	}
	return st, nil
}

func (s *BookingService) publish(ev queue.LedgerEvent, b *model.Booking) {
	if s.events == nil {
		return
	}
	ev.BookingID = b.ID
	ev.CustomerName = b.CustomerName
	ev.TotalPrice = b.TotalPrice.String()
	ev.PaymentPercentage = b.PaymentPercentage
	ev.RemainingBalance = b.RemainingBalance.String()
	ev.PaymentStatus = string(b.PaymentStatus)
	ev.OccurredAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("ledger: event %s for booking %s not published: %v", ev.Type, ev.BookingID, err)
	}
}

func applySummary(b *model.Booking, sum ledger.Summary) {
	b.PaymentPercentage = sum.Percentage
	b.RemainingBalance = sum.Remaining
	b.PaymentStatus = sum.Status
}

// classify passes typed service errors through, maps the repository
// not-found sentinel and wraps everything else as a StoreError.
func classify(op, resource string, err error) error {
	switch {
	case IsValidation(err), IsNotFound(err), IsStore(err), IsConflict(err):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return notFound(resource)
	case errors.Is(err, repository.ErrConflict):
		return &ConflictError{Msg: resource + " already exists"}
	default:
		return storeErr(op, err)
	}
}
