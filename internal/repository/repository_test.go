package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/umrah-booking/internal/ledger"
	"github.com/iliyamo/umrah-booking/internal/model"
)

var bookingCols = []string{"id", "customer_name", "customer_email", "customer_phone", "package_id",
	"title", "user_id", "total_price", "remaining_balance", "payment_percentage",
	"payment_status", "booking_status", "departure_date", "notes", "created_at", "updated_at"}

func bookingRow(id, total, remaining string, pct int64, status string) *sqlmock.Rows {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(bookingCols).AddRow(id, "Aisha Rahman", "aisha@example.com", nil, nil,
		nil, nil, total, remaining, pct, status, "confirmed", nil, nil, now, now)
}

func newMock(t *testing.T) (sqlmock.Sqlmock, *BookingRepo, *PaymentRepo, *LedgerRepo) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	b := NewBookingRepo(db)
	p := NewPaymentRepo(db)
	return mock, b, p, NewLedgerRepo(db, b, p)
}

func TestBookingGetByIDNotFound(t *testing.T) {
	mock, repo, _, _ := newMock(t)
	mock.ExpectQuery(`FROM bookings b\s+LEFT JOIN packages p ON p.id = b.package_id WHERE b.id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingGetByIDScansDecimals(t *testing.T) {
	mock, repo, _, _ := newMock(t)
	mock.ExpectQuery(`WHERE b.id = \?`).WithArgs("b1").
		WillReturnRows(bookingRow("b1", "10000.00", "7500.00", 25, "partial"))

	b, err := repo.GetByID(context.Background(), "b1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !b.TotalPrice.Equal(decimal.NewFromInt(10000)) || !b.RemainingBalance.Equal(decimal.NewFromInt(7500)) {
		t.Fatalf("unexpected money fields %s / %s", b.TotalPrice, b.RemainingBalance)
	}
	if b.PaymentStatus != model.PaymentPartial || b.CustomerEmail == nil || b.PackageID != nil {
		t.Fatalf("unexpected booking %+v", b)
	}
}

func TestBookingDeleteCascadesPayments(t *testing.T) {
	mock, repo, _, _ := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM payment_history WHERE booking_id = \?`).WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM bookings WHERE id = \?`).WithArgs("b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), "b1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBookingDeleteMissingRollsBack(t *testing.T) {
	mock, repo, _, _ := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM payment_history`).WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM bookings`).WithArgs("nope").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerWithBookingCommits(t *testing.T) {
	mock, _, _, lr := newMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM bookings b WHERE b.id = \? FOR UPDATE`).WithArgs("b1").
		WillReturnRows(bookingRow("b1", "10000.00", "10000.00", 0, "pending"))
	mock.ExpectExec(`INSERT INTO payment_history`).
		WithArgs(sqlmock.AnyArg(), "b1", sqlmock.AnyArg(), sqlmock.AnyArg(), "cash", nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM payment_history WHERE booking_id = \?`).WithArgs("b1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "amount", "payment_date", "payment_mode", "notes", "proof_url", "created_at"}).
			AddRow("p1", "b1", "1000.00", now, "cash", nil, nil, now))
	mock.ExpectExec(`UPDATE bookings SET payment_percentage=\?, remaining_balance=\?, payment_status=\? WHERE id=\?`).
		WithArgs(10, sqlmock.AnyArg(), "partial", "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mode := "cash"
	err := lr.WithBooking(context.Background(), "b1", func(tx ledger.Tx) error {
		p := &model.Payment{Amount: decimal.NewFromInt(1000), PaymentMode: &mode}
		if err := tx.InsertPayment(context.Background(), p); err != nil {
			return err
		}
		if p.BookingID != "b1" || p.ID == "" {
			t.Fatalf("payment not bound to booking: %+v", p)
		}
		amounts, err := tx.Amounts(context.Background())
		if err != nil {
			return err
		}
		return tx.Apply(context.Background(), ledger.Summarize(tx.Booking().TotalPrice, amounts))
	})
	if err != nil {
		t.Fatalf("WithBooking: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerWithBookingRollsBackOnError(t *testing.T) {
	mock, _, _, lr := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("b1").
		WillReturnRows(bookingRow("b1", "10000.00", "10000.00", 0, "pending"))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := lr.WithBooking(context.Background(), "b1", func(ledger.Tx) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLedgerWithBookingMissing(t *testing.T) {
	mock, _, _, lr := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs("gone").WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectRollback()

	called := false
	err := lr.WithBooking(context.Background(), "gone", func(ledger.Tx) error { called = true; return nil })
	if !errors.Is(err, ErrNotFound) || called {
		t.Fatalf("expected ErrNotFound without callback, got %v (called=%v)", err, called)
	}
}

func TestPackageSearchPublishedFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewPackageRepo(db)

	cond := `published = TRUE AND price BETWEEN 100000 AND 200000 AND five_star = TRUE AND direct_flight = TRUE`
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM packages WHERE ` + cond).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM packages WHERE ` + cond + ` ORDER BY created_at DESC LIMIT \? OFFSET \?`).
		WithArgs(12, 12).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	f := model.PackageFilter{PriceRange: "100k-200k", Star: "5star", Flight: "direct", Page: 2, PageSize: 12}
	items, total, err := repo.SearchPublished(context.Background(), f)
	if err != nil {
		t.Fatalf("SearchPublished: %v", err)
	}
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty page, got %d/%d", len(items), total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordRepoCreateBuildsInsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewRecordRepo(db, GeneralFAQTable)

	mock.ExpectExec(`INSERT INTO general_faqs \(id, question, answer, sort_order, published\) VALUES \(\?, \?, \?, \?, \?\)`).
		WithArgs(sqlmock.AnyArg(), "Is a visa included?", "Yes.", 1, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`SELECT id, question, answer, sort_order, published, created_at FROM general_faqs WHERE id = \? LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "question", "answer", "sort_order", "published", "created_at"}).
			AddRow("f1", "Is a visa included?", "Yes.", 1, true, time.Now()))

	got, err := repo.Create(context.Background(), &model.GeneralFAQ{Question: "Is a visa included?", Answer: "Yes.", SortOrder: 1, Published: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID != "f1" {
		t.Fatalf("unexpected record %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordRepoFindPublishedWithLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewRecordRepo(db, TestimonialTable)

	mock.ExpectQuery(`FROM testimonials WHERE package_id IS NULL AND published = TRUE ORDER BY created_at DESC LIMIT 6`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.Find(context.Background(), Filter{Where: "package_id IS NULL", PublishedOnly: true, Limit: 6}); err != nil {
		t.Fatalf("Find: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProfileFindByEmailNormalizes(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewProfileRepo(db)

	mock.ExpectQuery(`FROM profiles WHERE email = \?`).WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email", "full_name", "phone", "created_at"}).
			AddRow("pr1", "u1", "a@x.com", nil, nil, time.Now()))

	p, err := repo.FindByEmail(context.Background(), "A@X.com ")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if p.UserID != "u1" {
		t.Fatalf("user id = %q", p.UserID)
	}
}

func TestSettingsUpsertIsTransactional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	repo := NewSettingsRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("ON DUPLICATE KEY UPDATE").WithArgs("header_phone", "+62 812").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("ON DUPLICATE KEY UPDATE").WithArgs("site_name", "Baitullah Tours").WillReturnError(errors.New("down"))
	mock.ExpectRollback()

	err = repo.Upsert(context.Background(), []model.Setting{
		{Key: "header_phone", Value: "+62 812"},
		{Key: "site_name", Value: "Baitullah Tours"},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
