package queue

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatLinePaymentRecorded(t *testing.T) {
	ev := LedgerEvent{
		Type:              EventPaymentRecorded,
		BookingID:         "b1",
		CustomerName:      "Yusuf",
		PaymentID:         "p1",
		Amount:            "1000",
		PaymentMode:       "bank",
		PaymentPercentage: 10,
		RemainingBalance:  "9000",
		PaymentStatus:     "partial",
		OccurredAt:        time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	line := FormatLine(ev)
	for _, want := range []string{"[2026-03-01T08:00:00Z] Payment recorded", "booking_id=b1", "amount=1000", "paid=10%", "remaining=9000"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("line not newline terminated")
	}
}

func TestHandleMessageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "payments.log")
	for _, typ := range []string{EventPaymentRecorded, EventFullyPaid} {
		body, _ := json.Marshal(LedgerEvent{Type: typ, BookingID: "b1", PaymentStatus: "completed"})
		if err := HandleMessage(body, path); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("expected 2 lines, got %d", n)
	}
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payments.log")
	if err := HandleMessage([]byte("{"), path); err == nil {
		t.Fatalf("expected unmarshal error")
	}
	if err := HandleMessage([]byte(`{"type":"payment.recorded"}`), path); err == nil {
		t.Fatalf("expected missing booking_id error")
	}
}

func TestPublisherWithoutURLIsNoop(t *testing.T) {
	p := NewPublisher("")
	if err := p.Publish(context.Background(), LedgerEvent{Type: EventFullyPaid, BookingID: "b1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

// A broker that accepts TCP but never completes the AMQP handshake must not
// hold a publish past its context, and later publishes skip the dial.
func TestPublisherSilentBrokerBoundedByContext(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	p := NewPublisher("amqp://guest:guest@" + ln.Addr().String() + "/")
	defer p.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := p.Publish(ctx, LedgerEvent{Type: EventPaymentRecorded, BookingID: "b1"}); err == nil {
		t.Fatalf("expected dial error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("publish blocked for %s", elapsed)
	}

	start = time.Now()
	err = p.Publish(context.Background(), LedgerEvent{Type: EventPaymentRecorded, BookingID: "b2"})
	if !errors.Is(err, ErrBrokerUnavailable) {
		t.Fatalf("expected ErrBrokerUnavailable, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("cooldown publish took %s", elapsed)
	}
}
