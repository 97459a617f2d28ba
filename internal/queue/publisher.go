package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// dialTimeout caps connect plus AMQP handshake; a shorter ctx deadline wins.
	dialTimeout = 2 * time.Second
	// redialAfter is how long a failed dial keeps later publishes from
	// trying again.
	redialAfter = 5 * time.Second
)

// ErrBrokerUnavailable is returned while a recent dial failure is cooling down.
var ErrBrokerUnavailable = errors.New("rabbitmq: broker unavailable")

// Publisher sends LedgerEvents to the durable ledger queue. The connection
// is opened lazily and re-dialled after a failure. A Publisher with an
// empty URL drops every event.
type Publisher struct {
	url string

	mu      sync.Mutex
	conn    *amqp.Connection
	ch      *amqp.Channel
	retryAt time.Time
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url}
}

// Publish marshals ev and publishes it as a persistent message. Errors are
// logged and returned so callers may ignore them without losing the trace.
func (p *Publisher) Publish(ctx context.Context, ev LedgerEvent) error {
	if p == nil || p.url == "" {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel(ctx)
	if err != nil {
		if !errors.Is(err, ErrBrokerUnavailable) {
			log.Printf("rabbitmq: connect failed: %v", err)
		}
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", LedgerQueue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish %s for booking %s failed: %v", ev.Type, ev.BookingID, err)
		p.reset()
		return err
	}
	return nil
}

// channel returns an open channel, dialling and declaring the queue when
// needed. Caller holds p.mu.
func (p *Publisher) channel(ctx context.Context) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	if time.Now().Before(p.retryAt) {
		return nil, ErrBrokerUnavailable
	}
	timeout := dialTimeout
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) < timeout {
		timeout = time.Until(dl)
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		p.retryAt = time.Now().Add(redialAfter)
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(LedgerQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close releases the broker connection.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
	return nil
}
