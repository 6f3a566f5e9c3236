// Package events publishes domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

const RoutingKeyNotificationCreated = "notification.created"

// Publisher sends a JSON-encoded event under a routing key.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
	Close() error
}

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type dialFunc func() (io.Closer, amqpChannel, error)

// AMQPPublisher publishes persistent JSON messages on a durable topic exchange.
// A closed channel or connection is redialled on the next publish.
type AMQPPublisher struct {
	mu       sync.Mutex
	dial     dialFunc
	conn     io.Closer
	ch       amqpChannel
	exchange string
}

var _ Publisher = (*AMQPPublisher)(nil)

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		exchange: exchange,
		dial:     func() (io.Closer, amqpChannel, error) { return dialExchange(url, exchange) },
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialExchange(url, exchange string) (io.Closer, amqpChannel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("declare exchange: %w", err)
	}
	return conn, ch, nil
}

// connect replaces the current connection. Callers hold mu, except the constructor.
func (p *AMQPPublisher) connect() error {
	_ = p.closeLocked()
	conn, ch, err := p.dial()
	if err != nil {
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

// PublishJSON is safe for concurrent use; an amqp channel is not, so publishes are serialised.
func (p *AMQPPublisher) PublishJSON(ctx context.Context, key string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch == nil || p.ch.IsClosed() {
		if err := p.connect(); err != nil {
			return fmt.Errorf("reconnect rabbitmq: %w", err)
		}
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	if errors.Is(err, amqp.ErrClosed) {
		if rerr := p.connect(); rerr != nil {
			return fmt.Errorf("reconnect rabbitmq: %w", rerr)
		}
		err = p.ch.PublishWithContext(ctx, p.exchange, key, false, false, msg)
	}
	return err
}

func (p *AMQPPublisher) closeLocked() error {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		err := p.conn.Close()
		p.conn = nil
		return err
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeLocked()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) PublishJSON(context.Context, string, any) error { return nil }

func (NoopPublisher) Close() error { return nil }
