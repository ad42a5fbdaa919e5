package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const Exchange = "notifications_fanout"

// Channel is the part of *amqp.Channel the notifier needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPNotifier publishes every event as persistent JSON to the notifications
// fanout exchange. The mail worker bound to it renders and sends the email.
type AMQPNotifier struct {
	log      *slog.Logger
	exchange string

	// lock is a one-slot semaphore so waiting for a reconnect can give up
	// with the caller's ctx.
	lock chan struct{}
	ch   Channel
	conn *amqp.Connection
	url  string
}

func NewAMQPNotifier(log *slog.Logger, ch Channel) *AMQPNotifier {
	return &AMQPNotifier{log: log, ch: ch, exchange: Exchange, lock: make(chan struct{}, 1)}
}

// DialAMQP connects, declares the durable fanout exchange and returns a
// notifier that reconnects when it finds the connection closed. Retries stop
// when ctx is done.
func DialAMQP(ctx context.Context, log *slog.Logger, url string) (*AMQPNotifier, error) {
	n := &AMQPNotifier{log: log, exchange: Exchange, url: url, lock: make(chan struct{}, 1)}
	if err := n.connect(ctx); err != nil {
		return nil, err
	}
	return n, nil
}

func (n *AMQPNotifier) connect(ctx context.Context) error {
	const maxRetries = 5
	var err error
	for i := 0; i < maxRetries; i++ {
		var conn *amqp.Connection
		conn, err = amqp.Dial(n.url)
		if err == nil {
			var ch *amqp.Channel
			ch, err = conn.Channel()
			if err == nil {
				err = ch.ExchangeDeclare(n.exchange, "fanout", true, false, false, false, nil)
				if err == nil {
					n.conn, n.ch = conn, ch
					return nil
				}
				ch.Close()
			}
			conn.Close()
		}
		if i < maxRetries-1 {
			wait := time.Duration(i+1) * time.Second
			n.log.Warn("amqp connect failed, retrying", "wait", wait, "err", err)
			select {
			case <-ctx.Done():
				return fmt.Errorf("connect to amqp: %w", errors.Join(ctx.Err(), err))
			case <-time.After(wait):
			}
		}
	}
	return fmt.Errorf("connect to amqp after %d attempts: %w", maxRetries, err)
}

func (n *AMQPNotifier) acquire(ctx context.Context) error {
	select {
	case n.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *AMQPNotifier) release() { <-n.lock }

func (n *AMQPNotifier) channel(ctx context.Context) (Channel, error) {
	if err := n.acquire(ctx); err != nil {
		return nil, fmt.Errorf("wait for amqp channel: %w", err)
	}
	defer n.release()
	if n.conn != nil && n.conn.IsClosed() {
		if err := n.connect(ctx); err != nil {
			return nil, err
		}
	}
	return n.ch, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	ch, err := n.channel(ctx)
	if err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Type:         string(ev.Kind),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, n.exchange, "", false, false, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Kind, err)
	}
	n.log.DebugContext(ctx, "notification published", "exchange", n.exchange, "kind", ev.Kind, "order_id", ev.OrderID)
	return nil
}

func (n *AMQPNotifier) Close() error {
	n.lock <- struct{}{}
	defer n.release()
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
