// Package notify carries order events from the core to the outside world:
// log lines, an AMQP fanout exchange consumed by the mail worker, and the
// websocket order hub.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/SinaAfzali/elite-bite/entity"
)

type Kind string

const (
	PaymentCodeIssued Kind = "paymentCodeIssued"
	PaymentConfirmed  Kind = "paymentConfirmed"
	StatusChanged     Kind = "statusChanged"
)

// Event is a notification addressed to one customer. Fields not relevant to
// the kind are left empty.
type Event struct {
	Kind        Kind               `json:"kind"`
	Recipient   string             `json:"recipient"`
	UserID      uint               `json:"userId"`
	OrderID     uint               `json:"orderId"`
	PaymentCode string             `json:"paymentCode,omitempty"`
	Status      entity.OrderStatus `json:"status,omitempty"`
	StatusLabel string             `json:"statusLabel,omitempty"`
	WaitMinutes int                `json:"waitMinutes,omitempty"`
	OccurredAt  time.Time          `json:"occurredAt"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev Event) error

func (f NotifierFunc) Notify(ctx context.Context, ev Event) error { return f(ctx, ev) }

// Multi delivers to every notifier, even when an earlier one fails, and
// returns the joined errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
