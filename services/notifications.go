package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SinaAfzali/elite-bite/notify"
)

const defaultNotifyTimeout = 5 * time.Second

// dispatcher sends notifications after a transaction has committed. It never
// reports failure to the caller: a slow or broken channel must not undo or
// fail an order operation.
type dispatcher struct {
	notifier notify.Notifier
	log      *slog.Logger
	timeout  time.Duration
}

func (d dispatcher) send(ctx context.Context, ev notify.Event) {
	if d.notifier == nil {
		return
	}
	timeout := d.timeout
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	// detached from the request so a client hanging up after commit does not
	// cancel the delivery
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := d.notifier.Notify(ctx, ev); err != nil {
		d.logger().ErrorContext(ctx, "notification dispatch failed",
			"kind", ev.Kind, "order_id", ev.OrderID, "err", err)
	}
}

func (d dispatcher) logger() *slog.Logger {
	if d.log == nil {
		return slog.Default()
	}
	return d.log
}
