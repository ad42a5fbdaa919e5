package notify

import (
	"context"
	"log/slog"
)

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, ev Event) error {
	n.log.InfoContext(ctx, "notification",
		slog.String("kind", string(ev.Kind)),
		slog.String("recipient", ev.Recipient),
		slog.Uint64("order_id", uint64(ev.OrderID)),
		slog.String("status", string(ev.Status)),
		slog.Int("wait_minutes", ev.WaitMinutes),
	)
	return nil
}
