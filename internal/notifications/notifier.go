package notifications

import (
	"context"
	"log/slog"

	"umrahcore/pkg/logger"
)

// Notifier publishes events fire-and-forget: a failed publish is logged and
// never reaches the caller, so committed state is never rolled back for it.
type Notifier struct {
	publisher Publisher
	log       *logger.Logger
}

func NewNotifier(publisher Publisher) *Notifier {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Notifier{publisher: publisher, log: logger.GetDefault()}
}

func (n *Notifier) Notify(ctx context.Context, event *BookingEvent) {
	if n == nil || event == nil {
		return
	}
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.log.WarnContext(ctx, "booking event publish failed",
			slog.String("type", string(event.Type)),
			slog.String("event_id", event.ID.String()),
			slog.Any("error", err),
		)
	}
}

func (n *Notifier) Close() error {
	return n.publisher.Close()
}
