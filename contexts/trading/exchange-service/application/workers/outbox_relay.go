package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	"bazaar/contexts/trading/exchange-service/application"
	"bazaar/contexts/trading/exchange-service/ports"
)

// OutboxRelay publishes persisted outbox records to the event bus. Sources
// holds one outbox repository per module so a single worker drains the whole
// marketplace.
type OutboxRelay struct {
	Sources   []ports.OutboxRepository
	Publisher ports.EventPublisher
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce publishes a bounded batch of pending outbox rows per source and
// marks each row published only after broker publish succeeds. It stops on
// the first failure so the retry loop can reprocess remaining rows safely.
func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	published := 0
	for _, source := range r.Sources {
		pending, err := source.ListPendingOutbox(ctx, limit)
		if err != nil {
			logger.Error("outbox list failed",
				"event", "outbox_list_failed",
				"module", "trading/exchange-service",
				"layer", "worker",
				"error", err.Error(),
			)
			return err
		}
		for _, row := range pending {
			var event ports.EventEnvelope
			if err := json.Unmarshal(row.Payload, &event); err != nil {
				logger.Error("outbox decode failed",
					"event", "outbox_decode_failed",
					"module", "trading/exchange-service",
					"layer", "worker",
					"outbox_id", row.ID,
					"error", err.Error(),
				)
				return err
			}
			topic := event.EventType
			if topic == "" {
				topic = row.EventType
			}
			if err := r.Publisher.Publish(ctx, topic, event); err != nil {
				logger.Error("outbox publish failed",
					"event", "outbox_publish_failed",
					"module", "trading/exchange-service",
					"layer", "worker",
					"outbox_id", row.ID,
					"event_type", event.EventType,
					"error", err.Error(),
				)
				return err
			}
			if err := source.MarkOutboxPublished(ctx, row.ID); err != nil {
				logger.Error("outbox mark published failed",
					"event", "outbox_mark_published_failed",
					"module", "trading/exchange-service",
					"layer", "worker",
					"outbox_id", row.ID,
					"error", err.Error(),
				)
				return err
			}
			published++
		}
	}

	if published > 0 {
		logger.Info("outbox relay cycle completed",
			"event", "outbox_relay_completed",
			"module", "trading/exchange-service",
			"layer", "worker",
			"published_count", published,
		)
	}
	return nil
}
