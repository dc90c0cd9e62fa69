package postgresadapter

import (
	"context"
	"fmt"

	"bazaar/internal/shared/outbox"

	"gorm.io/gorm"
)

// Outbox is the worker-side view of the catalog outbox table. It carries no
// contract registry, so it can run in processes that never deploy contracts.
type Outbox struct {
	db *gorm.DB
}

func NewOutbox(db *gorm.DB) *Outbox {
	return &Outbox{db: db}
}

func (o *Outbox) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	var rows []outboxModel
	query := o.db.WithContext(ctx).Where("status = ?", "pending").Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	messages := make([]outbox.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, outbox.Message{
			ID:        row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			Status:    row.Status,
		})
	}
	return messages, nil
}

func (o *Outbox) MarkOutboxPublished(ctx context.Context, outboxID string) error {
	result := o.db.WithContext(ctx).Model(&outboxModel{}).
		Where("outbox_id = ?", outboxID).
		Update("status", "published")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("outbox row not found: %s", outboxID)
	}
	return nil
}
