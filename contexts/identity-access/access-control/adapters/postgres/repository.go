package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bazaar/contexts/identity-access/access-control/domain/entities"
	"bazaar/contexts/identity-access/access-control/ports"
	"bazaar/internal/shared/chain"
	"bazaar/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// Repository persists role membership and grant history.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

type memberModel struct {
	Role    string `gorm:"column:role;primaryKey"`
	Account string `gorm:"column:account;primaryKey"`
}

func (memberModel) TableName() string { return "access_role_members" }

type grantModel struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	Role      string    `gorm:"column:role"`
	Account   string    `gorm:"column:account;index"`
	GrantedBy string    `gorm:"column:granted_by"`
	GrantedAt time.Time `gorm:"column:granted_at"`
}

func (grantModel) TableName() string { return "access_grants" }

type outboxModel struct {
	OutboxID  string    `gorm:"column:outbox_id;primaryKey"`
	EventType string    `gorm:"column:event_type"`
	Payload   []byte    `gorm:"column:payload"`
	Status    string    `gorm:"column:status;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "access_outbox" }

// SeedAdmin records the deployer as admin if no row exists yet.
func (r *Repository) SeedAdmin(ctx context.Context, admin chain.Address) error {
	if admin == chain.Zero {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&memberModel{Role: string(entities.RoleAdmin), Account: string(admin)}).Error
}

func (r *Repository) HasRole(ctx context.Context, role entities.Role, account chain.Address) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&memberModel{}).
		Where("role = ? AND account = ?", string(role), string(account)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) PutGrant(ctx context.Context, grant entities.Grant, event ports.EventEnvelope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := memberModel{Role: string(grant.Role), Account: string(grant.Account)}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error; err != nil {
			return mapPgError(err)
		}
		row := grantModel{
			Role:      string(grant.Role),
			Account:   string(grant.Account),
			GrantedBy: string(grant.GrantedBy),
			GrantedAt: grant.GrantedAt.UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		return tx.Create(&outboxModel{
			OutboxID:  event.EventID,
			EventType: event.EventType,
			Payload:   payload,
			Status:    "pending",
			CreatedAt: event.OccurredAt.UTC(),
		}).Error
	})
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error) {
	var rows []outboxModel
	query := r.db.WithContext(ctx).Where("status = ?", "pending").Order("created_at asc")
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

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string) error {
	result := r.db.WithContext(ctx).Model(&outboxModel{}).
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

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return nil
	}
	return err
}

// Migrate creates or updates the module's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&memberModel{}, &grantModel{}, &outboxModel{})
}
