package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"bazaar/contexts/catalog/collection-service/domain/entities"
	domainerrors "bazaar/contexts/catalog/collection-service/domain/errors"
	"bazaar/contexts/catalog/collection-service/ports"
	"bazaar/internal/shared/chain"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// Repository persists collections and items. Counter rows are advanced inside
// the same transaction as the insert, so ids stay strictly increasing and a
// rolled-back transaction leaves no gap in observable state.
//
// Live contract handles cannot be stored in a row; the registry rehydrates
// them from the recorded address.
type Repository struct {
	db       *gorm.DB
	registry ports.ContractRegistry
	logger   *slog.Logger
}

func NewRepository(db *gorm.DB, registry ports.ContractRegistry, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, registry: registry, logger: logger}
}

type collectionModel struct {
	CollectionID uint64    `gorm:"column:collection_id;primaryKey"`
	Creator      string    `gorm:"column:creator"`
	ContractAddr string    `gorm:"column:contract_addr"`
	Name         string    `gorm:"column:name"`
	Symbol       string    `gorm:"column:symbol"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (collectionModel) TableName() string { return "catalog_collections" }

type itemModel struct {
	TokenID      uint64    `gorm:"column:token_id;primaryKey"`
	CollectionID uint64    `gorm:"column:collection_id;index"`
	Creator      string    `gorm:"column:creator"`
	URI          string    `gorm:"column:uri"`
	MintedAt     time.Time `gorm:"column:minted_at"`
}

func (itemModel) TableName() string { return "catalog_items" }

type counterModel struct {
	Name  string `gorm:"column:name;primaryKey"`
	Value uint64 `gorm:"column:value"`
}

func (counterModel) TableName() string { return "catalog_counters" }

type outboxModel struct {
	OutboxID  string    `gorm:"column:outbox_id;primaryKey"`
	EventType string    `gorm:"column:event_type"`
	Payload   []byte    `gorm:"column:payload"`
	Status    string    `gorm:"column:status;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "catalog_outbox" }

func (r *Repository) CreateCollection(
	ctx context.Context,
	input ports.CreateCollectionInput,
	event func(entities.Collection) ports.EventEnvelope,
) (entities.Collection, error) {
	var created entities.Collection
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		id, err := nextCounter(tx, "collection_id")
		if err != nil {
			return err
		}
		created = entities.Collection{
			ID:           id,
			Creator:      input.Creator,
			ContractAddr: input.ContractAddr,
			Name:         input.Name,
			Symbol:       input.Symbol,
			CreatedAt:    input.CreatedAt.UTC(),
		}
		row := collectionModel{
			CollectionID: created.ID,
			Creator:      string(created.Creator),
			ContractAddr: string(created.ContractAddr),
			Name:         created.Name,
			Symbol:       created.Symbol,
			CreatedAt:    created.CreatedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return mapPgError(err)
		}
		return appendOutbox(tx, event(created))
	})
	if err != nil {
		return entities.Collection{}, err
	}
	return created, nil
}

func (r *Repository) CreateItem(
	ctx context.Context,
	input ports.CreateItemInput,
	event func(entities.Item) ports.EventEnvelope,
) (entities.Item, error) {
	var created entities.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var collection collectionModel
		if err := tx.Where("collection_id = ?", input.CollectionID).First(&collection).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUnknownCollection
			}
			return err
		}
		id, err := nextCounter(tx, "token_id")
		if err != nil {
			return err
		}
		created = entities.Item{
			TokenID:      id,
			CollectionID: input.CollectionID,
			Creator:      input.Creator,
			URI:          input.URI,
			MintedAt:     input.MintedAt.UTC(),
		}
		row := itemModel{
			TokenID:      created.TokenID,
			CollectionID: created.CollectionID,
			Creator:      string(created.Creator),
			URI:          created.URI,
			MintedAt:     created.MintedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			return mapPgError(err)
		}
		return appendOutbox(tx, event(created))
	})
	if err != nil {
		return entities.Item{}, err
	}
	return created, nil
}

func (r *Repository) RemoveItem(ctx context.Context, tokenID uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("token_id = ?", tokenID).Delete(&itemModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrUnknownItem
		}
		return tx.Where("event_type = ? AND status = ? AND payload->>'entity_id' = ?",
			"marketplace.item_created", "pending", strconv.FormatUint(tokenID, 10)).
			Delete(&outboxModel{}).Error
	})
}

func (r *Repository) GetCollection(ctx context.Context, collectionID uint64) (entities.Collection, error) {
	var row collectionModel
	err := r.db.WithContext(ctx).Where("collection_id = ?", collectionID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Collection{}, domainerrors.ErrUnknownCollection
		}
		return entities.Collection{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetItem(ctx context.Context, tokenID uint64) (entities.Item, error) {
	var row itemModel
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Item{}, domainerrors.ErrUnknownItem
		}
		return entities.Item{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) Contract(ctx context.Context, collectionID uint64) (chain.ItemContract, error) {
	collection, err := r.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	contract, ok := r.registry.Contract(collection.ContractAddr)
	if !ok {
		return nil, domainerrors.ErrUnknownCollection
	}
	return contract, nil
}

func (row collectionModel) toEntity() entities.Collection {
	return entities.Collection{
		ID:           row.CollectionID,
		Creator:      chain.Address(row.Creator),
		ContractAddr: chain.Address(row.ContractAddr),
		Name:         row.Name,
		Symbol:       row.Symbol,
		CreatedAt:    row.CreatedAt,
	}
}

func (row itemModel) toEntity() entities.Item {
	return entities.Item{
		TokenID:      row.TokenID,
		CollectionID: row.CollectionID,
		Creator:      chain.Address(row.Creator),
		URI:          row.URI,
		MintedAt:     row.MintedAt,
	}
}

func nextCounter(tx *gorm.DB, name string) (uint64, error) {
	var counter counterModel
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ?", name).
		First(&counter).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		counter = counterModel{Name: name, Value: 1}
		if err := tx.Create(&counter).Error; err != nil {
			return 0, mapPgError(err)
		}
		return counter.Value, nil
	}
	if err != nil {
		return 0, err
	}
	counter.Value++
	if err := tx.Save(&counter).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}

func appendOutbox(tx *gorm.DB, event ports.EventEnvelope) error {
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
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("catalog id already allocated: %w", err)
	}
	return err
}

// Migrate creates or updates the module's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&collectionModel{}, &itemModel{}, &counterModel{}, &outboxModel{})
}
