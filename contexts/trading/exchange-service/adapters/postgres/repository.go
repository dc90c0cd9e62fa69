package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"bazaar/contexts/trading/exchange-service/domain/entities"
	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/contexts/trading/exchange-service/ports"
	"bazaar/internal/shared/chain"
	"bazaar/internal/shared/outbox"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// Repository persists listings and auctions. Amounts are 256-bit unsigned
// integers and are stored as decimal strings; NUMERIC(78,0) columns hold the
// full range.
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

type listingModel struct {
	TokenID      uint64    `gorm:"column:token_id;primaryKey"`
	CollectionID uint64    `gorm:"column:collection_id;index"`
	Seller       string    `gorm:"column:seller"`
	Price        string    `gorm:"column:price;type:numeric(78,0)"`
	RailToken    string    `gorm:"column:rail_token"`
	ListedAt     time.Time `gorm:"column:listed_at"`
}

func (listingModel) TableName() string { return "exchange_listings" }

type auctionModel struct {
	TokenID         uint64    `gorm:"column:token_id;primaryKey"`
	CollectionID    uint64    `gorm:"column:collection_id;index"`
	Seller          string    `gorm:"column:seller"`
	MinPrice        string    `gorm:"column:min_price;type:numeric(78,0)"`
	MinBidIncrement string    `gorm:"column:min_bid_increment;type:numeric(78,0)"`
	RailToken       string    `gorm:"column:rail_token"`
	HighestBidder   string    `gorm:"column:highest_bidder"`
	HighestBid      string    `gorm:"column:highest_bid;type:numeric(78,0)"`
	EndTime         time.Time `gorm:"column:end_time"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (auctionModel) TableName() string { return "exchange_auctions" }

type outboxModel struct {
	OutboxID  string    `gorm:"column:outbox_id;primaryKey"`
	EventType string    `gorm:"column:event_type"`
	Payload   []byte    `gorm:"column:payload"`
	Status    string    `gorm:"column:status;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (outboxModel) TableName() string { return "exchange_outbox" }

func (r *Repository) GetListing(ctx context.Context, tokenID uint64) (entities.Listing, bool, error) {
	var row listingModel
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, false, nil
		}
		return entities.Listing{}, false, err
	}
	listing, err := row.toEntity()
	if err != nil {
		return entities.Listing{}, false, err
	}
	return listing, true, nil
}

func (r *Repository) PutListing(ctx context.Context, listing entities.Listing) error {
	err := r.db.WithContext(ctx).Create(listingRow(listing)).Error
	return mapPgError(err, domainerrors.ErrAlreadyListed)
}

func (r *Repository) DeleteListing(ctx context.Context, tokenID uint64) error {
	result := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&listingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotListed
	}
	return nil
}

func (r *Repository) RestoreListing(ctx context.Context, listing entities.Listing) error {
	err := r.db.WithContext(ctx).Save(listingRow(listing)).Error
	return mapPgError(err, domainerrors.ErrAlreadyListed)
}

func (r *Repository) GetAuction(ctx context.Context, tokenID uint64) (entities.Auction, bool, error) {
	var row auctionModel
	err := r.db.WithContext(ctx).Where("token_id = ?", tokenID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Auction{}, false, nil
		}
		return entities.Auction{}, false, err
	}
	auction, err := row.toEntity()
	if err != nil {
		return entities.Auction{}, false, err
	}
	return auction, true, nil
}

func (r *Repository) PutAuction(ctx context.Context, auction entities.Auction) error {
	err := r.db.WithContext(ctx).Create(auctionRow(auction)).Error
	return mapPgError(err, domainerrors.ErrAuctionExists)
}

func (r *Repository) UpdateAuction(ctx context.Context, auction entities.Auction) error {
	row := auctionRow(auction)
	result := r.db.WithContext(ctx).Model(&auctionModel{}).
		Where("token_id = ?", auction.TokenID).
		Updates(map[string]any{
			"highest_bidder": row.HighestBidder,
			"highest_bid":    row.HighestBid,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUnknownToken
	}
	return nil
}

func (r *Repository) DeleteAuction(ctx context.Context, tokenID uint64) error {
	result := r.db.WithContext(ctx).Where("token_id = ?", tokenID).Delete(&auctionModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUnknownToken
	}
	return nil
}

func (r *Repository) RestoreAuction(ctx context.Context, auction entities.Auction) error {
	err := r.db.WithContext(ctx).Save(auctionRow(auction)).Error
	return mapPgError(err, domainerrors.ErrAuctionExists)
}

func (r *Repository) AppendEvent(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&outboxModel{
		OutboxID:  event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    "pending",
		CreatedAt: event.OccurredAt.UTC(),
	}).Error
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

func listingRow(listing entities.Listing) *listingModel {
	return &listingModel{
		TokenID:      listing.TokenID,
		CollectionID: listing.CollectionID,
		Seller:       string(listing.Seller),
		Price:        listing.Price.String(),
		RailToken:    string(listing.Rail.Token),
		ListedAt:     listing.ListedAt.UTC(),
	}
}

func auctionRow(auction entities.Auction) *auctionModel {
	row := &auctionModel{
		TokenID:         auction.TokenID,
		CollectionID:    auction.CollectionID,
		Seller:          string(auction.Seller),
		MinPrice:        auction.MinPrice.String(),
		MinBidIncrement: auction.MinBidIncrement.String(),
		RailToken:       string(auction.Rail.Token),
		EndTime:         auction.EndTime.UTC(),
		CreatedAt:       auction.CreatedAt.UTC(),
	}
	if auction.HasBid() {
		row.HighestBidder = string(auction.HighestBidder)
		row.HighestBid = auction.HighestBid.String()
	}
	return row
}

func (row listingModel) toEntity() (entities.Listing, error) {
	price, err := parseAmount(row.Price)
	if err != nil {
		return entities.Listing{}, err
	}
	return entities.Listing{
		TokenID:      row.TokenID,
		CollectionID: row.CollectionID,
		Seller:       chain.Address(row.Seller),
		Price:        price,
		Rail:         chain.Rail{Token: chain.Address(row.RailToken)},
		ListedAt:     row.ListedAt,
	}, nil
}

func (row auctionModel) toEntity() (entities.Auction, error) {
	minPrice, err := parseAmount(row.MinPrice)
	if err != nil {
		return entities.Auction{}, err
	}
	minStep, err := parseAmount(row.MinBidIncrement)
	if err != nil {
		return entities.Auction{}, err
	}
	auction := entities.Auction{
		TokenID:         row.TokenID,
		CollectionID:    row.CollectionID,
		Seller:          chain.Address(row.Seller),
		MinPrice:        minPrice,
		MinBidIncrement: minStep,
		Rail:            chain.Rail{Token: chain.Address(row.RailToken)},
		EndTime:         row.EndTime,
		CreatedAt:       row.CreatedAt,
	}
	if row.HighestBid != "" {
		bid, err := parseAmount(row.HighestBid)
		if err != nil {
			return entities.Auction{}, err
		}
		auction.HighestBidder = chain.Address(row.HighestBidder)
		auction.HighestBid = bid
	}
	return auction, nil
}

func parseAmount(value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("malformed stored amount: %q", value)
	}
	return amount, nil
}

func mapPgError(err error, onConflict error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return onConflict
	}
	return err
}

// Migrate creates or updates the module's tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&listingModel{}, &auctionModel{}, &outboxModel{})
}
