package ports

import (
	"context"
	"time"

	"bazaar/contexts/trading/exchange-service/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
	"bazaar/internal/shared/chain"
	"bazaar/internal/shared/outbox"
)

// Repository owns listing/auction persistence. Record mutations happen before
// external collaborator calls; Restore* methods reinstate a record when a
// later interaction fails, keeping operations all-or-nothing.
type Repository interface {
	GetListing(ctx context.Context, tokenID uint64) (entities.Listing, bool, error)
	PutListing(ctx context.Context, listing entities.Listing) error
	DeleteListing(ctx context.Context, tokenID uint64) error
	RestoreListing(ctx context.Context, listing entities.Listing) error

	GetAuction(ctx context.Context, tokenID uint64) (entities.Auction, bool, error)
	PutAuction(ctx context.Context, auction entities.Auction) error
	UpdateAuction(ctx context.Context, auction entities.Auction) error
	DeleteAuction(ctx context.Context, tokenID uint64) error
	RestoreAuction(ctx context.Context, auction entities.Auction) error

	// AppendEvent records the success notification once an operation has
	// fully completed; exactly one per successful operation.
	AppendEvent(ctx context.Context, event EventEnvelope) error
}

// CollectionDirectory resolves a collection to its ownership collaborator;
// implemented by the catalog module.
type CollectionDirectory interface {
	ItemContract(ctx context.Context, collectionID uint64) (chain.ItemContract, error)
}

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]outbox.Message, error)
	MarkOutboxPublished(ctx context.Context, outboxID string) error
}

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-module envelope contract.
type EventEnvelope = contractsv1.Envelope
