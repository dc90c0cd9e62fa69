package ports

import (
	"context"
	"time"

	"bazaar/contexts/catalog/collection-service/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
	"bazaar/internal/shared/chain"
)

// CreateCollectionInput carries a deployed contract ready to be recorded.
// The repository allocates the next collection id; ids are strictly
// increasing and never reused.
type CreateCollectionInput struct {
	Creator      chain.Address
	ContractAddr chain.Address
	Contract     chain.ItemContract
	Name         string
	Symbol       string
	CreatedAt    time.Time
}

// CreateItemInput allocates the next marketplace-global token id.
type CreateItemInput struct {
	CollectionID uint64
	Creator      chain.Address
	URI          string
	MintedAt     time.Time
}

// Repository owns collection/item persistence and the id counters.
type Repository interface {
	// CreateCollection must atomically allocate the id, persist the record,
	// and append the outbox event.
	CreateCollection(ctx context.Context, input CreateCollectionInput, event func(entities.Collection) EventEnvelope) (entities.Collection, error)
	// CreateItem must atomically allocate the token id, persist the record,
	// and append the outbox event. The mint into the collection contract
	// happens after; RemoveItem compensates a failed mint.
	CreateItem(ctx context.Context, input CreateItemInput, event func(entities.Item) EventEnvelope) (entities.Item, error)
	RemoveItem(ctx context.Context, tokenID uint64) error
	GetCollection(ctx context.Context, collectionID uint64) (entities.Collection, error)
	GetItem(ctx context.Context, tokenID uint64) (entities.Item, error)
	// Contract resolves the live ownership collaborator for a collection.
	Contract(ctx context.Context, collectionID uint64) (chain.ItemContract, error)
}

// RoleChecker gates artist-only operations; implemented by access-control.
type RoleChecker interface {
	RequireArtist(ctx context.Context, account chain.Address) error
}

// ContractRegistry resolves deployed contract addresses to live instances.
// Persistence adapters that only store addresses use it to rehydrate handles.
type ContractRegistry interface {
	Contract(addr chain.Address) (chain.ItemContract, bool)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-module envelope contract.
type EventEnvelope = contractsv1.Envelope
