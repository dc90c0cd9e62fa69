package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bazaar/contexts/catalog/collection-service/domain/entities"
	domainerrors "bazaar/contexts/catalog/collection-service/domain/errors"
	"bazaar/contexts/catalog/collection-service/ports"
	"bazaar/internal/shared/chain"
)

type Service struct {
	Repo    ports.Repository
	Roles   ports.RoleChecker
	Factory chain.ItemContractFactory
	Clock   ports.Clock
	IDGen   ports.IDGenerator
	Logger  *slog.Logger
}

// CreateCollection deploys a fresh ownership contract and records the
// collection under the next collection id. Artist role required.
func (s Service) CreateCollection(ctx context.Context, caller chain.Address, name, symbol string) (entities.Collection, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(symbol) == "" {
		return entities.Collection{}, domainerrors.ErrInvalidName
	}
	if err := s.Roles.RequireArtist(ctx, caller); err != nil {
		return entities.Collection{}, err
	}

	addr, contract, err := s.Factory.Deploy(ctx, name, symbol)
	if err != nil {
		return entities.Collection{}, err
	}

	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Collection{}, err
	}
	collection, err := s.Repo.CreateCollection(ctx, ports.CreateCollectionInput{
		Creator:      caller,
		ContractAddr: addr,
		Contract:     contract,
		Name:         name,
		Symbol:       symbol,
		CreatedAt:    s.now(),
	}, func(created entities.Collection) ports.EventEnvelope {
		return s.envelope(eventID, "marketplace.collection_created", "collection", created.ID, created)
	})
	if err != nil {
		return entities.Collection{}, err
	}

	ResolveLogger(s.Logger).Info("collection created",
		"event", "collection_created",
		"module", "catalog/collection-service",
		"layer", "application",
		"collection_id", collection.ID,
		"creator", string(collection.Creator),
		"contract_addr", string(collection.ContractAddr),
	)
	return collection, nil
}

// CreateItem mints a new item into the collection's contract under the next
// marketplace-global token id. Caller must be an artist and the collection
// creator.
func (s Service) CreateItem(ctx context.Context, caller chain.Address, collectionID uint64, uri string) (entities.Item, error) {
	if strings.TrimSpace(uri) == "" {
		return entities.Item{}, domainerrors.ErrInvalidURI
	}

	collection, err := s.Repo.GetCollection(ctx, collectionID)
	if err != nil {
		return entities.Item{}, err
	}
	if err := s.Roles.RequireArtist(ctx, caller); err != nil {
		return entities.Item{}, err
	}
	if collection.Creator != caller {
		return entities.Item{}, domainerrors.ErrNotCollectionCreator
	}

	contract, err := s.Repo.Contract(ctx, collectionID)
	if err != nil {
		return entities.Item{}, err
	}

	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Item{}, err
	}
	item, err := s.Repo.CreateItem(ctx, ports.CreateItemInput{
		CollectionID: collectionID,
		Creator:      caller,
		URI:          uri,
		MintedAt:     s.now(),
	}, func(created entities.Item) ports.EventEnvelope {
		return s.envelope(eventID, "marketplace.item_created", "item", created.TokenID, created)
	})
	if err != nil {
		return entities.Item{}, err
	}

	if err := contract.Mint(ctx, caller, item.TokenID, uri); err != nil {
		// A failed mint leaves no item record; the burned id keeps the
		// counter strictly increasing.
		if removeErr := s.Repo.RemoveItem(ctx, item.TokenID); removeErr != nil {
			ResolveLogger(s.Logger).Error("item rollback failed after mint error",
				"event", "item_rollback_failed",
				"module", "catalog/collection-service",
				"layer", "application",
				"token_id", item.TokenID,
				"error", removeErr.Error(),
			)
		}
		return entities.Item{}, err
	}

	ResolveLogger(s.Logger).Info("item created",
		"event", "item_created",
		"module", "catalog/collection-service",
		"layer", "application",
		"token_id", item.TokenID,
		"collection_id", collectionID,
		"owner", string(caller),
	)
	return item, nil
}

func (s Service) GetCollection(ctx context.Context, collectionID uint64) (entities.Collection, error) {
	return s.Repo.GetCollection(ctx, collectionID)
}

func (s Service) GetItem(ctx context.Context, tokenID uint64) (entities.Item, error) {
	return s.Repo.GetItem(ctx, tokenID)
}

// ItemContract resolves the ownership collaborator for a collection. The
// trading books route all ownership reads and transfers through it.
func (s Service) ItemContract(ctx context.Context, collectionID uint64) (chain.ItemContract, error) {
	return s.Repo.Contract(ctx, collectionID)
}

func (s Service) envelope(eventID, eventType, entityType string, entityID uint64, payload any) ports.EventEnvelope {
	data, _ := json.Marshal(payload)
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    s.now(),
		SourceModule:  "catalog/collection-service",
		TraceID:       eventID,
		SchemaVersion: 1,
		EntityType:    entityType,
		EntityID:      strconv.FormatUint(entityID, 10),
		Data:          data,
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
