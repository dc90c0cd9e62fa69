package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bazaar/contexts/catalog/collection-service/domain/entities"
	domainerrors "bazaar/contexts/catalog/collection-service/domain/errors"
	"bazaar/contexts/catalog/collection-service/ports"
	"bazaar/internal/shared/chain"
	"bazaar/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, clock, and id
// generator ports. It owns the collection and token id counters; both start
// at 1 and only move forward.
type Store struct {
	mu sync.RWMutex

	nextCollectionID uint64
	nextTokenID      uint64

	collections map[uint64]entities.Collection
	items       map[uint64]entities.Item
	contracts   map[uint64]chain.ItemContract
	outbox      []outbox.Message
}

func NewStore() *Store {
	return &Store{
		nextCollectionID: 1,
		nextTokenID:      1,
		collections:      make(map[uint64]entities.Collection),
		items:            make(map[uint64]entities.Item),
		contracts:        make(map[uint64]chain.ItemContract),
	}
}

func (s *Store) CreateCollection(
	_ context.Context,
	input ports.CreateCollectionInput,
	event func(entities.Collection) ports.EventEnvelope,
) (entities.Collection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection := entities.Collection{
		ID:           s.nextCollectionID,
		Creator:      input.Creator,
		ContractAddr: input.ContractAddr,
		Name:         input.Name,
		Symbol:       input.Symbol,
		CreatedAt:    input.CreatedAt.UTC(),
	}
	if err := s.appendOutbox(event(collection)); err != nil {
		return entities.Collection{}, err
	}
	s.collections[collection.ID] = collection
	s.contracts[collection.ID] = input.Contract
	s.nextCollectionID++
	return collection, nil
}

func (s *Store) CreateItem(
	_ context.Context,
	input ports.CreateItemInput,
	event func(entities.Item) ports.EventEnvelope,
) (entities.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[input.CollectionID]; !ok {
		return entities.Item{}, domainerrors.ErrUnknownCollection
	}
	item := entities.Item{
		TokenID:      s.nextTokenID,
		CollectionID: input.CollectionID,
		Creator:      input.Creator,
		URI:          input.URI,
		MintedAt:     input.MintedAt.UTC(),
	}
	if err := s.appendOutbox(event(item)); err != nil {
		return entities.Item{}, err
	}
	s.items[item.TokenID] = item
	s.nextTokenID++
	return item, nil
}

func (s *Store) RemoveItem(_ context.Context, tokenID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[tokenID]; !ok {
		return domainerrors.ErrUnknownItem
	}
	delete(s.items, tokenID)
	// Drop the pending event for the removed item; counters stay advanced.
	for i := len(s.outbox) - 1; i >= 0; i-- {
		if s.outbox[i].EventType == "marketplace.item_created" && s.outbox[i].Status == "pending" {
			var envelope struct {
				EntityID string `json:"entity_id"`
			}
			if json.Unmarshal(s.outbox[i].Payload, &envelope) == nil && envelope.EntityID == fmt.Sprintf("%d", tokenID) {
				s.outbox = append(s.outbox[:i], s.outbox[i+1:]...)
				break
			}
		}
	}
	return nil
}

func (s *Store) GetCollection(_ context.Context, collectionID uint64) (entities.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collection, ok := s.collections[collectionID]
	if !ok {
		return entities.Collection{}, domainerrors.ErrUnknownCollection
	}
	return collection, nil
}

func (s *Store) GetItem(_ context.Context, tokenID uint64) (entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[tokenID]
	if !ok {
		return entities.Item{}, domainerrors.ErrUnknownItem
	}
	return item, nil
}

func (s *Store) Contract(_ context.Context, collectionID uint64) (chain.ItemContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	contract, ok := s.contracts[collectionID]
	if !ok {
		return nil, domainerrors.ErrUnknownCollection
	}
	return contract, nil
}

// ListPendingOutbox returns up to limit unpublished event rows, oldest first.
func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]outbox.Message, 0, limit)
	for _, row := range s.outbox {
		if row.Status != "pending" {
			continue
		}
		rows = append(rows, row)
		if limit > 0 && len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID == outboxID {
			s.outbox[i].Status = "published"
			return nil
		}
	}
	return fmt.Errorf("outbox row not found: %s", outboxID)
}

// PendingOutbox returns unpublished event rows, oldest first.
func (s *Store) PendingOutbox() []outbox.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]outbox.Message, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.Status == "pending" {
			rows = append(rows, row)
		}
	}
	return rows
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) appendOutbox(event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, outbox.Message{
		ID:        event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    "pending",
	})
	return nil
}
