package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bazaar/contexts/trading/exchange-service/domain/entities"
	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/contexts/trading/exchange-service/ports"
	"bazaar/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, outbox, clock,
// and id generator ports. Listings and auctions are keyed by token id, which
// is marketplace-global.
type Store struct {
	mu sync.RWMutex

	listings map[uint64]entities.Listing
	auctions map[uint64]entities.Auction
	outbox   []outbox.Message
}

func NewStore() *Store {
	return &Store{
		listings: make(map[uint64]entities.Listing),
		auctions: make(map[uint64]entities.Auction),
	}
}

func (s *Store) GetListing(_ context.Context, tokenID uint64) (entities.Listing, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[tokenID]
	return listing, ok, nil
}

func (s *Store) PutListing(_ context.Context, listing entities.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[listing.TokenID]; ok {
		return domainerrors.ErrAlreadyListed
	}
	s.listings[listing.TokenID] = listing
	return nil
}

func (s *Store) DeleteListing(_ context.Context, tokenID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listings[tokenID]; !ok {
		return domainerrors.ErrNotListed
	}
	delete(s.listings, tokenID)
	return nil
}

func (s *Store) RestoreListing(_ context.Context, listing entities.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listings[listing.TokenID] = listing
	return nil
}

func (s *Store) GetAuction(_ context.Context, tokenID uint64) (entities.Auction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[tokenID]
	return auction, ok, nil
}

func (s *Store) PutAuction(_ context.Context, auction entities.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.TokenID]; ok {
		return domainerrors.ErrAuctionExists
	}
	s.auctions[auction.TokenID] = auction
	return nil
}

func (s *Store) UpdateAuction(_ context.Context, auction entities.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.TokenID]; !ok {
		return domainerrors.ErrUnknownToken
	}
	s.auctions[auction.TokenID] = auction
	return nil
}

func (s *Store) DeleteAuction(_ context.Context, tokenID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[tokenID]; !ok {
		return domainerrors.ErrUnknownToken
	}
	delete(s.auctions, tokenID)
	return nil
}

func (s *Store) RestoreAuction(_ context.Context, auction entities.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.auctions[auction.TokenID] = auction
	return nil
}

func (s *Store) AppendEvent(_ context.Context, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

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
