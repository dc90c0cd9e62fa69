package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"strconv"
	"time"

	"bazaar/contexts/trading/exchange-service/domain/entities"
	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/contexts/trading/exchange-service/domain/services"
	"bazaar/contexts/trading/exchange-service/ports"
	"bazaar/internal/shared/chain"
)

// Service implements the listing and auction books. All operations are
// synchronous, whole-operation rejections: a failed precondition or
// collaborator call leaves no observable state change behind.
type Service struct {
	Repo            ports.Repository
	Collections     ports.CollectionDirectory
	Escrow          services.Escrow
	Guard           *services.ReentrancyGuard
	Clock           ports.Clock
	IDGen           ports.IDGenerator
	AuctionDuration time.Duration
	Logger          *slog.Logger
}

const defaultAuctionDuration = 72 * time.Hour

// GetListing returns the standing listing for a token.
func (s Service) GetListing(ctx context.Context, tokenID uint64) (entities.Listing, error) {
	listing, ok, err := s.Repo.GetListing(ctx, tokenID)
	if err != nil {
		return entities.Listing{}, err
	}
	if !ok {
		return entities.Listing{}, domainerrors.ErrNotListed
	}
	return listing, nil
}

// GetAuction returns the open auction for a token.
func (s Service) GetAuction(ctx context.Context, tokenID uint64) (entities.Auction, error) {
	auction, ok, err := s.Repo.GetAuction(ctx, tokenID)
	if err != nil {
		return entities.Auction{}, err
	}
	if !ok {
		return entities.Auction{}, domainerrors.ErrUnknownToken
	}
	return auction, nil
}

// ownedBy verifies caller currently owns tokenID in the collection's contract.
func (s Service) ownedBy(ctx context.Context, collectionID, tokenID uint64, caller chain.Address) (chain.ItemContract, error) {
	contract, err := s.Collections.ItemContract(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	owner, err := contract.OwnerOf(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	if owner != caller {
		return nil, domainerrors.ErrNotOwner
	}
	return contract, nil
}

func (s Service) appendEvent(ctx context.Context, eventType, entityType string, entityID uint64, payload any) error {
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.Repo.AppendEvent(ctx, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    s.now(),
		SourceModule:  "trading/exchange-service",
		TraceID:       eventID,
		SchemaVersion: 1,
		EntityType:    entityType,
		EntityID:      strconv.FormatUint(entityID, 10),
		Data:          data,
	})
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) auctionDuration() time.Duration {
	if s.AuctionDuration <= 0 {
		return defaultAuctionDuration
	}
	return s.AuctionDuration
}

func validAmount(amount *big.Int) bool {
	return amount != nil && amount.Sign() > 0
}

func wrapTransfer(err error) error {
	return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
}
