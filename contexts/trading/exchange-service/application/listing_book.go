package application

import (
	"context"
	"math/big"

	"bazaar/contexts/trading/exchange-service/domain/entities"
	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/internal/shared/chain"
)

// ListItem creates a fixed-price listing. The caller must currently own the
// token; a token carries at most one listing and never a listing and an
// auction at once.
func (s Service) ListItem(
	ctx context.Context,
	caller chain.Address,
	collectionID, tokenID uint64,
	price *big.Int,
	rail chain.Rail,
) (entities.Listing, error) {
	if !validAmount(price) {
		return entities.Listing{}, domainerrors.ErrInvalidAmount
	}
	if _, err := s.ownedBy(ctx, collectionID, tokenID, caller); err != nil {
		return entities.Listing{}, err
	}

	if _, ok, err := s.Repo.GetListing(ctx, tokenID); err != nil {
		return entities.Listing{}, err
	} else if ok {
		return entities.Listing{}, domainerrors.ErrAlreadyListed
	}
	if _, ok, err := s.Repo.GetAuction(ctx, tokenID); err != nil {
		return entities.Listing{}, err
	} else if ok {
		return entities.Listing{}, domainerrors.ErrAuctionExists
	}

	listing := entities.Listing{
		TokenID:      tokenID,
		CollectionID: collectionID,
		Seller:       caller,
		Price:        new(big.Int).Set(price),
		Rail:         rail,
		ListedAt:     s.now(),
	}
	if err := s.Repo.PutListing(ctx, listing); err != nil {
		return entities.Listing{}, err
	}
	if err := s.appendEvent(ctx, "marketplace.item_listed", "listing", tokenID, listing); err != nil {
		return entities.Listing{}, err
	}

	ResolveLogger(s.Logger).Info("item listed",
		"event", "item_listed",
		"module", "trading/exchange-service",
		"layer", "application",
		"token_id", tokenID,
		"collection_id", collectionID,
		"seller", string(caller),
		"price", price.String(),
	)
	return listing, nil
}

// CancelListing withdraws a listing. Only the current token owner may cancel;
// ownership is unchanged, so the pre-listing state is restored exactly.
func (s Service) CancelListing(ctx context.Context, caller chain.Address, collectionID, tokenID uint64) error {
	listing, ok, err := s.Repo.GetListing(ctx, tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrNotListed
	}
	if _, err := s.ownedBy(ctx, collectionID, tokenID, caller); err != nil {
		return err
	}

	if err := s.Repo.DeleteListing(ctx, tokenID); err != nil {
		return err
	}
	if err := s.appendEvent(ctx, "marketplace.listing_canceled", "listing", tokenID, map[string]any{
		"collection_id": collectionID,
		"token_id":      tokenID,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("listing canceled",
		"event", "listing_canceled",
		"module", "trading/exchange-service",
		"layer", "application",
		"token_id", tokenID,
		"seller", string(listing.Seller),
	)
	return nil
}

// BuyItem executes a purchase. The listing is deleted before any collaborator
// is called, so a reentrant call finds the item already sold. On the native
// rail the attached value must cover the price; only the price itself is
// pulled, so overpayment never leaves the buyer.
func (s Service) BuyItem(
	ctx context.Context,
	buyer chain.Address,
	collectionID, tokenID uint64,
	attached *big.Int,
) (entities.Listing, error) {
	release, err := s.Guard.Enter()
	if err != nil {
		return entities.Listing{}, err
	}
	defer release()

	listing, ok, err := s.Repo.GetListing(ctx, tokenID)
	if err != nil {
		return entities.Listing{}, err
	}
	if !ok || listing.CollectionID != collectionID {
		return entities.Listing{}, domainerrors.ErrNotListed
	}

	contract, err := s.Collections.ItemContract(ctx, collectionID)
	if err != nil {
		return entities.Listing{}, err
	}
	if listing.Rail.IsNative() {
		if attached == nil || attached.Cmp(listing.Price) < 0 {
			return entities.Listing{}, domainerrors.ErrInsufficientPayment
		}
	}

	// Effects before interactions.
	if err := s.Repo.DeleteListing(ctx, tokenID); err != nil {
		return entities.Listing{}, err
	}

	if err := s.Escrow.Pull(ctx, buyer, listing.Price, listing.Rail, listing.Price); err != nil {
		s.restoreListing(ctx, listing)
		return entities.Listing{}, err
	}
	if err := contract.TransferFrom(ctx, s.Escrow.Custodian, listing.Seller, buyer, tokenID); err != nil {
		s.compensate(ctx, "buy_item_refund", s.Escrow.Push(ctx, buyer, listing.Price, listing.Rail))
		s.restoreListing(ctx, listing)
		return entities.Listing{}, wrapTransfer(err)
	}
	if err := s.Escrow.Push(ctx, listing.Seller, listing.Price, listing.Rail); err != nil {
		s.compensate(ctx, "buy_item_return_item",
			contract.TransferFrom(ctx, s.Escrow.Custodian, buyer, listing.Seller, tokenID))
		s.compensate(ctx, "buy_item_refund", s.Escrow.Push(ctx, buyer, listing.Price, listing.Rail))
		s.restoreListing(ctx, listing)
		return entities.Listing{}, err
	}

	if err := s.appendEvent(ctx, "marketplace.item_bought", "listing", tokenID, map[string]any{
		"token_id": tokenID,
		"buyer":    buyer,
		"price":    listing.Price.String(),
	}); err != nil {
		return entities.Listing{}, err
	}

	ResolveLogger(s.Logger).Info("item bought",
		"event", "item_bought",
		"module", "trading/exchange-service",
		"layer", "application",
		"token_id", tokenID,
		"buyer", string(buyer),
		"price", listing.Price.String(),
	)
	return listing, nil
}

func (s Service) restoreListing(ctx context.Context, listing entities.Listing) {
	if err := s.Repo.RestoreListing(ctx, listing); err != nil {
		ResolveLogger(s.Logger).Error("listing restore failed",
			"event", "listing_restore_failed",
			"module", "trading/exchange-service",
			"layer", "application",
			"token_id", listing.TokenID,
			"error", err.Error(),
		)
	}
}

func (s Service) compensate(_ context.Context, step string, err error) {
	if err != nil {
		ResolveLogger(s.Logger).Error("compensation step failed",
			"event", "compensation_failed",
			"module", "trading/exchange-service",
			"layer", "application",
			"step", step,
			"error", err.Error(),
		)
	}
}
