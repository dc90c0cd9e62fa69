package application

import (
	"context"
	"math/big"

	"bazaar/contexts/trading/exchange-service/domain/entities"
	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/internal/shared/chain"
)

// ListItemOnAuction opens an English auction for a token the caller owns.
// The end time is fixed here and never mutated; the item stays with the
// seller until finalize.
func (s Service) ListItemOnAuction(
	ctx context.Context,
	caller chain.Address,
	collectionID, tokenID uint64,
	minPrice, minBidIncrement *big.Int,
	rail chain.Rail,
) (entities.Auction, error) {
	if !validAmount(minPrice) || !validAmount(minBidIncrement) {
		return entities.Auction{}, domainerrors.ErrInvalidAmount
	}
	if _, err := s.ownedBy(ctx, collectionID, tokenID, caller); err != nil {
		return entities.Auction{}, err
	}

	if _, ok, err := s.Repo.GetAuction(ctx, tokenID); err != nil {
		return entities.Auction{}, err
	} else if ok {
		return entities.Auction{}, domainerrors.ErrAuctionExists
	}
	if _, ok, err := s.Repo.GetListing(ctx, tokenID); err != nil {
		return entities.Auction{}, err
	} else if ok {
		return entities.Auction{}, domainerrors.ErrAlreadyListed
	}

	now := s.now()
	auction := entities.Auction{
		TokenID:         tokenID,
		CollectionID:    collectionID,
		Seller:          caller,
		MinPrice:        new(big.Int).Set(minPrice),
		MinBidIncrement: new(big.Int).Set(minBidIncrement),
		Rail:            rail,
		EndTime:         now.Add(s.auctionDuration()),
		CreatedAt:       now,
	}
	if err := s.Repo.PutAuction(ctx, auction); err != nil {
		return entities.Auction{}, err
	}
	if err := s.appendEvent(ctx, "marketplace.auction_created", "auction", tokenID, auction); err != nil {
		return entities.Auction{}, err
	}

	ResolveLogger(s.Logger).Info("auction created",
		"event", "auction_created",
		"module", "trading/exchange-service",
		"layer", "application",
		"token_id", tokenID,
		"collection_id", collectionID,
		"seller", string(caller),
		"min_price", minPrice.String(),
		"min_bid_increment", minBidIncrement.String(),
		"end_time", auction.EndTime,
	)
	return auction, nil
}

// MakeBid places a competitive bid. The first bid must reach the minimum
// price, every later one the highest bid plus the increment. The outbid
// bidder is fully refunded before the new bid is recorded.
func (s Service) MakeBid(
	ctx context.Context,
	bidder chain.Address,
	collectionID, tokenID uint64,
	bidAmount, attached *big.Int,
) (entities.Auction, error) {
	release, err := s.Guard.Enter()
	if err != nil {
		return entities.Auction{}, err
	}
	defer release()

	if !validAmount(bidAmount) {
		return entities.Auction{}, domainerrors.ErrInvalidAmount
	}
	// Collection existence is checked independently of the auction lookup so
	// the two absences fail with distinct kinds.
	if _, err := s.Collections.ItemContract(ctx, collectionID); err != nil {
		return entities.Auction{}, err
	}

	auction, ok, err := s.Repo.GetAuction(ctx, tokenID)
	if err != nil {
		return entities.Auction{}, err
	}
	if !ok {
		return entities.Auction{}, domainerrors.ErrUnknownToken
	}
	if auction.Expired(s.now()) {
		return entities.Auction{}, domainerrors.ErrAuctionExpired
	}
	if bidAmount.Cmp(auction.RequiredBid()) < 0 {
		return entities.Auction{}, domainerrors.ErrBidTooLow
	}

	if err := s.Escrow.Pull(ctx, bidder, bidAmount, auction.Rail, attached); err != nil {
		return entities.Auction{}, err
	}
	if auction.HasBid() {
		if err := s.Escrow.Push(ctx, auction.HighestBidder, auction.HighestBid, auction.Rail); err != nil {
			s.compensate(ctx, "make_bid_refund_new_bidder", s.Escrow.Push(ctx, bidder, bidAmount, auction.Rail))
			return entities.Auction{}, err
		}
	}

	auction.HighestBidder = bidder
	auction.HighestBid = new(big.Int).Set(bidAmount)
	if err := s.Repo.UpdateAuction(ctx, auction); err != nil {
		return entities.Auction{}, err
	}
	if err := s.appendEvent(ctx, "marketplace.bid_placed", "auction", tokenID, map[string]any{
		"token_id": tokenID,
		"bidder":   bidder,
		"bid":      bidAmount.String(),
	}); err != nil {
		return entities.Auction{}, err
	}

	ResolveLogger(s.Logger).Info("bid placed",
		"event", "bid_placed",
		"module", "trading/exchange-service",
		"layer", "application",
		"token_id", tokenID,
		"bidder", string(bidder),
		"bid", bidAmount.String(),
	)
	return auction, nil
}

// FinishAuction settles an ended auction with at least one bid: the item
// moves seller to winner and the winning bid is paid out. Only the seller
// (who still owns the item) may finalize.
func (s Service) FinishAuction(ctx context.Context, caller chain.Address, collectionID, tokenID uint64) (entities.Auction, error) {
	release, err := s.Guard.Enter()
	if err != nil {
		return entities.Auction{}, err
	}
	defer release()

	auction, ok, err := s.Repo.GetAuction(ctx, tokenID)
	if err != nil {
		return entities.Auction{}, err
	}
	if !ok {
		return entities.Auction{}, domainerrors.ErrUnknownToken
	}
	contract, err := s.ownedBy(ctx, collectionID, tokenID, caller)
	if err != nil {
		return entities.Auction{}, err
	}
	if !auction.Expired(s.now()) {
		return entities.Auction{}, domainerrors.ErrAuctionNotEnded
	}
	if !auction.HasBid() {
		return entities.Auction{}, domainerrors.ErrUnderbidding
	}

	// Effects before interactions.
	if err := s.Repo.DeleteAuction(ctx, tokenID); err != nil {
		return entities.Auction{}, err
	}

	if err := contract.TransferFrom(ctx, s.Escrow.Custodian, auction.Seller, auction.HighestBidder, tokenID); err != nil {
		s.restoreAuction(ctx, auction)
		return entities.Auction{}, wrapTransfer(err)
	}
	if err := s.Escrow.Push(ctx, auction.Seller, auction.HighestBid, auction.Rail); err != nil {
		s.compensate(ctx, "finish_auction_return_item",
			contract.TransferFrom(ctx, s.Escrow.Custodian, auction.HighestBidder, auction.Seller, tokenID))
		s.restoreAuction(ctx, auction)
		return entities.Auction{}, err
	}

	if err := s.appendEvent(ctx, "marketplace.auction_ended", "auction", tokenID, map[string]any{
		"token_id":    tokenID,
		"winner":      auction.HighestBidder,
		"winning_bid": auction.HighestBid.String(),
	}); err != nil {
		return entities.Auction{}, err
	}

	ResolveLogger(s.Logger).Info("auction ended",
		"event", "auction_ended",
		"module", "trading/exchange-service",
		"layer", "application",
		"token_id", tokenID,
		"winner", string(auction.HighestBidder),
		"winning_bid", auction.HighestBid.String(),
	)
	return auction, nil
}

// CancelAuction withdraws an ended auction, refunding the highest bidder if
// one exists. The item never left the seller, so no item transfer is needed.
func (s Service) CancelAuction(ctx context.Context, caller chain.Address, collectionID, tokenID uint64) error {
	release, err := s.Guard.Enter()
	if err != nil {
		return err
	}
	defer release()

	auction, ok, err := s.Repo.GetAuction(ctx, tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrUnknownToken
	}
	if _, err := s.ownedBy(ctx, collectionID, tokenID, caller); err != nil {
		return err
	}
	if !auction.Expired(s.now()) {
		return domainerrors.ErrAuctionNotEnded
	}

	// Effects before interactions.
	if err := s.Repo.DeleteAuction(ctx, tokenID); err != nil {
		return err
	}
	if auction.HasBid() {
		if err := s.Escrow.Push(ctx, auction.HighestBidder, auction.HighestBid, auction.Rail); err != nil {
			s.restoreAuction(ctx, auction)
			return err
		}
	}

	if err := s.appendEvent(ctx, "marketplace.auction_canceled", "auction", tokenID, map[string]any{
		"token_id": tokenID,
	}); err != nil {
		return err
	}

	ResolveLogger(s.Logger).Info("auction canceled",
		"event", "auction_canceled",
		"module", "trading/exchange-service",
		"layer", "application",
		"token_id", tokenID,
	)
	return nil
}

func (s Service) restoreAuction(ctx context.Context, auction entities.Auction) {
	if err := s.Repo.RestoreAuction(ctx, auction); err != nil {
		ResolveLogger(s.Logger).Error("auction restore failed",
			"event", "auction_restore_failed",
			"module", "trading/exchange-service",
			"layer", "application",
			"token_id", auction.TokenID,
			"error", err.Error(),
		)
	}
}
