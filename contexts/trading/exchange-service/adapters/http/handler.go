package httpadapter

import (
	"context"
	"log/slog"
	"math/big"
	"time"

	"bazaar/contexts/trading/exchange-service/application"
	"bazaar/contexts/trading/exchange-service/domain/entities"
	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	httptransport "bazaar/contexts/trading/exchange-service/transport/http"
	"bazaar/internal/shared/chain"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) ListItemHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.ListItemRequest,
) (httptransport.ListingResponse, error) {
	price, err := parseAmount(req.Price)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	listing, err := h.Service.ListItem(ctx, caller, req.CollectionID, req.TokenID, price, railFrom(req.PayToken))
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: toListingDTO(listing)}, nil
}

func (h Handler) BuyItemHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.BuyItemRequest,
) (httptransport.ListingResponse, error) {
	attached, err := parseOptionalAmount(req.Value)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	listing, err := h.Service.BuyItem(ctx, caller, req.CollectionID, req.TokenID, attached)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: toListingDTO(listing)}, nil
}

func (h Handler) CancelListingHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.CancelListingRequest,
) (httptransport.AckResponse, error) {
	if err := h.Service.CancelListing(ctx, caller, req.CollectionID, req.TokenID); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) GetListingHandler(ctx context.Context, tokenID uint64) (httptransport.ListingResponse, error) {
	listing, err := h.Service.GetListing(ctx, tokenID)
	if err != nil {
		return httptransport.ListingResponse{}, err
	}
	return httptransport.ListingResponse{Status: "success", Data: toListingDTO(listing)}, nil
}

func (h Handler) ListItemOnAuctionHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.ListItemOnAuctionRequest,
) (httptransport.AuctionResponse, error) {
	minPrice, err := parseAmount(req.MinPrice)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	minStep, err := parseAmount(req.MinBidIncrement)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	auction, err := h.Service.ListItemOnAuction(
		ctx, caller, req.CollectionID, req.TokenID, minPrice, minStep, railFrom(req.PayToken))
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	return httptransport.AuctionResponse{Status: "success", Data: toAuctionDTO(auction)}, nil
}

func (h Handler) MakeBidHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.MakeBidRequest,
) (httptransport.AuctionResponse, error) {
	bid, err := parseAmount(req.Bid)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	attached, err := parseOptionalAmount(req.Value)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	auction, err := h.Service.MakeBid(ctx, caller, req.CollectionID, req.TokenID, bid, attached)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	return httptransport.AuctionResponse{Status: "success", Data: toAuctionDTO(auction)}, nil
}

func (h Handler) FinishAuctionHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.FinishAuctionRequest,
) (httptransport.AuctionResponse, error) {
	auction, err := h.Service.FinishAuction(ctx, caller, req.CollectionID, req.TokenID)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	return httptransport.AuctionResponse{Status: "success", Data: toAuctionDTO(auction)}, nil
}

func (h Handler) CancelAuctionHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.CancelAuctionRequest,
) (httptransport.AckResponse, error) {
	if err := h.Service.CancelAuction(ctx, caller, req.CollectionID, req.TokenID); err != nil {
		return httptransport.AckResponse{}, err
	}
	return httptransport.AckResponse{Status: "success"}, nil
}

func (h Handler) GetAuctionHandler(ctx context.Context, tokenID uint64) (httptransport.AuctionResponse, error) {
	auction, err := h.Service.GetAuction(ctx, tokenID)
	if err != nil {
		return httptransport.AuctionResponse{}, err
	}
	return httptransport.AuctionResponse{Status: "success", Data: toAuctionDTO(auction)}, nil
}

func toListingDTO(listing entities.Listing) httptransport.ListingDTO {
	return httptransport.ListingDTO{
		TokenID:      listing.TokenID,
		CollectionID: listing.CollectionID,
		Seller:       string(listing.Seller),
		Price:        listing.Price.String(),
		PayToken:     string(listing.Rail.Token),
		ListedAt:     listing.ListedAt.UTC().Format(time.RFC3339),
	}
}

func toAuctionDTO(auction entities.Auction) httptransport.AuctionDTO {
	dto := httptransport.AuctionDTO{
		TokenID:         auction.TokenID,
		CollectionID:    auction.CollectionID,
		Seller:          string(auction.Seller),
		MinPrice:        auction.MinPrice.String(),
		MinBidIncrement: auction.MinBidIncrement.String(),
		PayToken:        string(auction.Rail.Token),
		EndTime:         auction.EndTime.UTC().Format(time.RFC3339),
		CreatedAt:       auction.CreatedAt.UTC().Format(time.RFC3339),
	}
	if auction.HasBid() {
		dto.HighestBidder = string(auction.HighestBidder)
		dto.HighestBid = auction.HighestBid.String()
	}
	return dto
}

func railFrom(payToken string) chain.Rail {
	if payToken == "" {
		return chain.Native()
	}
	return chain.TokenRail(chain.Address(payToken))
}

func parseAmount(value string) (*big.Int, error) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}
	return amount, nil
}

func parseOptionalAmount(value string) (*big.Int, error) {
	if value == "" {
		return nil, nil
	}
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok || amount.Sign() < 0 {
		return nil, domainerrors.ErrInvalidAmount
	}
	return amount, nil
}
