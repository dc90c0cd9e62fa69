package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	catalogerrors "bazaar/contexts/catalog/collection-service/domain/errors"
	exchangeerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	exchangehttp "bazaar/contexts/trading/exchange-service/transport/http"
	"bazaar/internal/shared/chain"
)

func (s *Server) handleListItem(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeExchangeError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req exchangehttp.ListItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExchangeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.exchange.Handler.ListItemHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleBuyItem(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeExchangeError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req exchangehttp.BuyItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExchangeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.exchange.Handler.BuyItemHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelListing(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeExchangeError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req exchangehttp.CancelListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExchangeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.exchange.Handler.CancelListingHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetListing(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseUintPath(r, "token_id")
	if !ok {
		writeExchangeError(w, http.StatusBadRequest, "invalid_token_id", "token_id must be an integer")
		return
	}

	resp, err := s.exchange.Handler.GetListingHandler(r.Context(), tokenID)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListItemOnAuction(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeExchangeError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req exchangehttp.ListItemOnAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExchangeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.exchange.Handler.ListItemOnAuctionHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleMakeBid(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeExchangeError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req exchangehttp.MakeBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExchangeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.exchange.Handler.MakeBidHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFinishAuction(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeExchangeError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req exchangehttp.FinishAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExchangeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.exchange.Handler.FinishAuctionHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCancelAuction(w http.ResponseWriter, r *http.Request) {
	caller := resolveCaller(r)
	if caller == "" {
		writeExchangeError(w, http.StatusUnauthorized, "missing_account", "X-Account header is required")
		return
	}

	var req exchangehttp.CancelAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeExchangeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.exchange.Handler.CancelAuctionHandler(r.Context(), chain.Address(caller), req)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAuction(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := parseUintPath(r, "token_id")
	if !ok {
		writeExchangeError(w, http.StatusBadRequest, "invalid_token_id", "token_id must be an integer")
		return
	}

	resp, err := s.exchange.Handler.GetAuctionHandler(r.Context(), tokenID)
	if err != nil {
		writeExchangeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeExchangeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, exchangeerrors.ErrNotOwner):
		writeExchangeError(w, http.StatusForbidden, "not_owner", err.Error())
	case errors.Is(err, exchangeerrors.ErrAlreadyListed):
		writeExchangeError(w, http.StatusConflict, "already_listed", err.Error())
	case errors.Is(err, exchangeerrors.ErrAuctionExists):
		writeExchangeError(w, http.StatusConflict, "auction_exists", err.Error())
	case errors.Is(err, exchangeerrors.ErrNotListed):
		writeExchangeError(w, http.StatusNotFound, "not_listed", err.Error())
	case errors.Is(err, exchangeerrors.ErrUnknownToken):
		writeExchangeError(w, http.StatusNotFound, "auction_not_found", err.Error())
	case errors.Is(err, exchangeerrors.ErrAuctionExpired):
		writeExchangeError(w, http.StatusConflict, "auction_expired", err.Error())
	case errors.Is(err, exchangeerrors.ErrAuctionNotEnded):
		writeExchangeError(w, http.StatusConflict, "auction_not_ended", err.Error())
	case errors.Is(err, exchangeerrors.ErrUnderbidding):
		writeExchangeError(w, http.StatusConflict, "no_bids", err.Error())
	case errors.Is(err, exchangeerrors.ErrInsufficientPayment):
		writeExchangeError(w, http.StatusPaymentRequired, "insufficient_payment", err.Error())
	case errors.Is(err, exchangeerrors.ErrValueMismatch):
		writeExchangeError(w, http.StatusPaymentRequired, "value_mismatch", err.Error())
	case errors.Is(err, exchangeerrors.ErrBidTooLow):
		writeExchangeError(w, http.StatusConflict, "bid_too_low", err.Error())
	case errors.Is(err, exchangeerrors.ErrInvalidAmount):
		writeExchangeError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, exchangeerrors.ErrTransferFailed):
		writeExchangeError(w, http.StatusBadGateway, "transfer_failed", err.Error())
	case errors.Is(err, exchangeerrors.ErrReentrancyDetected):
		writeExchangeError(w, http.StatusConflict, "reentrancy_detected", err.Error())
	case errors.Is(err, catalogerrors.ErrUnknownCollection):
		writeExchangeError(w, http.StatusNotFound, "collection_not_found", err.Error())
	default:
		writeExchangeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeExchangeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, exchangehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
