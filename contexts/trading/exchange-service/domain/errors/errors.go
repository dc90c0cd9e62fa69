package errors

import "errors"

var (
	// Authorization
	ErrNotOwner = errors.New("caller does not own the token")

	// State
	ErrAlreadyListed   = errors.New("token is already listed")
	ErrNotListed       = errors.New("token is not listed")
	ErrAuctionExists   = errors.New("an auction already exists for the token")
	ErrUnknownToken    = errors.New("no auction exists for the token")
	ErrAuctionExpired  = errors.New("auction bidding has closed")
	ErrAuctionNotEnded = errors.New("auction has not ended yet")
	ErrUnderbidding    = errors.New("auction received no bids")

	// Payment
	ErrInsufficientPayment = errors.New("attached value is below the price")
	ErrValueMismatch       = errors.New("attached value does not match the amount")
	ErrBidTooLow           = errors.New("bid is below the minimum required bid")
	ErrTransferFailed      = errors.New("collaborator transfer failed")
	ErrInvalidAmount       = errors.New("amount must be positive")

	// Concurrency
	ErrReentrancyDetected = errors.New("reentrant call detected")
)
