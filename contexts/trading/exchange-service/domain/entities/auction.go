package entities

import (
	"math/big"
	"time"

	"bazaar/internal/shared/chain"
)

// Auction is a time-boxed competitive-bidding sale offer for one item.
// The item stays with the seller until finalize; only bid funds are held in
// escrow. EndTime is fixed at creation and never mutated.
type Auction struct {
	TokenID         uint64        `json:"token_id"`
	CollectionID    uint64        `json:"collection_id"`
	Seller          chain.Address `json:"seller"`
	MinPrice        *big.Int      `json:"min_price"`
	MinBidIncrement *big.Int      `json:"min_bid_increment"`
	Rail            chain.Rail    `json:"rail"`
	HighestBidder   chain.Address `json:"highest_bidder,omitempty"`
	HighestBid      *big.Int      `json:"highest_bid,omitempty"`
	EndTime         time.Time     `json:"end_time"`
	CreatedAt       time.Time     `json:"created_at"`
}

// HasBid reports whether any bid has been accepted.
func (a Auction) HasBid() bool {
	return a.HighestBid != nil
}

// RequiredBid is the floor for the next acceptable bid: the minimum price
// while no bid stands, afterwards the highest bid plus the increment.
func (a Auction) RequiredBid() *big.Int {
	if !a.HasBid() {
		return new(big.Int).Set(a.MinPrice)
	}
	return new(big.Int).Add(a.HighestBid, a.MinBidIncrement)
}

// Expired reports whether bidding has closed.
func (a Auction) Expired(now time.Time) bool {
	return !now.Before(a.EndTime)
}
