package entities

import (
	"math/big"
	"time"

	"bazaar/internal/shared/chain"
)

// Listing is a standing fixed-price sale offer for one item, keyed uniquely
// by token id. Its existence implies the marketplace holds transfer approval
// for the item from the then-owner.
type Listing struct {
	TokenID      uint64        `json:"token_id"`
	CollectionID uint64        `json:"collection_id"`
	Seller       chain.Address `json:"seller"`
	Price        *big.Int      `json:"price"`
	Rail         chain.Rail    `json:"rail"`
	ListedAt     time.Time     `json:"listed_at"`
}
