package entities

import (
	"time"

	"bazaar/internal/shared/chain"
)

// Item records a mint. The current owner is tracked by the collection's
// contract; Creator here is the minting artist.
type Item struct {
	TokenID      uint64        `json:"token_id"`
	CollectionID uint64        `json:"collection_id"`
	Creator      chain.Address `json:"creator"`
	URI          string        `json:"uri"`
	MintedAt     time.Time     `json:"minted_at"`
}
