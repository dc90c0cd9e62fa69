package entities

import (
	"time"

	"bazaar/internal/shared/chain"
)

// Collection is created once and immutable thereafter. Item ownership lives
// in the collection's contract, never here.
type Collection struct {
	ID           uint64        `json:"collection_id"`
	Creator      chain.Address `json:"creator"`
	ContractAddr chain.Address `json:"contract_addr"`
	Name         string        `json:"name"`
	Symbol       string        `json:"symbol"`
	CreatedAt    time.Time     `json:"created_at"`
}
