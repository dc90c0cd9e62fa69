package entities

import (
	"time"

	"bazaar/internal/shared/chain"
)

// Role is a marketplace capability tier.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleArtist Role = "artist"
)

// Grant records one role membership and who issued it.
type Grant struct {
	Role      Role          `json:"role"`
	Account   chain.Address `json:"account"`
	GrantedBy chain.Address `json:"granted_by"`
	GrantedAt time.Time     `json:"granted_at"`
}
