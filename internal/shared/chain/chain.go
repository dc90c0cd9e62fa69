// Package chain declares the external collaborator contracts the marketplace
// consumes: per-collection item-ownership contracts, fungible tokens, and the
// native-currency ledger. The marketplace never reimplements ownership or
// balance bookkeeping; it only calls through these interfaces.
//
// Collaborators are untrusted. They may call back into the marketplace before
// returning, which is why every trading operation runs behind the reentrancy
// guard.
package chain

import (
	"context"
	"math/big"
)

// Address identifies an account (user, contract, or the marketplace itself).
type Address string

// Zero is the empty address. A Rail whose Token equals Zero settles in
// native currency.
const Zero Address = ""

// Rail is the payment medium for a trade: the native currency or a
// designated fungible token.
type Rail struct {
	Token Address `json:"token"`
}

// Native returns the native-currency rail.
func Native() Rail {
	return Rail{Token: Zero}
}

// TokenRail returns a fungible-token rail settled through the token at addr.
func TokenRail(addr Address) Rail {
	return Rail{Token: addr}
}

// IsNative reports whether the rail settles in native currency.
func (r Rail) IsNative() bool {
	return r.Token == Zero
}

// ItemContract is the non-fungible ownership collaborator backing one
// collection. Token ids are assigned by the marketplace minter, not by the
// contract.
type ItemContract interface {
	OwnerOf(ctx context.Context, tokenID uint64) (Address, error)
	Mint(ctx context.Context, owner Address, tokenID uint64, uri string) error
	// TransferFrom moves tokenID from `from` to `to` on behalf of operator.
	// The operator must be the owner or hold approval for the token.
	TransferFrom(ctx context.Context, operator, from, to Address, tokenID uint64) error
	Approve(ctx context.Context, owner, operator Address, tokenID uint64) error
}

// ItemContractFactory instantiates a fresh ownership contract per collection.
type ItemContractFactory interface {
	Deploy(ctx context.Context, name, symbol string) (Address, ItemContract, error)
}

// FungibleToken is the ERC20-shaped payment collaborator.
type FungibleToken interface {
	BalanceOf(ctx context.Context, addr Address) (*big.Int, error)
	// Transfer spends `from`'s own balance.
	Transfer(ctx context.Context, from, to Address, amount *big.Int) error
	// TransferFrom spends `from`'s balance against spender's allowance.
	TransferFrom(ctx context.Context, spender, from, to Address, amount *big.Int) error
	Approve(ctx context.Context, owner, spender Address, amount *big.Int) error
}

// NativeLedger tracks native-currency balances and moves attached value.
type NativeLedger interface {
	BalanceOf(ctx context.Context, addr Address) (*big.Int, error)
	Transfer(ctx context.Context, from, to Address, amount *big.Int) error
}

// TokenDirectory resolves a fungible-token rail address to its collaborator.
type TokenDirectory interface {
	Token(ctx context.Context, addr Address) (FungibleToken, error)
}
