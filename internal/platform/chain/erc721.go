// Package chainmem provides in-process implementations of the chain
// collaborator contracts for local wiring and tests. They enforce the same
// ownership, approval, allowance, and balance rules the real contracts would,
// so marketplace code exercises identical failure paths either way.
package chainmem

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bazaar/internal/shared/chain"
)

var (
	ErrUnknownToken     = errors.New("token does not exist")
	ErrNotAuthorized    = errors.New("caller is neither owner nor approved")
	ErrTokenExists      = errors.New("token already minted")
	ErrWrongOwner       = errors.New("transfer from wrong owner")
	ErrInsufficientFund = errors.New("insufficient balance")
	ErrAllowance        = errors.New("insufficient allowance")
)

// ItemContract is an in-process ERC721-shaped ownership contract.
type ItemContract struct {
	mu sync.RWMutex

	name    string
	symbol  string
	owners  map[uint64]chain.Address
	uris    map[uint64]string
	approve map[uint64]chain.Address

	// TransferHook, when set, runs during TransferFrom before ownership
	// moves. Tests use it to model adversarial callbacks.
	TransferHook func(ctx context.Context, from, to chain.Address, tokenID uint64) error
}

func NewItemContract(name, symbol string) *ItemContract {
	return &ItemContract{
		name:    name,
		symbol:  symbol,
		owners:  make(map[uint64]chain.Address),
		uris:    make(map[uint64]string),
		approve: make(map[uint64]chain.Address),
	}
}

func (c *ItemContract) OwnerOf(_ context.Context, tokenID uint64) (chain.Address, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	owner, ok := c.owners[tokenID]
	if !ok {
		return chain.Zero, fmt.Errorf("%w: %d", ErrUnknownToken, tokenID)
	}
	return owner, nil
}

func (c *ItemContract) Mint(_ context.Context, owner chain.Address, tokenID uint64, uri string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.owners[tokenID]; ok {
		return fmt.Errorf("%w: %d", ErrTokenExists, tokenID)
	}
	c.owners[tokenID] = owner
	c.uris[tokenID] = uri
	return nil
}

func (c *ItemContract) Approve(_ context.Context, owner, operator chain.Address, tokenID uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current, ok := c.owners[tokenID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownToken, tokenID)
	}
	if current != owner {
		return ErrNotAuthorized
	}
	c.approve[tokenID] = operator
	return nil
}

func (c *ItemContract) TransferFrom(ctx context.Context, operator, from, to chain.Address, tokenID uint64) error {
	c.mu.Lock()
	owner, ok := c.owners[tokenID]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrUnknownToken, tokenID)
	}
	if owner != from {
		c.mu.Unlock()
		return ErrWrongOwner
	}
	if operator != owner && c.approve[tokenID] != operator {
		c.mu.Unlock()
		return ErrNotAuthorized
	}
	hook := c.TransferHook
	c.mu.Unlock()

	// Untrusted collaborator boundary: the hook may reenter the marketplace.
	if hook != nil {
		if err := hook(ctx, from, to, tokenID); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.owners[tokenID] = to
	delete(c.approve, tokenID)
	return nil
}

// TokenURI exposes mint metadata for read-side handlers.
func (c *ItemContract) TokenURI(tokenID uint64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	uri, ok := c.uris[tokenID]
	return uri, ok
}

// Factory deploys in-process item contracts and remembers them by address.
type Factory struct {
	mu        sync.Mutex
	seq       int
	contracts map[chain.Address]*ItemContract
}

func NewFactory() *Factory {
	return &Factory{contracts: make(map[chain.Address]*ItemContract)}
}

func (f *Factory) Deploy(_ context.Context, name, symbol string) (chain.Address, chain.ItemContract, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	addr := chain.Address(fmt.Sprintf("nft:%s:%d", symbol, f.seq))
	contract := NewItemContract(name, symbol)
	f.contracts[addr] = contract
	return addr, contract, nil
}

// Contract returns a previously deployed contract by address.
func (f *Factory) Contract(addr chain.Address) (chain.ItemContract, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	contract, ok := f.contracts[addr]
	if !ok {
		return nil, false
	}
	return contract, true
}

// Lookup returns the concrete in-process contract, used by tests to attach
// transfer hooks.
func (f *Factory) Lookup(addr chain.Address) (*ItemContract, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	contract, ok := f.contracts[addr]
	return contract, ok
}
