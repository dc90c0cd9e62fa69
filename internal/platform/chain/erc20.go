package chainmem

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"bazaar/internal/shared/chain"
)

// FungibleToken is an in-process ERC20-shaped payment collaborator with
// allowance bookkeeping.
type FungibleToken struct {
	mu sync.Mutex

	balances  map[chain.Address]*big.Int
	allowance map[chain.Address]map[chain.Address]*big.Int

	// TransferHook, when set, runs before any balance moves. Tests use it to
	// model adversarial callbacks into the marketplace.
	TransferHook func(ctx context.Context, from, to chain.Address, amount *big.Int) error
}

func NewFungibleToken() *FungibleToken {
	return &FungibleToken{
		balances:  make(map[chain.Address]*big.Int),
		allowance: make(map[chain.Address]map[chain.Address]*big.Int),
	}
}

// Mint credits addr. Test/bootstrap seeding only.
func (t *FungibleToken) Mint(addr chain.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.credit(addr, amount)
}

func (t *FungibleToken) BalanceOf(_ context.Context, addr chain.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.balance(addr)), nil
}

func (t *FungibleToken) Approve(_ context.Context, owner, spender chain.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	grants, ok := t.allowance[owner]
	if !ok {
		grants = make(map[chain.Address]*big.Int)
		t.allowance[owner] = grants
	}
	grants[spender] = new(big.Int).Set(amount)
	return nil
}

func (t *FungibleToken) Transfer(ctx context.Context, from, to chain.Address, amount *big.Int) error {
	if err := t.runHook(ctx, from, to, amount); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balance(from).Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientFund, from)
	}
	t.debit(from, amount)
	t.credit(to, amount)
	return nil
}

func (t *FungibleToken) TransferFrom(ctx context.Context, spender, from, to chain.Address, amount *big.Int) error {
	if err := t.runHook(ctx, from, to, amount); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	granted := t.allowed(from, spender)
	if granted.Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s -> %s", ErrAllowance, from, spender)
	}
	if t.balance(from).Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientFund, from)
	}
	granted.Sub(granted, amount)
	t.debit(from, amount)
	t.credit(to, amount)
	return nil
}

func (t *FungibleToken) runHook(ctx context.Context, from, to chain.Address, amount *big.Int) error {
	t.mu.Lock()
	hook := t.TransferHook
	t.mu.Unlock()
	if hook != nil {
		return hook(ctx, from, to, amount)
	}
	return nil
}

func (t *FungibleToken) balance(addr chain.Address) *big.Int {
	value, ok := t.balances[addr]
	if !ok {
		value = new(big.Int)
		t.balances[addr] = value
	}
	return value
}

func (t *FungibleToken) allowed(owner, spender chain.Address) *big.Int {
	grants, ok := t.allowance[owner]
	if !ok {
		return new(big.Int)
	}
	granted, ok := grants[spender]
	if !ok {
		return new(big.Int)
	}
	return granted
}

func (t *FungibleToken) debit(addr chain.Address, amount *big.Int) {
	t.balance(addr).Sub(t.balance(addr), amount)
}

func (t *FungibleToken) credit(addr chain.Address, amount *big.Int) {
	t.balance(addr).Add(t.balance(addr), amount)
}

// Directory maps rail token addresses to registered fungible tokens.
type Directory struct {
	mu     sync.Mutex
	tokens map[chain.Address]chain.FungibleToken
}

func NewDirectory() *Directory {
	return &Directory{tokens: make(map[chain.Address]chain.FungibleToken)}
}

func (d *Directory) Register(addr chain.Address, token chain.FungibleToken) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tokens[addr] = token
}

func (d *Directory) Token(_ context.Context, addr chain.Address) (chain.FungibleToken, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	token, ok := d.tokens[addr]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownToken, addr)
	}
	return token, nil
}
