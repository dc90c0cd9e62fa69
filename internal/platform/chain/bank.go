package chainmem

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"bazaar/internal/shared/chain"
)

// Bank is the in-process native-currency ledger. Attached value on a
// marketplace call is settled by moving balance from the caller to the
// marketplace account and onward.
type Bank struct {
	mu       sync.Mutex
	balances map[chain.Address]*big.Int

	// TransferHook, when set, runs before any balance moves. Tests use it to
	// model adversarial payees.
	TransferHook func(ctx context.Context, from, to chain.Address, amount *big.Int) error
}

func NewBank() *Bank {
	return &Bank{balances: make(map[chain.Address]*big.Int)}
}

// Deposit credits addr. Test/bootstrap seeding only.
func (b *Bank) Deposit(addr chain.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balance(addr).Add(b.balance(addr), amount)
}

func (b *Bank) BalanceOf(_ context.Context, addr chain.Address) (*big.Int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return new(big.Int).Set(b.balance(addr)), nil
}

func (b *Bank) Transfer(ctx context.Context, from, to chain.Address, amount *big.Int) error {
	b.mu.Lock()
	hook := b.TransferHook
	b.mu.Unlock()
	if hook != nil {
		if err := hook(ctx, from, to, amount); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balance(from).Cmp(amount) < 0 {
		return fmt.Errorf("%w: %s", ErrInsufficientFund, from)
	}
	b.balance(from).Sub(b.balance(from), amount)
	b.balance(to).Add(b.balance(to), amount)
	return nil
}

func (b *Bank) balance(addr chain.Address) *big.Int {
	value, ok := b.balances[addr]
	if !ok {
		value = new(big.Int)
		b.balances[addr] = value
	}
	return value
}
