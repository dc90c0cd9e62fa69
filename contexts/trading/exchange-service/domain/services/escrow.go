package services

import (
	"context"
	"fmt"
	"math/big"

	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/internal/shared/chain"
)

// Escrow moves funds rail-agnostically between traders and the marketplace
// custody account. Pull takes funds into custody, Push pays them out.
// Collaborator failures are surfaced wrapped on ErrTransferFailed, never
// swallowed.
type Escrow struct {
	Ledger    chain.NativeLedger
	Tokens    chain.TokenDirectory
	Custodian chain.Address
}

// Pull moves amount from payer into marketplace custody. On the native rail
// the attached value must match the amount exactly; on a token rail the
// payer's prior allowance to the custodian is spent.
func (e Escrow) Pull(ctx context.Context, payer chain.Address, amount *big.Int, rail chain.Rail, attached *big.Int) error {
	if rail.IsNative() {
		if attached == nil || attached.Cmp(amount) != 0 {
			return domainerrors.ErrValueMismatch
		}
		if err := e.Ledger.Transfer(ctx, payer, e.Custodian, amount); err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
		}
		return nil
	}

	token, err := e.Tokens.Token(ctx, rail.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
	}
	if err := token.TransferFrom(ctx, e.Custodian, payer, e.Custodian, amount); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
	}
	return nil
}

// Push pays amount out of marketplace custody to payee on the given rail.
func (e Escrow) Push(ctx context.Context, payee chain.Address, amount *big.Int, rail chain.Rail) error {
	if rail.IsNative() {
		if err := e.Ledger.Transfer(ctx, e.Custodian, payee, amount); err != nil {
			return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
		}
		return nil
	}

	token, err := e.Tokens.Token(ctx, rail.Token)
	if err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
	}
	if err := token.Transfer(ctx, e.Custodian, payee, amount); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrTransferFailed, err)
	}
	return nil
}
