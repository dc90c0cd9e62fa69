package unit

import (
	"context"
	"errors"
	"testing"

	exchangeerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	chainmem "bazaar/internal/platform/chain"
	"bazaar/internal/shared/chain"
)

func TestListItemRequiresOwnership(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)

	_, err := m.ListItem(context.Background(), buyerAddr, collectionID, tokenID, amount(100), chain.Native())
	if !errors.Is(err, exchangeerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestListItemRejectsZeroPrice(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)

	_, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(0), chain.Native())
	if !errors.Is(err, exchangeerrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestListItemRejectsDoubleListing(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)

	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native()); err != nil {
		t.Fatalf("first listing failed: %v", err)
	}
	_, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(200), chain.Native())
	if !errors.Is(err, exchangeerrors.ErrAlreadyListed) {
		t.Fatalf("expected ErrAlreadyListed, got %v", err)
	}
}

func TestListingAndAuctionAreMutuallyExclusive(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)

	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native()); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	_, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(100), amount(10), chain.Native())
	if !errors.Is(err, exchangeerrors.ErrAlreadyListed) {
		t.Fatalf("expected ErrAlreadyListed opening auction over listing, got %v", err)
	}

	if err := m.CancelListing(context.Background(), artistAddr, collectionID, tokenID); err != nil {
		t.Fatalf("cancel listing failed: %v", err)
	}
	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(100), amount(10), chain.Native()); err != nil {
		t.Fatalf("auction after cancel failed: %v", err)
	}
	_, err = m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native())
	if !errors.Is(err, exchangeerrors.ErrAuctionExists) {
		t.Fatalf("expected ErrAuctionExists listing over auction, got %v", err)
	}
}

func TestCancelListingRestoresPreListingState(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)

	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native()); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if err := m.CancelListing(context.Background(), artistAddr, collectionID, tokenID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if _, err := m.GetListing(context.Background(), tokenID); !errors.Is(err, exchangeerrors.ErrNotListed) {
		t.Fatalf("expected listing gone, got %v", err)
	}
	// The exact same item can be listed again.
	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(150), chain.Native()); err != nil {
		t.Fatalf("relist after cancel failed: %v", err)
	}
}

func TestCancelListingOnlyByOwner(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)

	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native()); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	err := m.CancelListing(context.Background(), buyerAddr, collectionID, tokenID)
	if !errors.Is(err, exchangeerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
}

func TestBuyItemNativeSettlesExactPrice(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)
	m.Bank.Deposit(buyerAddr, amount(500))

	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native()); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	// Overpayment is accepted but only the price moves.
	if _, err := m.BuyItem(context.Background(), buyerAddr, collectionID, tokenID, amount(250)); err != nil {
		t.Fatalf("buy failed: %v", err)
	}

	if got := balanceOf(t, m, buyerAddr); got.Cmp(amount(400)) != 0 {
		t.Fatalf("buyer should pay exactly the price, balance %s", got)
	}
	if got := balanceOf(t, m, artistAddr); got.Cmp(amount(100)) != 0 {
		t.Fatalf("seller should receive the price, balance %s", got)
	}
	if got := balanceOf(t, m, custodyAddr); got.Sign() != 0 {
		t.Fatalf("custody must hold nothing after settlement, balance %s", got)
	}

	contract, err := m.Catalog.Service.ItemContract(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("resolve contract failed: %v", err)
	}
	owner, err := contract.OwnerOf(context.Background(), tokenID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != buyerAddr {
		t.Fatalf("item should belong to buyer, owner %s", owner)
	}
	if _, err := m.GetListing(context.Background(), tokenID); !errors.Is(err, exchangeerrors.ErrNotListed) {
		t.Fatalf("listing should be consumed, got %v", err)
	}
}

func TestBuyItemNativeRejectsInsufficientValue(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)
	m.Bank.Deposit(buyerAddr, amount(500))

	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native()); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	_, err := m.BuyItem(context.Background(), buyerAddr, collectionID, tokenID, amount(99))
	if !errors.Is(err, exchangeerrors.ErrInsufficientPayment) {
		t.Fatalf("expected ErrInsufficientPayment, got %v", err)
	}

	// Rejection is whole-operation: listing still stands, no funds moved.
	if _, err := m.GetListing(context.Background(), tokenID); err != nil {
		t.Fatalf("listing should survive rejection: %v", err)
	}
	if got := balanceOf(t, m, buyerAddr); got.Cmp(amount(500)) != 0 {
		t.Fatalf("buyer balance must be untouched, got %s", got)
	}
}

func TestBuyItemTokenRailSpendsAllowance(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)

	gold := chainmem.NewFungibleToken()
	goldAddr := chain.Address("erc20:gold")
	m.Tokens.Register(goldAddr, gold)
	gold.Mint(buyerAddr, amount(1000))
	if err := gold.Approve(context.Background(), buyerAddr, custodyAddr, amount(100)); err != nil {
		t.Fatalf("allowance approve failed: %v", err)
	}

	rail := chain.TokenRail(goldAddr)
	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), rail); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	if _, err := m.BuyItem(context.Background(), buyerAddr, collectionID, tokenID, nil); err != nil {
		t.Fatalf("token buy failed: %v", err)
	}

	sellerBalance, err := gold.BalanceOf(context.Background(), artistAddr)
	if err != nil {
		t.Fatalf("seller token balance failed: %v", err)
	}
	if sellerBalance.Cmp(amount(100)) != 0 {
		t.Fatalf("seller should receive 100 tokens, got %s", sellerBalance)
	}
	buyerBalance, err := gold.BalanceOf(context.Background(), buyerAddr)
	if err != nil {
		t.Fatalf("buyer token balance failed: %v", err)
	}
	if buyerBalance.Cmp(amount(900)) != 0 {
		t.Fatalf("buyer should hold 900 tokens, got %s", buyerBalance)
	}
}

func TestBuyItemTokenRailRequiresAllowance(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)

	gold := chainmem.NewFungibleToken()
	goldAddr := chain.Address("erc20:gold")
	m.Tokens.Register(goldAddr, gold)
	gold.Mint(buyerAddr, amount(1000))

	rail := chain.TokenRail(goldAddr)
	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), rail); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	_, err := m.BuyItem(context.Background(), buyerAddr, collectionID, tokenID, nil)
	if !errors.Is(err, exchangeerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed without allowance, got %v", err)
	}
	if _, err := m.GetListing(context.Background(), tokenID); err != nil {
		t.Fatalf("listing should survive failed pull: %v", err)
	}
}

func TestBuyItemUnlistedToken(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	m.Bank.Deposit(buyerAddr, amount(500))

	_, err := m.BuyItem(context.Background(), buyerAddr, collectionID, tokenID, amount(100))
	if !errors.Is(err, exchangeerrors.ErrNotListed) {
		t.Fatalf("expected ErrNotListed, got %v", err)
	}
}
