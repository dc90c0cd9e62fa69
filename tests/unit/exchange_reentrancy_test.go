package unit

import (
	"context"
	"errors"
	"math/big"
	"testing"

	exchangeerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/internal/shared/chain"
)

func TestBuyItemBlocksReentrantBuy(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)
	m.Bank.Deposit(buyerAddr, amount(1000))

	listing, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native())
	if err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	collection, err := m.GetCollection(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("get collection failed: %v", err)
	}
	contract, ok := m.Contracts.Lookup(collection.ContractAddr)
	if !ok {
		t.Fatal("contract lookup failed")
	}

	// The item transfer callback tries to buy the same item again.
	var reentrantErr error
	contract.TransferHook = func(ctx context.Context, _, _ chain.Address, _ uint64) error {
		_, reentrantErr = m.BuyItem(ctx, rivalAddr, collectionID, tokenID, amount(100))
		return nil
	}

	if _, err := m.BuyItem(context.Background(), buyerAddr, collectionID, tokenID, listing.Price); err != nil {
		t.Fatalf("outer buy should complete: %v", err)
	}
	if !errors.Is(reentrantErr, exchangeerrors.ErrReentrancyDetected) {
		t.Fatalf("expected reentrant buy to be blocked, got %v", reentrantErr)
	}

	// Settled exactly once.
	if got := balanceOf(t, m, buyerAddr); got.Cmp(amount(900)) != 0 {
		t.Fatalf("buyer must pay once, balance %s", got)
	}
	if got := balanceOf(t, m, artistAddr); got.Cmp(amount(100)) != 0 {
		t.Fatalf("seller must be paid once, balance %s", got)
	}
	owner, err := contract.OwnerOf(context.Background(), tokenID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != buyerAddr {
		t.Fatalf("item belongs to the outer buyer, owner %s", owner)
	}
}

func TestBuyItemRollsBackWhenItemTransferFails(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)
	m.Bank.Deposit(buyerAddr, amount(1000))

	if _, err := m.ListItem(context.Background(), artistAddr, collectionID, tokenID, amount(100), chain.Native()); err != nil {
		t.Fatalf("listing failed: %v", err)
	}

	collection, err := m.GetCollection(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("get collection failed: %v", err)
	}
	contract, ok := m.Contracts.Lookup(collection.ContractAddr)
	if !ok {
		t.Fatal("contract lookup failed")
	}
	transferErr := errors.New("receiver rejected the item")
	contract.TransferHook = func(context.Context, chain.Address, chain.Address, uint64) error {
		return transferErr
	}

	_, err = m.BuyItem(context.Background(), buyerAddr, collectionID, tokenID, amount(100))
	if !errors.Is(err, exchangeerrors.ErrTransferFailed) {
		t.Fatalf("expected ErrTransferFailed, got %v", err)
	}

	// All-or-nothing: the buyer is refunded and the listing stands again.
	if got := balanceOf(t, m, buyerAddr); got.Cmp(amount(1000)) != 0 {
		t.Fatalf("buyer must be made whole, balance %s", got)
	}
	if _, err := m.GetListing(context.Background(), tokenID); err != nil {
		t.Fatalf("listing should be restored: %v", err)
	}
	owner, err := contract.OwnerOf(context.Background(), tokenID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != artistAddr {
		t.Fatalf("item must stay with the seller, owner %s", owner)
	}
}

func TestMakeBidBlocksReentrantBidDuringRefund(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)
	m.Bank.Deposit(buyerAddr, amount(1000))
	m.Bank.Deposit(rivalAddr, amount(1000))

	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native()); err != nil {
		t.Fatalf("open auction failed: %v", err)
	}
	if _, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(200), amount(200)); err != nil {
		t.Fatalf("first bid failed: %v", err)
	}

	// The refund payout callback tries to place another bid mid-operation.
	var reentrantErr error
	m.Bank.TransferHook = func(ctx context.Context, from, _ chain.Address, _ *big.Int) error {
		if from == custodyAddr {
			_, reentrantErr = m.MakeBid(ctx, buyerAddr, collectionID, tokenID, amount(300), amount(300))
		}
		return nil
	}

	if _, err := m.MakeBid(context.Background(), rivalAddr, collectionID, tokenID, amount(250), amount(250)); err != nil {
		t.Fatalf("outer bid should complete: %v", err)
	}
	if !errors.Is(reentrantErr, exchangeerrors.ErrReentrancyDetected) {
		t.Fatalf("expected reentrant bid to be blocked, got %v", reentrantErr)
	}
	m.Bank.TransferHook = nil

	// Exactly one refund happened and the rival's bid stands.
	if got := balanceOf(t, m, buyerAddr); got.Cmp(amount(1000)) != 0 {
		t.Fatalf("first bidder refunded once, balance %s", got)
	}
	if got := balanceOf(t, m, custodyAddr); got.Cmp(amount(250)) != 0 {
		t.Fatalf("custody holds the standing bid, balance %s", got)
	}
	auction, err := m.GetAuction(context.Background(), tokenID)
	if err != nil {
		t.Fatalf("get auction failed: %v", err)
	}
	if auction.HighestBidder != rivalAddr || auction.HighestBid.Cmp(amount(250)) != 0 {
		t.Fatalf("unexpected auction head: %+v", auction)
	}
}
