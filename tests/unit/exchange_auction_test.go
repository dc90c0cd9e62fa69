package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	exchangeerrors "bazaar/contexts/trading/exchange-service/domain/errors"
	"bazaar/contexts/marketplace"
	"bazaar/internal/shared/chain"
)

// auctionFixture builds a marketplace with one minted, custody-approved item
// and a controllable clock on the trading books.
func auctionFixture(t *testing.T) (*marketplace.Marketplace, *movableClock, uint64, uint64) {
	t.Helper()

	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)
	approveCustody(t, m, artistAddr, collectionID, tokenID)

	clock := newMovableClock(time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC))
	m.Exchange.Service.Clock = clock
	return m, clock, collectionID, tokenID
}

func TestListItemOnAuctionFixesEndTime(t *testing.T) {
	m, clock, collectionID, tokenID := auctionFixture(t)

	auction, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native())
	if err != nil {
		t.Fatalf("open auction failed: %v", err)
	}
	if want := clock.Now().Add(72 * time.Hour); !auction.EndTime.Equal(want) {
		t.Fatalf("expected end time %v, got %v", want, auction.EndTime)
	}
	if auction.HasBid() {
		t.Fatal("fresh auction must carry no bid")
	}
}

func TestMakeBidEnforcesMinimumAndIncrement(t *testing.T) {
	m, _, collectionID, tokenID := auctionFixture(t)
	m.Bank.Deposit(buyerAddr, amount(1000))
	m.Bank.Deposit(rivalAddr, amount(1000))

	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native()); err != nil {
		t.Fatalf("open auction failed: %v", err)
	}

	// Below the minimum price.
	_, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(199), amount(199))
	if !errors.Is(err, exchangeerrors.ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow below minimum, got %v", err)
	}

	// Exactly the minimum is accepted.
	if _, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(200), amount(200)); err != nil {
		t.Fatalf("minimum bid failed: %v", err)
	}

	// Next bid must reach highest plus increment.
	_, err = m.MakeBid(context.Background(), rivalAddr, collectionID, tokenID, amount(240), amount(240))
	if !errors.Is(err, exchangeerrors.ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow below increment, got %v", err)
	}
	auction, err := m.MakeBid(context.Background(), rivalAddr, collectionID, tokenID, amount(250), amount(250))
	if err != nil {
		t.Fatalf("incremented bid failed: %v", err)
	}
	if auction.HighestBidder != rivalAddr || auction.HighestBid.Cmp(amount(250)) != 0 {
		t.Fatalf("unexpected auction head: %+v", auction)
	}

	// The outbid first bidder is made whole.
	if got := balanceOf(t, m, buyerAddr); got.Cmp(amount(1000)) != 0 {
		t.Fatalf("outbid bidder must be refunded in full, balance %s", got)
	}
	// Only the standing bid is held in custody.
	if got := balanceOf(t, m, custodyAddr); got.Cmp(amount(250)) != 0 {
		t.Fatalf("custody should hold the standing bid, balance %s", got)
	}
}

func TestMakeBidNativeRequiresExactValue(t *testing.T) {
	m, _, collectionID, tokenID := auctionFixture(t)
	m.Bank.Deposit(buyerAddr, amount(1000))

	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native()); err != nil {
		t.Fatalf("open auction failed: %v", err)
	}

	_, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(200), amount(300))
	if !errors.Is(err, exchangeerrors.ErrValueMismatch) {
		t.Fatalf("expected ErrValueMismatch for excess value, got %v", err)
	}
	_, err = m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(200), nil)
	if !errors.Is(err, exchangeerrors.ErrValueMismatch) {
		t.Fatalf("expected ErrValueMismatch for missing value, got %v", err)
	}
}

func TestMakeBidAfterEndIsRejected(t *testing.T) {
	m, clock, collectionID, tokenID := auctionFixture(t)
	m.Bank.Deposit(buyerAddr, amount(1000))

	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native()); err != nil {
		t.Fatalf("open auction failed: %v", err)
	}
	clock.Advance(73 * time.Hour)

	_, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(200), amount(200))
	if !errors.Is(err, exchangeerrors.ErrAuctionExpired) {
		t.Fatalf("expected ErrAuctionExpired, got %v", err)
	}
}

func TestMakeBidOnUnknownAuction(t *testing.T) {
	m, _, collectionID, tokenID := auctionFixture(t)
	m.Bank.Deposit(buyerAddr, amount(1000))

	_, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(200), amount(200))
	if !errors.Is(err, exchangeerrors.ErrUnknownToken) {
		t.Fatalf("expected ErrUnknownToken, got %v", err)
	}
}

func TestFinishAuctionSettlesWinner(t *testing.T) {
	m, clock, collectionID, tokenID := auctionFixture(t)
	m.Bank.Deposit(buyerAddr, amount(1000))

	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native()); err != nil {
		t.Fatalf("open auction failed: %v", err)
	}
	if _, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(300), amount(300)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}

	// Too early.
	if _, err := m.FinishAuction(context.Background(), artistAddr, collectionID, tokenID); !errors.Is(err, exchangeerrors.ErrAuctionNotEnded) {
		t.Fatalf("expected ErrAuctionNotEnded, got %v", err)
	}

	clock.Advance(73 * time.Hour)

	// Only the seller, who still owns the item, may finalize.
	if _, err := m.FinishAuction(context.Background(), buyerAddr, collectionID, tokenID); !errors.Is(err, exchangeerrors.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for non-seller, got %v", err)
	}

	auction, err := m.FinishAuction(context.Background(), artistAddr, collectionID, tokenID)
	if err != nil {
		t.Fatalf("finish failed: %v", err)
	}
	if auction.HighestBidder != buyerAddr {
		t.Fatalf("unexpected winner %s", auction.HighestBidder)
	}

	if got := balanceOf(t, m, artistAddr); got.Cmp(amount(300)) != 0 {
		t.Fatalf("seller should be paid the winning bid, balance %s", got)
	}
	if got := balanceOf(t, m, custodyAddr); got.Sign() != 0 {
		t.Fatalf("custody must be empty after settlement, balance %s", got)
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
		t.Fatalf("item should belong to winner, owner %s", owner)
	}
	if _, err := m.GetAuction(context.Background(), tokenID); !errors.Is(err, exchangeerrors.ErrUnknownToken) {
		t.Fatalf("auction should be consumed, got %v", err)
	}
}

func TestFinishAuctionWithoutBids(t *testing.T) {
	m, clock, collectionID, tokenID := auctionFixture(t)

	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native()); err != nil {
		t.Fatalf("open auction failed: %v", err)
	}
	clock.Advance(73 * time.Hour)

	_, err := m.FinishAuction(context.Background(), artistAddr, collectionID, tokenID)
	if !errors.Is(err, exchangeerrors.ErrUnderbidding) {
		t.Fatalf("expected ErrUnderbidding, got %v", err)
	}
	// The auction record survives so the seller can cancel instead.
	if _, err := m.GetAuction(context.Background(), tokenID); err != nil {
		t.Fatalf("auction should still exist: %v", err)
	}
}

func TestCancelAuctionRefundsHighestBidder(t *testing.T) {
	m, clock, collectionID, tokenID := auctionFixture(t)
	m.Bank.Deposit(buyerAddr, amount(1000))

	if _, err := m.ListItemOnAuction(context.Background(), artistAddr, collectionID, tokenID, amount(200), amount(50), chain.Native()); err != nil {
		t.Fatalf("open auction failed: %v", err)
	}
	if _, err := m.MakeBid(context.Background(), buyerAddr, collectionID, tokenID, amount(200), amount(200)); err != nil {
		t.Fatalf("bid failed: %v", err)
	}

	// Cancel is only available after the end time.
	if err := m.CancelAuction(context.Background(), artistAddr, collectionID, tokenID); !errors.Is(err, exchangeerrors.ErrAuctionNotEnded) {
		t.Fatalf("expected ErrAuctionNotEnded, got %v", err)
	}

	clock.Advance(73 * time.Hour)
	if err := m.CancelAuction(context.Background(), artistAddr, collectionID, tokenID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if got := balanceOf(t, m, buyerAddr); got.Cmp(amount(1000)) != 0 {
		t.Fatalf("bidder must be refunded in full, balance %s", got)
	}
	contract, err := m.Catalog.Service.ItemContract(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("resolve contract failed: %v", err)
	}
	owner, err := contract.OwnerOf(context.Background(), tokenID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != artistAddr {
		t.Fatalf("item never leaves the seller on cancel, owner %s", owner)
	}
}
