package unit

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"bazaar/contexts/marketplace"
	"bazaar/internal/shared/chain"
)

const (
	adminAddr   = chain.Address("addr:admin")
	artistAddr  = chain.Address("addr:artist")
	buyerAddr   = chain.Address("addr:buyer")
	rivalAddr   = chain.Address("addr:rival")
	custodyAddr = chain.Address("bazaar:custody")
)

type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMovableClock(now time.Time) *movableClock {
	return &movableClock{now: now}
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func amount(v int64) *big.Int {
	return big.NewInt(v)
}

// newMarketplace builds an in-memory marketplace with one artist already
// granted.
func newMarketplace(t *testing.T) *marketplace.Marketplace {
	t.Helper()

	m := marketplace.NewInMemory(adminAddr, custodyAddr, nil)
	if _, err := m.GrantArtistRole(context.Background(), adminAddr, artistAddr); err != nil {
		t.Fatalf("grant artist role failed: %v", err)
	}
	return m
}

// mintItem creates a collection and mints one item owned by the artist.
func mintItem(t *testing.T, m *marketplace.Marketplace) (collectionID, tokenID uint64) {
	t.Helper()

	collection, err := m.CreateCollection(context.Background(), artistAddr, "Night Gallery", "NIGHT")
	if err != nil {
		t.Fatalf("create collection failed: %v", err)
	}
	item, err := m.CreateItem(context.Background(), artistAddr, collection.ID, "ipfs://item-1")
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return collection.ID, item.TokenID
}

// approveCustody authorizes the marketplace custody account to move the token.
func approveCustody(t *testing.T, m *marketplace.Marketplace, owner chain.Address, collectionID, tokenID uint64) {
	t.Helper()

	if err := m.ApproveItemTransfer(context.Background(), owner, collectionID, tokenID); err != nil {
		t.Fatalf("approve item transfer failed: %v", err)
	}
}

func balanceOf(t *testing.T, m *marketplace.Marketplace, addr chain.Address) *big.Int {
	t.Helper()

	balance, err := m.Bank.BalanceOf(context.Background(), addr)
	if err != nil {
		t.Fatalf("balance lookup failed: %v", err)
	}
	return balance
}
