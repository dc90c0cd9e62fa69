package unit

import (
	"context"
	"errors"
	"testing"

	accesserrors "bazaar/contexts/identity-access/access-control/domain/errors"
	"bazaar/contexts/marketplace"
	"bazaar/internal/shared/chain"
)

func TestGrantArtistRoleByAdmin(t *testing.T) {
	m := marketplace.NewInMemory(adminAddr, custodyAddr, nil)

	grant, err := m.GrantArtistRole(context.Background(), adminAddr, artistAddr)
	if err != nil {
		t.Fatalf("admin grant should succeed: %v", err)
	}
	if grant.Account != artistAddr || grant.GrantedBy != adminAddr {
		t.Fatalf("unexpected grant record: %+v", grant)
	}

	ok, err := m.IsArtist(context.Background(), artistAddr)
	if err != nil {
		t.Fatalf("artist check failed: %v", err)
	}
	if !ok {
		t.Fatal("granted account should hold the artist role")
	}
}

func TestGrantArtistRoleRejectsNonAdmin(t *testing.T) {
	m := marketplace.NewInMemory(adminAddr, custodyAddr, nil)

	_, err := m.GrantArtistRole(context.Background(), buyerAddr, artistAddr)
	if !errors.Is(err, accesserrors.ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}

	ok, err := m.IsArtist(context.Background(), artistAddr)
	if err != nil {
		t.Fatalf("artist check failed: %v", err)
	}
	if ok {
		t.Fatal("rejected grant must leave no role behind")
	}
}

func TestGrantArtistRoleRejectsEmptyAccount(t *testing.T) {
	m := marketplace.NewInMemory(adminAddr, custodyAddr, nil)

	_, err := m.GrantArtistRole(context.Background(), adminAddr, chain.Zero)
	if !errors.Is(err, accesserrors.ErrInvalidAccount) {
		t.Fatalf("expected ErrInvalidAccount, got %v", err)
	}
}

func TestGrantArtistRoleAppendsOutboxEvent(t *testing.T) {
	m := marketplace.NewInMemory(adminAddr, custodyAddr, nil)

	if _, err := m.GrantArtistRole(context.Background(), adminAddr, artistAddr); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	pending := m.Access.Store.PendingOutbox()
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending outbox row, got %d", len(pending))
	}
	if pending[0].EventType != "marketplace.role_granted" {
		t.Fatalf("unexpected event type %q", pending[0].EventType)
	}
}
