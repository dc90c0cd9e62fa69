package unit

import (
	"context"
	"errors"
	"testing"

	catalogerrors "bazaar/contexts/catalog/collection-service/domain/errors"
	accesserrors "bazaar/contexts/identity-access/access-control/domain/errors"
)

func TestCreateCollectionRequiresArtistRole(t *testing.T) {
	m := newMarketplace(t)

	_, err := m.CreateCollection(context.Background(), buyerAddr, "Gallery", "GAL")
	if !errors.Is(err, accesserrors.ErrNotArtist) {
		t.Fatalf("expected ErrNotArtist, got %v", err)
	}
}

func TestCreateCollectionRejectsBlankName(t *testing.T) {
	m := newMarketplace(t)

	if _, err := m.CreateCollection(context.Background(), artistAddr, "  ", "GAL"); !errors.Is(err, catalogerrors.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for blank name, got %v", err)
	}
	if _, err := m.CreateCollection(context.Background(), artistAddr, "Gallery", ""); !errors.Is(err, catalogerrors.ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName for blank symbol, got %v", err)
	}
}

func TestCollectionIDsIncreaseFromOne(t *testing.T) {
	m := newMarketplace(t)

	first, err := m.CreateCollection(context.Background(), artistAddr, "First", "ONE")
	if err != nil {
		t.Fatalf("first collection failed: %v", err)
	}
	second, err := m.CreateCollection(context.Background(), artistAddr, "Second", "TWO")
	if err != nil {
		t.Fatalf("second collection failed: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if first.ContractAddr == second.ContractAddr {
		t.Fatal("each collection must get its own contract")
	}
}

func TestTokenIDsAreGlobalAcrossCollections(t *testing.T) {
	m := newMarketplace(t)

	one, err := m.CreateCollection(context.Background(), artistAddr, "First", "ONE")
	if err != nil {
		t.Fatalf("first collection failed: %v", err)
	}
	two, err := m.CreateCollection(context.Background(), artistAddr, "Second", "TWO")
	if err != nil {
		t.Fatalf("second collection failed: %v", err)
	}

	a, err := m.CreateItem(context.Background(), artistAddr, one.ID, "ipfs://a")
	if err != nil {
		t.Fatalf("mint a failed: %v", err)
	}
	b, err := m.CreateItem(context.Background(), artistAddr, two.ID, "ipfs://b")
	if err != nil {
		t.Fatalf("mint b failed: %v", err)
	}
	c, err := m.CreateItem(context.Background(), artistAddr, one.ID, "ipfs://c")
	if err != nil {
		t.Fatalf("mint c failed: %v", err)
	}

	if a.TokenID != 1 || b.TokenID != 2 || c.TokenID != 3 {
		t.Fatalf("expected token ids 1,2,3 got %d,%d,%d", a.TokenID, b.TokenID, c.TokenID)
	}
}

func TestCreateItemOnlyByCollectionCreator(t *testing.T) {
	m := newMarketplace(t)
	if _, err := m.GrantArtistRole(context.Background(), adminAddr, rivalAddr); err != nil {
		t.Fatalf("grant second artist failed: %v", err)
	}

	collection, err := m.CreateCollection(context.Background(), artistAddr, "Gallery", "GAL")
	if err != nil {
		t.Fatalf("create collection failed: %v", err)
	}

	_, err = m.CreateItem(context.Background(), rivalAddr, collection.ID, "ipfs://x")
	if !errors.Is(err, catalogerrors.ErrNotCollectionCreator) {
		t.Fatalf("expected ErrNotCollectionCreator, got %v", err)
	}
}

func TestCreateItemUnknownCollection(t *testing.T) {
	m := newMarketplace(t)

	_, err := m.CreateItem(context.Background(), artistAddr, 42, "ipfs://x")
	if !errors.Is(err, catalogerrors.ErrUnknownCollection) {
		t.Fatalf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestCreateItemRejectsBlankURI(t *testing.T) {
	m := newMarketplace(t)
	collection, err := m.CreateCollection(context.Background(), artistAddr, "Gallery", "GAL")
	if err != nil {
		t.Fatalf("create collection failed: %v", err)
	}

	_, err = m.CreateItem(context.Background(), artistAddr, collection.ID, "   ")
	if !errors.Is(err, catalogerrors.ErrInvalidURI) {
		t.Fatalf("expected ErrInvalidURI, got %v", err)
	}
}

func TestMintedItemIsOwnedByCreator(t *testing.T) {
	m := newMarketplace(t)
	collectionID, tokenID := mintItem(t, m)

	contract, err := m.Catalog.Service.ItemContract(context.Background(), collectionID)
	if err != nil {
		t.Fatalf("resolve contract failed: %v", err)
	}
	owner, err := contract.OwnerOf(context.Background(), tokenID)
	if err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
	if owner != artistAddr {
		t.Fatalf("expected owner %s, got %s", artistAddr, owner)
	}
}
