package marketplace

import (
	"context"
	"log/slog"
	"math/big"

	collectionservice "bazaar/contexts/catalog/collection-service"
	catalogentities "bazaar/contexts/catalog/collection-service/domain/entities"
	accesscontrol "bazaar/contexts/identity-access/access-control"
	accessentities "bazaar/contexts/identity-access/access-control/domain/entities"
	exchangeservice "bazaar/contexts/trading/exchange-service"
	exchangeentities "bazaar/contexts/trading/exchange-service/domain/entities"
	"bazaar/contexts/trading/exchange-service/domain/services"
	chainmem "bazaar/internal/platform/chain"
	"bazaar/internal/shared/chain"
)

// Marketplace is the composed operation set. One custody address anchors all
// fund escrow and item transfers; traders approve it before listing.
type Marketplace struct {
	Access   accesscontrol.Module
	Catalog  collectionservice.Module
	Exchange exchangeservice.Module

	Custodian chain.Address

	// In-process chain collaborators, exposed so tests and local tooling can
	// seed balances and deploy payment tokens.
	Bank      *chainmem.Bank
	Tokens    *chainmem.Directory
	Contracts *chainmem.Factory
}

// NewInMemory wires the whole marketplace on in-memory adapters and
// in-process chain collaborators. The deployer becomes the sole admin.
func NewInMemory(admin, custodian chain.Address, logger *slog.Logger) *Marketplace {
	bank := chainmem.NewBank()
	tokens := chainmem.NewDirectory()
	factory := chainmem.NewFactory()

	access := accesscontrol.NewInMemoryModule(admin, logger)
	catalog := collectionservice.NewInMemoryModule(access.Service, factory, logger)
	exchange := exchangeservice.NewInMemoryModule(catalog.Service, services.Escrow{
		Ledger:    bank,
		Tokens:    tokens,
		Custodian: custodian,
	}, logger)

	return &Marketplace{
		Access:    access,
		Catalog:   catalog,
		Exchange:  exchange,
		Custodian: custodian,
		Bank:      bank,
		Tokens:    tokens,
		Contracts: factory,
	}
}

func (m *Marketplace) GrantArtistRole(ctx context.Context, caller, to chain.Address) (accessentities.Grant, error) {
	return m.Access.Service.GrantArtistRole(ctx, caller, to)
}

func (m *Marketplace) IsArtist(ctx context.Context, account chain.Address) (bool, error) {
	return m.Access.Service.HasRole(ctx, accessentities.RoleArtist, account)
}

func (m *Marketplace) CreateCollection(ctx context.Context, caller chain.Address, name, symbol string) (catalogentities.Collection, error) {
	return m.Catalog.Service.CreateCollection(ctx, caller, name, symbol)
}

func (m *Marketplace) CreateItem(ctx context.Context, caller chain.Address, collectionID uint64, uri string) (catalogentities.Item, error) {
	return m.Catalog.Service.CreateItem(ctx, caller, collectionID, uri)
}

// ApproveItemTransfer lets an owner authorize the custody account to move
// the token, a prerequisite for selling it.
func (m *Marketplace) ApproveItemTransfer(ctx context.Context, owner chain.Address, collectionID, tokenID uint64) error {
	contract, err := m.Catalog.Service.ItemContract(ctx, collectionID)
	if err != nil {
		return err
	}
	return contract.Approve(ctx, owner, m.Custodian, tokenID)
}

func (m *Marketplace) ListItem(
	ctx context.Context,
	caller chain.Address,
	collectionID, tokenID uint64,
	price *big.Int,
	rail chain.Rail,
) (exchangeentities.Listing, error) {
	return m.Exchange.Service.ListItem(ctx, caller, collectionID, tokenID, price, rail)
}

func (m *Marketplace) CancelListing(ctx context.Context, caller chain.Address, collectionID, tokenID uint64) error {
	return m.Exchange.Service.CancelListing(ctx, caller, collectionID, tokenID)
}

func (m *Marketplace) BuyItem(
	ctx context.Context,
	buyer chain.Address,
	collectionID, tokenID uint64,
	attached *big.Int,
) (exchangeentities.Listing, error) {
	return m.Exchange.Service.BuyItem(ctx, buyer, collectionID, tokenID, attached)
}

func (m *Marketplace) ListItemOnAuction(
	ctx context.Context,
	caller chain.Address,
	collectionID, tokenID uint64,
	minPrice, minBidIncrement *big.Int,
	rail chain.Rail,
) (exchangeentities.Auction, error) {
	return m.Exchange.Service.ListItemOnAuction(ctx, caller, collectionID, tokenID, minPrice, minBidIncrement, rail)
}

func (m *Marketplace) MakeBid(
	ctx context.Context,
	bidder chain.Address,
	collectionID, tokenID uint64,
	bid, attached *big.Int,
) (exchangeentities.Auction, error) {
	return m.Exchange.Service.MakeBid(ctx, bidder, collectionID, tokenID, bid, attached)
}

func (m *Marketplace) FinishAuction(ctx context.Context, caller chain.Address, collectionID, tokenID uint64) (exchangeentities.Auction, error) {
	return m.Exchange.Service.FinishAuction(ctx, caller, collectionID, tokenID)
}

func (m *Marketplace) CancelAuction(ctx context.Context, caller chain.Address, collectionID, tokenID uint64) error {
	return m.Exchange.Service.CancelAuction(ctx, caller, collectionID, tokenID)
}

func (m *Marketplace) GetCollection(ctx context.Context, collectionID uint64) (catalogentities.Collection, error) {
	return m.Catalog.Service.GetCollection(ctx, collectionID)
}

func (m *Marketplace) GetItem(ctx context.Context, tokenID uint64) (catalogentities.Item, error) {
	return m.Catalog.Service.GetItem(ctx, tokenID)
}

func (m *Marketplace) GetListing(ctx context.Context, tokenID uint64) (exchangeentities.Listing, error) {
	return m.Exchange.Service.GetListing(ctx, tokenID)
}

func (m *Marketplace) GetAuction(ctx context.Context, tokenID uint64) (exchangeentities.Auction, error) {
	return m.Exchange.Service.GetAuction(ctx, tokenID)
}
