package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/catalog/collection-service/application"
	"bazaar/contexts/catalog/collection-service/domain/entities"
	httptransport "bazaar/contexts/catalog/collection-service/transport/http"
	"bazaar/internal/shared/chain"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateCollectionHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.CreateCollectionRequest,
) (httptransport.CollectionResponse, error) {
	collection, err := h.Service.CreateCollection(ctx, caller, req.Name, req.Symbol)
	if err != nil {
		return httptransport.CollectionResponse{}, err
	}
	return httptransport.CollectionResponse{Status: "success", Data: toCollectionDTO(collection)}, nil
}

func (h Handler) CreateItemHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.CreateItemRequest,
) (httptransport.ItemResponse, error) {
	item, err := h.Service.CreateItem(ctx, caller, req.CollectionID, req.URI)
	if err != nil {
		return httptransport.ItemResponse{}, err
	}
	return httptransport.ItemResponse{Status: "success", Data: toItemDTO(item, caller)}, nil
}

func (h Handler) GetCollectionHandler(
	ctx context.Context,
	collectionID uint64,
) (httptransport.CollectionResponse, error) {
	collection, err := h.Service.GetCollection(ctx, collectionID)
	if err != nil {
		return httptransport.CollectionResponse{}, err
	}
	return httptransport.CollectionResponse{Status: "success", Data: toCollectionDTO(collection)}, nil
}

func (h Handler) GetItemHandler(
	ctx context.Context,
	tokenID uint64,
) (httptransport.ItemResponse, error) {
	item, err := h.Service.GetItem(ctx, tokenID)
	if err != nil {
		return httptransport.ItemResponse{}, err
	}
	contract, err := h.Service.ItemContract(ctx, item.CollectionID)
	if err != nil {
		return httptransport.ItemResponse{}, err
	}
	owner, err := contract.OwnerOf(ctx, item.TokenID)
	if err != nil {
		return httptransport.ItemResponse{}, err
	}
	return httptransport.ItemResponse{Status: "success", Data: toItemDTO(item, owner)}, nil
}

func toCollectionDTO(collection entities.Collection) httptransport.CollectionDTO {
	return httptransport.CollectionDTO{
		CollectionID: collection.ID,
		Creator:      string(collection.Creator),
		ContractAddr: string(collection.ContractAddr),
		Name:         collection.Name,
		Symbol:       collection.Symbol,
		CreatedAt:    collection.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toItemDTO(item entities.Item, owner chain.Address) httptransport.ItemDTO {
	return httptransport.ItemDTO{
		TokenID:      item.TokenID,
		CollectionID: item.CollectionID,
		Owner:        string(owner),
		URI:          item.URI,
		MintedAt:     item.MintedAt.UTC().Format(time.RFC3339),
	}
}
