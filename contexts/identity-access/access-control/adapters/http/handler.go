package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"bazaar/contexts/identity-access/access-control/application"
	"bazaar/contexts/identity-access/access-control/domain/entities"
	httptransport "bazaar/contexts/identity-access/access-control/transport/http"
	"bazaar/internal/shared/chain"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) GrantArtistRoleHandler(
	ctx context.Context,
	caller chain.Address,
	req httptransport.GrantArtistRoleRequest,
) (httptransport.GrantArtistRoleResponse, error) {
	grant, err := h.Service.GrantArtistRole(ctx, caller, chain.Address(req.Account))
	if err != nil {
		return httptransport.GrantArtistRoleResponse{}, err
	}
	return httptransport.GrantArtistRoleResponse{
		Status: "success",
		Data: httptransport.GrantDTO{
			Role:      string(grant.Role),
			Account:   string(grant.Account),
			GrantedBy: string(grant.GrantedBy),
			GrantedAt: grant.GrantedAt.UTC().Format(time.RFC3339),
		},
	}, nil
}

func (h Handler) HasRoleHandler(
	ctx context.Context,
	role string,
	account chain.Address,
) (httptransport.HasRoleResponse, error) {
	ok, err := h.Service.HasRole(ctx, entities.Role(role), account)
	if err != nil {
		return httptransport.HasRoleResponse{}, err
	}
	resp := httptransport.HasRoleResponse{Status: "success"}
	resp.Data.Role = role
	resp.Data.Account = string(account)
	resp.Data.HasRole = ok
	return resp, nil
}
