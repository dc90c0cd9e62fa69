package application

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"bazaar/contexts/identity-access/access-control/domain/entities"
	domainerrors "bazaar/contexts/identity-access/access-control/domain/errors"
	"bazaar/contexts/identity-access/access-control/ports"
	"bazaar/internal/shared/chain"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// GrantArtistRole adds `to` to the artist set. Only admins may grant.
func (s Service) GrantArtistRole(ctx context.Context, caller, to chain.Address) (entities.Grant, error) {
	if to == chain.Zero {
		return entities.Grant{}, domainerrors.ErrInvalidAccount
	}

	isAdmin, err := s.Repo.HasRole(ctx, entities.RoleAdmin, caller)
	if err != nil {
		return entities.Grant{}, err
	}
	if !isAdmin {
		return entities.Grant{}, domainerrors.ErrNotAdmin
	}

	grant := entities.Grant{
		Role:      entities.RoleArtist,
		Account:   to,
		GrantedBy: caller,
		GrantedAt: s.now(),
	}

	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Grant{}, err
	}
	data, err := json.Marshal(grant)
	if err != nil {
		return entities.Grant{}, err
	}
	if err := s.Repo.PutGrant(ctx, grant, ports.EventEnvelope{
		EventID:       eventID,
		EventType:     "marketplace.role_granted",
		OccurredAt:    grant.GrantedAt,
		SourceModule:  "identity-access/access-control",
		TraceID:       eventID,
		SchemaVersion: 1,
		EntityType:    "role_grant",
		EntityID:      string(to),
		Data:          data,
	}); err != nil {
		return entities.Grant{}, err
	}

	ResolveLogger(s.Logger).Info("artist role granted",
		"event", "role_granted",
		"module", "identity-access/access-control",
		"layer", "application",
		"account", string(to),
		"granted_by", string(caller),
	)
	return grant, nil
}

// HasRole is the pure predicate consulted by gated operations.
func (s Service) HasRole(ctx context.Context, role entities.Role, account chain.Address) (bool, error) {
	return s.Repo.HasRole(ctx, role, account)
}

// RequireArtist fails with ErrNotArtist when account lacks the artist role.
func (s Service) RequireArtist(ctx context.Context, account chain.Address) error {
	ok, err := s.Repo.HasRole(ctx, entities.RoleArtist, account)
	if err != nil {
		return err
	}
	if !ok {
		return domainerrors.ErrNotArtist
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}
