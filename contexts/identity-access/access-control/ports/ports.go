package ports

import (
	"context"
	"time"

	"bazaar/contexts/identity-access/access-control/domain/entities"
	contractsv1 "bazaar/contracts/gen/events/v1"
	"bazaar/internal/shared/chain"
)

// Repository owns role membership persistence.
type Repository interface {
	HasRole(ctx context.Context, role entities.Role, account chain.Address) (bool, error)
	// PutGrant must atomically record the grant and its outbox event.
	PutGrant(ctx context.Context, grant entities.Grant, event EventEnvelope) error
}

// Clock allows deterministic testing of grant timestamps.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts event identifier generation.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-module envelope contract.
type EventEnvelope = contractsv1.Envelope
