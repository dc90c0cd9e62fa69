package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"bazaar/contexts/identity-access/access-control/domain/entities"
	"bazaar/contexts/identity-access/access-control/ports"
	"bazaar/internal/shared/chain"
	"bazaar/internal/shared/outbox"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository, clock, and id
// generator ports. The deployer address is seeded as the sole admin, matching
// marketplace construction semantics.
type Store struct {
	mu sync.RWMutex

	members map[entities.Role]map[chain.Address]struct{}
	grants  []entities.Grant
	outbox  []outbox.Message
}

func NewStore(admin chain.Address) *Store {
	s := &Store{
		members: map[entities.Role]map[chain.Address]struct{}{
			entities.RoleAdmin:  {admin: {}},
			entities.RoleArtist: {},
		},
	}
	return s
}

func (s *Store) HasRole(_ context.Context, role entities.Role, account chain.Address) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.members[role][account]
	return ok, nil
}

func (s *Store) PutGrant(_ context.Context, grant entities.Grant, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.members[grant.Role]
	if !ok {
		set = make(map[chain.Address]struct{})
		s.members[grant.Role] = set
	}
	set[grant.Account] = struct{}{}
	s.grants = append(s.grants, grant)

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, outbox.Message{
		ID:        event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    "pending",
	})
	return nil
}

// ListPendingOutbox returns up to limit unpublished event rows, oldest first.
func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]outbox.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]outbox.Message, 0, limit)
	for _, row := range s.outbox {
		if row.Status != "pending" {
			continue
		}
		rows = append(rows, row)
		if limit > 0 && len(rows) == limit {
			break
		}
	}
	return rows, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].ID == outboxID {
			s.outbox[i].Status = "published"
			return nil
		}
	}
	return fmt.Errorf("outbox row not found: %s", outboxID)
}

// PendingOutbox returns unpublished event rows, oldest first.
func (s *Store) PendingOutbox() []outbox.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := make([]outbox.Message, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.Status == "pending" {
			rows = append(rows, row)
		}
	}
	return rows
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
