package services

import (
	"sync"

	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
)

// ReentrancyGuard is a scoped exclusive lock around operations that perform
// external transfers. Execution is single-writer; the only way the lock can
// be observed held is a collaborator calling back into the marketplace before
// returning. Release happens on every exit path, so a failed body never
// leaves the guard locked out.
type ReentrancyGuard struct {
	mu   sync.Mutex
	held bool
}

func NewReentrancyGuard() *ReentrancyGuard {
	return &ReentrancyGuard{}
}

// Enter acquires the guard. It returns the release func, or
// ErrReentrancyDetected when the guard is already held.
func (g *ReentrancyGuard) Enter() (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held {
		return nil, domainerrors.ErrReentrancyDetected
	}
	g.held = true
	return g.release, nil
}

func (g *ReentrancyGuard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.held = false
}
