package services

import (
	"errors"
	"testing"

	domainerrors "bazaar/contexts/trading/exchange-service/domain/errors"
)

func TestGuardBlocksNestedEntry(t *testing.T) {
	guard := NewReentrancyGuard()

	release, err := guard.Enter()
	if err != nil {
		t.Fatalf("first entry failed: %v", err)
	}
	if _, err := guard.Enter(); !errors.Is(err, domainerrors.ErrReentrancyDetected) {
		t.Fatalf("expected ErrReentrancyDetected, got %v", err)
	}

	release()
	release2, err := guard.Enter()
	if err != nil {
		t.Fatalf("entry after release failed: %v", err)
	}
	release2()
}
