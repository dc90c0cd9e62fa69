package chainmem

import (
	"context"
	"errors"
	"testing"

	"bazaar/internal/shared/chain"
)

func TestTransferFromRequiresApproval(t *testing.T) {
	contract := NewItemContract("Gallery", "GAL")
	owner := chain.Address("addr:owner")
	operator := chain.Address("addr:operator")
	receiver := chain.Address("addr:receiver")

	if err := contract.Mint(context.Background(), owner, 1, "ipfs://1"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	err := contract.TransferFrom(context.Background(), operator, owner, receiver, 1)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected ErrNotAuthorized without approval, got %v", err)
	}

	if err := contract.Approve(context.Background(), owner, operator, 1); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if err := contract.TransferFrom(context.Background(), operator, owner, receiver, 1); err != nil {
		t.Fatalf("approved transfer failed: %v", err)
	}

	// Approval is consumed by the transfer.
	err = contract.TransferFrom(context.Background(), operator, receiver, owner, 1)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("expected approval to be cleared, got %v", err)
	}
}

func TestTransferFromWrongOwner(t *testing.T) {
	contract := NewItemContract("Gallery", "GAL")
	owner := chain.Address("addr:owner")

	if err := contract.Mint(context.Background(), owner, 1, "ipfs://1"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	err := contract.TransferFrom(context.Background(), owner, "addr:other", "addr:receiver", 1)
	if !errors.Is(err, ErrWrongOwner) {
		t.Fatalf("expected ErrWrongOwner, got %v", err)
	}
}

func TestMintRejectsDuplicateTokenID(t *testing.T) {
	contract := NewItemContract("Gallery", "GAL")

	if err := contract.Mint(context.Background(), "addr:owner", 1, "ipfs://1"); err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	err := contract.Mint(context.Background(), "addr:owner", 1, "ipfs://dup")
	if !errors.Is(err, ErrTokenExists) {
		t.Fatalf("expected ErrTokenExists, got %v", err)
	}
}
