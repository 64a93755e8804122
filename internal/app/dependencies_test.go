package app

import (
	"context"
	"testing"
)

func TestNewDependencies_Memory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LedgerSeed = "buyer-1=100000"

	deps, err := NewDependencies(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer deps.Close()

	if deps.Listings == nil || deps.Orders == nil || deps.PublisherRepo == nil || deps.OutboxRepo == nil {
		t.Fatal("expected all repositories to be initialized")
	}
	if deps.Store != nil {
		t.Error("memory driver must not open a postgres store")
	}
	if deps.Tags == nil || !deps.Tags.IsValidTag(1) {
		t.Error("expected tag catalog seeded with defaults")
	}
	if got := deps.Ledger.Balance("buyer-1"); got != 100000 {
		t.Errorf("expected seeded balance 100000, got %d", got)
	}
}

func TestNewDependencies_UnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StorageDriver = "cassandra"

	if _, err := NewDependencies(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown storage driver")
	}
}
