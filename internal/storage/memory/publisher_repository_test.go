package memory_test

import (
	"errors"
	"testing"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
	"github.com/vladislavdragonenkov/liganite/internal/storage/memory"
)

func TestPublisherRepository_CreateGet(t *testing.T) {
	repo := memory.NewPublisherRepository()

	details := domain.PublisherDetails{Name: "Example Publisher", URL: "https://example.com"}
	if err := repo.Create("publisher-1", details); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	stored, err := repo.Get("publisher-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.URL != "https://example.com" {
		t.Fatalf("expected url %q, got %q", "https://example.com", stored.URL)
	}

	exists, err := repo.Exists("publisher-1")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if !exists {
		t.Fatal("publisher must exist after create")
	}
}

func TestPublisherRepository_CreateDuplicate(t *testing.T) {
	repo := memory.NewPublisherRepository()

	details := domain.PublisherDetails{Name: "Example Publisher"}
	if err := repo.Create("publisher-1", details); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Create("publisher-1", details); !errors.Is(err, domain.ErrPublisherAlreadyExists) {
		t.Fatalf("expected ErrPublisherAlreadyExists, got %v", err)
	}
}

func TestPublisherRepository_GetMissing(t *testing.T) {
	repo := memory.NewPublisherRepository()

	if _, err := repo.Get("publisher-1"); !errors.Is(err, domain.ErrInvalidPublisher) {
		t.Fatalf("expected ErrInvalidPublisher, got %v", err)
	}

	exists, err := repo.Exists("publisher-1")
	if err != nil {
		t.Fatalf("exists failed: %v", err)
	}
	if exists {
		t.Fatal("publisher must not exist")
	}
}
