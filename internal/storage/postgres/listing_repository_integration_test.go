package postgres

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

func TestListingRepository_CreateGetIntegration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewListingRepository(store)

	details := domain.GameDetails{
		Name:       "Example Game",
		Tags:       []domain.TagID{3, 1},
		PriceMinor: 12345,
	}
	require.NoError(t, repo.Create("publisher-1", 42, details))

	stored, err := repo.Get("publisher-1", 42)
	require.NoError(t, err)
	require.Equal(t, "Example Game", stored.Name)
	require.Equal(t, int64(12345), stored.PriceMinor)
	// Порядок тегов сохраняется.
	require.Equal(t, []domain.TagID{3, 1}, stored.Tags)
}

func TestListingRepository_CreateConflictIntegration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewListingRepository(store)

	details := domain.GameDetails{Name: "Example Game", PriceMinor: 100}
	require.NoError(t, repo.Create("publisher-1", 42, details))

	second := domain.GameDetails{Name: "Another Name", PriceMinor: 200}
	err := repo.Create("publisher-1", 42, second)
	require.True(t, errors.Is(err, domain.ErrGameAlreadyExists))

	stored, err := repo.Get("publisher-1", 42)
	require.NoError(t, err)
	require.Equal(t, "Example Game", stored.Name)
}

func TestListingRepository_GetMissingIntegration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewListingRepository(store)

	_, err := repo.Get("publisher-1", 42)
	require.True(t, errors.Is(err, domain.ErrGameNotFound))
}

func TestPublisherRepository_Integration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewPublisherRepository(store)

	details := domain.PublisherDetails{Name: "Example Publisher", URL: "https://example.com"}
	require.NoError(t, repo.Create("publisher-1", details))

	stored, err := repo.Get("publisher-1")
	require.NoError(t, err)
	require.Equal(t, details, stored)

	exists, err := repo.Exists("publisher-1")
	require.NoError(t, err)
	require.True(t, exists)

	err = repo.Create("publisher-1", details)
	require.True(t, errors.Is(err, domain.ErrPublisherAlreadyExists))
}
