package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// listingRepositoryInMemory — простая in-memory реализация ListingRepository.
type listingRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[domain.GameKey]domain.GameDetails
}

// NewListingRepository возвращает in-memory каталог игр для локальной разработки и тестов.
func NewListingRepository() domain.ListingRepository {
	return &listingRepositoryInMemory{
		items: make(map[domain.GameKey]domain.GameDetails),
	}
}

// Create сохраняет новый листинг, если ключ (publisher, game) ещё не занят.
func (r *listingRepositoryInMemory) Create(publisherID string, gameID domain.GameID, details domain.GameDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := domain.GameKey{PublisherID: publisherID, GameID: gameID}
	if _, exists := r.items[key]; exists {
		return domain.ErrGameAlreadyExists
	}
	// Сохраняем копию тегов, чтобы избежать мутаций извне.
	stored := details
	stored.Tags = append([]domain.TagID(nil), details.Tags...)
	r.items[key] = stored
	return nil
}

// Get возвращает листинг или ErrGameNotFound, если его нет.
func (r *listingRepositoryInMemory) Get(publisherID string, gameID domain.GameID) (domain.GameDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	details, ok := r.items[domain.GameKey{PublisherID: publisherID, GameID: gameID}]
	if !ok {
		return domain.GameDetails{}, domain.ErrGameNotFound
	}
	result := details
	result.Tags = append([]domain.TagID(nil), details.Tags...)
	return result, nil
}

var _ domain.ListingRepository = (*listingRepositoryInMemory)(nil)
