package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// publisherRepositoryInMemory — простая in-memory реализация PublisherRepository.
type publisherRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.PublisherDetails
}

// NewPublisherRepository возвращает in-memory реестр издателей.
func NewPublisherRepository() domain.PublisherRepository {
	return &publisherRepositoryInMemory{
		items: make(map[string]domain.PublisherDetails),
	}
}

// Create сохраняет нового издателя, если идентификатор ещё не занят.
func (r *publisherRepositoryInMemory) Create(publisherID string, details domain.PublisherDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[publisherID]; exists {
		return domain.ErrPublisherAlreadyExists
	}
	r.items[publisherID] = details
	return nil
}

// Get возвращает детали издателя или ErrInvalidPublisher, если его нет.
func (r *publisherRepositoryInMemory) Get(publisherID string) (domain.PublisherDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	details, ok := r.items[publisherID]
	if !ok {
		return domain.PublisherDetails{}, domain.ErrInvalidPublisher
	}
	return details, nil
}

// Exists сообщает, зарегистрирован ли издатель.
func (r *publisherRepositoryInMemory) Exists(publisherID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[publisherID]
	return ok, nil
}

var _ domain.PublisherRepository = (*publisherRepositoryInMemory)(nil)
