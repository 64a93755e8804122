package memory

import (
	"sync"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// buyerOrderKey — ключ индекса заказов со стороны покупателя.
type buyerOrderKey struct {
	buyerID string
	game    domain.GameKey
}

// ownedKey — ключ реестра купленных игр.
type ownedKey struct {
	buyerID string
	game    domain.GameKey
}

// orderBookInMemory держит оба индекса заказов и реестр владения под одним
// мьютексом: Place и Resolve либо применяют все свои записи, либо ни одной.
type orderBookInMemory struct {
	mu          sync.RWMutex
	byPublisher map[domain.GameKey]string
	byBuyer     map[buyerOrderKey]int64
	owned       map[ownedKey]struct{}
}

// NewOrderBookRepository возвращает in-memory реализацию OrderBookRepository.
func NewOrderBookRepository() domain.OrderBookRepository {
	return &orderBookInMemory{
		byPublisher: make(map[domain.GameKey]string),
		byBuyer:     make(map[buyerOrderKey]int64),
		owned:       make(map[ownedKey]struct{}),
	}
}

// Place создаёт обе записи заказа одним шагом.
func (r *orderBookInMemory) Place(order domain.PendingOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := order.Key()
	if _, exists := r.byPublisher[key]; exists {
		return domain.ErrOrderAlreadyPlaced
	}
	r.byPublisher[key] = order.BuyerID
	r.byBuyer[buyerOrderKey{buyerID: order.BuyerID, game: key}] = order.DepositMinor
	return nil
}

// Get возвращает заказ по стороне покупателя.
func (r *orderBookInMemory) Get(buyerID, publisherID string, gameID domain.GameID) (domain.PendingOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game := domain.GameKey{PublisherID: publisherID, GameID: gameID}
	deposit, ok := r.byBuyer[buyerOrderKey{buyerID: buyerID, game: game}]
	if !ok {
		return domain.PendingOrder{}, domain.ErrOrderNotFound
	}
	return domain.PendingOrder{
		BuyerID:      buyerID,
		PublisherID:  publisherID,
		GameID:       gameID,
		DepositMinor: deposit,
	}, nil
}

// PendingBuyer возвращает покупателя по стороне издателя.
func (r *orderBookInMemory) PendingBuyer(publisherID string, gameID domain.GameID) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	buyer, ok := r.byPublisher[domain.GameKey{PublisherID: publisherID, GameID: gameID}]
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	return buyer, nil
}

// Resolve удаляет обе записи заказа и фиксирует владение одним шагом.
// Расхождение индексов по покупателю трактуется как ErrOrderNotFound.
func (r *orderBookInMemory) Resolve(buyerID, publisherID string, gameID domain.GameID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	game := domain.GameKey{PublisherID: publisherID, GameID: gameID}
	bKey := buyerOrderKey{buyerID: buyerID, game: game}
	if _, ok := r.byBuyer[bKey]; !ok {
		return domain.ErrOrderNotFound
	}
	if r.byPublisher[game] != buyerID {
		return domain.ErrOrderNotFound
	}

	delete(r.byPublisher, game)
	delete(r.byBuyer, bKey)
	r.owned[ownedKey{buyerID: buyerID, game: game}] = struct{}{}
	return nil
}

// Owned сообщает, куплена ли игра этим покупателем.
func (r *orderBookInMemory) Owned(buyerID, publisherID string, gameID domain.GameID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game := domain.GameKey{PublisherID: publisherID, GameID: gameID}
	_, ok := r.owned[ownedKey{buyerID: buyerID, game: game}]
	return ok, nil
}

var _ domain.OrderBookRepository = (*orderBookInMemory)(nil)
