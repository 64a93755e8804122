package domain

import "time"

// ListingRepository описывает требования к хранилищу опубликованных игр.
type ListingRepository interface {
	// Create сохраняет новый листинг. Возвращает ErrGameAlreadyExists,
	// если ключ (publisher, game) уже занят.
	Create(publisherID string, gameID GameID, details GameDetails) error
	// Get возвращает листинг или ErrGameNotFound, если его нет.
	Get(publisherID string, gameID GameID) (GameDetails, error)
}

// OrderBookRepository хранит зеркальные индексы заказов и реестр купленных игр.
// Place и Resolve обязаны применять все свои записи атомарно.
type OrderBookRepository interface {
	// Place создаёт обе записи заказа. Возвращает ErrOrderAlreadyPlaced,
	// если по (publisher, game) уже есть незакрытый заказ.
	Place(order PendingOrder) error
	// Get возвращает заказ по стороне покупателя или ErrOrderNotFound.
	Get(buyerID, publisherID string, gameID GameID) (PendingOrder, error)
	// PendingBuyer возвращает покупателя по стороне издателя или ErrOrderNotFound.
	PendingBuyer(publisherID string, gameID GameID) (string, error)
	// Resolve удаляет обе записи заказа и фиксирует владение игрой одним шагом.
	// Несовпадение покупателя в индексах трактуется как ErrOrderNotFound.
	Resolve(buyerID, publisherID string, gameID GameID) error
	// Owned сообщает, куплена ли игра этим покупателем.
	Owned(buyerID, publisherID string, gameID GameID) (bool, error)
}

// PublisherRepository описывает требования к хранилищу издателей.
type PublisherRepository interface {
	// Create сохраняет нового издателя. Возвращает ErrPublisherAlreadyExists,
	// если идентификатор уже занят.
	Create(publisherID string, details PublisherDetails) error
	// Get возвращает детали издателя или ErrInvalidPublisher, если его нет.
	Get(publisherID string) (PublisherDetails, error)
	// Exists сообщает, зарегистрирован ли издатель.
	Exists(publisherID string) (bool, error)
}

// PublisherRegistry — проверка издателя, которую потребляет каталог игр.
type PublisherRegistry interface {
	// IsValidPublisher сообщает, зарегистрирован ли издатель.
	IsValidPublisher(publisherID string) bool
}

// TagCatalog — проверка тега, которую потребляет валидация листинга.
type TagCatalog interface {
	// IsValidTag сообщает, существует ли тег в каталоге.
	IsValidTag(id TagID) bool
}

// CurrencyLedger описывает внешнюю денежную систему. Ядро не трогает
// балансы напрямую — только через эту capability.
type CurrencyLedger interface {
	// Hold блокирует amountMinor на счёте account под указанной причиной.
	// Возвращает ErrFundsUnavailable, если свободных средств не хватает.
	Hold(reason, account string, amountMinor int64) error
	// Release снимает блокировку, возвращая средства в свободный остаток.
	Release(reason, account string, amountMinor int64) error
	// ReleaseAndTransfer снимает блокировку и переводит средства получателю.
	ReleaseAndTransfer(reason, from, to string, amountMinor int64) error
	// Balance возвращает свободный остаток счёта.
	Balance(account string) int64
}

// OutboxPublisher публикует события из transactional outbox.
type OutboxPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(event OutboxMessage) error
}

// OutboxRepository позволяет сохранять события для последующей публикации.
type OutboxRepository interface {
	Enqueue(msg OutboxMessage) (OutboxMessage, error)
	PullPending(limit int) ([]OutboxMessage, error)
	Stats() (OutboxStats, error)
	MarkSent(id string) error
	MarkFailed(id string) error
}

// OutboxMessage хранит данные для публикуемого события.
type OutboxMessage struct {
	ID            string
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       []byte
}

// OutboxStats описывает текущее состояние backlog transactional outbox.
type OutboxStats struct {
	PendingCount    int
	OldestPendingAt time.Time
}
