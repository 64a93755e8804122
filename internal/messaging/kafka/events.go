package kafka

import "time"

// EventType определяет тип события
type EventType string

const (
	// События каталога
	EventTypePublisherAdded EventType = "publisher.added"
	EventTypeListingAdded   EventType = "listing.added"

	// События заказов
	EventTypeOrderPlaced    EventType = "order.placed"
	EventTypeOrderFulfilled EventType = "order.fulfilled"
)

// Topics для Kafka
const (
	TopicMarketEvents    = "liganite.market.events"
	TopicDeadLetterQueue = "liganite.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// MarketEvent представляет событие магазина
type MarketEvent struct {
	EventType   EventType              `json:"event_type"`
	PublisherID string                 `json:"publisher_id"`
	GameID      uint16                 `json:"game_id,omitempty"`
	BuyerID     string                 `json:"buyer_id,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// NewMarketEvent создает новое событие магазина
func NewMarketEvent(eventType EventType, publisherID string, gameID uint16, buyerID string, metadata map[string]interface{}) *MarketEvent {
	return &MarketEvent{
		EventType:   eventType,
		PublisherID: publisherID,
		GameID:      gameID,
		BuyerID:     buyerID,
		Timestamp:   time.Now(),
		Metadata:    metadata,
	}
}
