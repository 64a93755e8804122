package market

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
	"github.com/vladislavdragonenkov/liganite/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/liganite/internal/metrics"
)

// Service реализует операции магазина: публикацию игр, размещение и
// исполнение заказов. Операции сериализуются одним mutex: каждая видит
// либо полный эффект предыдущей, либо ничего. Все проверки выполняются
// до первой записи, поэтому неуспешный вызов не меняет состояние.
type Service struct {
	mu sync.Mutex

	listings   domain.ListingRepository
	orders     domain.OrderBookRepository
	publishers domain.PublisherRegistry
	tags       domain.TagCatalog
	ledger     domain.CurrencyLedger
	outbox     domain.OutboxRepository

	logger        *log.Entry
	metrics       *metrics.MarketMetrics
	kafkaProducer *kafka.Producer // опциональный Kafka producer для event-driven архитектуры
}

// NewService создаёт рабочий экземпляр сервиса магазина.
func NewService(
	listings domain.ListingRepository,
	orders domain.OrderBookRepository,
	publishers domain.PublisherRegistry,
	tags domain.TagCatalog,
	ledger domain.CurrencyLedger,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "market")
	}
	return &Service{
		listings:   listings,
		orders:     orders,
		publishers: publishers,
		tags:       tags,
		ledger:     ledger,
		outbox:     outbox,
		logger:     logger,
		metrics:    metrics.NewMarketMetrics(),
	}
}

// NewServiceWithKafka создаёт сервис с Kafka producer для event-driven архитектуры.
func NewServiceWithKafka(
	listings domain.ListingRepository,
	orders domain.OrderBookRepository,
	publishers domain.PublisherRegistry,
	tags domain.TagCatalog,
	ledger domain.CurrencyLedger,
	outbox domain.OutboxRepository,
	kafkaProducer *kafka.Producer,
	logger *log.Entry,
) *Service {
	svc := NewService(listings, orders, publishers, tags, ledger, outbox, logger)
	svc.kafkaProducer = kafkaProducer
	return svc
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	listings domain.ListingRepository,
	orders domain.OrderBookRepository,
	publishers domain.PublisherRegistry,
	tags domain.TagCatalog,
	ledger domain.CurrencyLedger,
	outbox domain.OutboxRepository,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "market")
	}
	return &Service{
		listings:   listings,
		orders:     orders,
		publishers: publishers,
		tags:       tags,
		ledger:     ledger,
		outbox:     outbox,
		logger:     logger,
	}
}

// AddListing публикует новую игру издателя.
func (s *Service) AddListing(publisherID string, gameID domain.GameID, details domain.GameDetails) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observeDuration("add_listing", start)

	if !s.publishers.IsValidPublisher(publisherID) {
		s.recordFailure("add_listing")
		return domain.ErrInvalidPublisher
	}

	if _, err := s.listings.Get(publisherID, gameID); err == nil {
		s.recordFailure("add_listing")
		return domain.ErrGameAlreadyExists
	} else if !errors.Is(err, domain.ErrGameNotFound) {
		s.recordFailure("add_listing")
		return err
	}

	if err := details.Validate(s.tags.IsValidTag); err != nil {
		s.recordFailure("add_listing")
		return err
	}

	if err := s.listings.Create(publisherID, gameID, details); err != nil {
		s.recordFailure("add_listing")
		return err
	}

	s.emitEvent("listing", listingKey(publisherID, gameID), kafka.EventTypeListingAdded, map[string]any{
		"publisher_id": publisherID,
		"game_id":      gameID,
	})
	s.publishMarketEvent(kafka.EventTypeListingAdded, publisherID, gameID, "", map[string]interface{}{
		"price_minor": details.PriceMinor,
	})
	if s.metrics != nil {
		s.metrics.RecordListingAdded()
	}

	s.logger.WithFields(log.Fields{
		"publisher_id": publisherID,
		"game_id":      gameID,
		"price_minor":  details.PriceMinor,
	}).Info("listing added")
	return nil
}

// PlaceOrder размещает заказ покупателя на игру и блокирует депозит
// в размере текущей цены листинга.
func (s *Service) PlaceOrder(buyerID, publisherID string, gameID domain.GameID) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observeDuration("place_order", start)

	// Купленная игра не может быть куплена повторно; проверка идёт до
	// поиска листинга, поэтому владелец получает GameAlreadyExists даже
	// для снятой с продажи игры.
	owned, err := s.orders.Owned(buyerID, publisherID, gameID)
	if err != nil {
		s.recordFailure("place_order")
		return err
	}
	if owned {
		s.recordFailure("place_order")
		return domain.ErrGameAlreadyExists
	}

	listing, err := s.listings.Get(publisherID, gameID)
	if err != nil {
		s.recordFailure("place_order")
		return err
	}

	if _, err := s.orders.PendingBuyer(publisherID, gameID); err == nil {
		s.recordFailure("place_order")
		return domain.ErrOrderAlreadyPlaced
	} else if !errors.Is(err, domain.ErrOrderNotFound) {
		s.recordFailure("place_order")
		return err
	}

	if err := s.ledger.Hold(domain.HoldReasonGamePayment, buyerID, listing.PriceMinor); err != nil {
		s.recordFailure("place_order")
		return err
	}

	order := domain.PendingOrder{
		BuyerID:      buyerID,
		PublisherID:  publisherID,
		GameID:       gameID,
		DepositMinor: listing.PriceMinor,
	}
	if err := s.orders.Place(order); err != nil {
		// Компенсация: hold уже стоит, возвращаем средства покупателю.
		if relErr := s.ledger.Release(domain.HoldReasonGamePayment, buyerID, listing.PriceMinor); relErr != nil {
			s.logger.WithError(relErr).WithFields(log.Fields{
				"buyer_id":     buyerID,
				"publisher_id": publisherID,
				"game_id":      gameID,
			}).Error("failed to release hold after aborted order placement")
		}
		s.recordFailure("place_order")
		return err
	}

	s.emitEvent("order", listingKey(publisherID, gameID), kafka.EventTypeOrderPlaced, map[string]any{
		"buyer_id":      buyerID,
		"publisher_id":  publisherID,
		"game_id":       gameID,
		"deposit_minor": listing.PriceMinor,
	})
	s.publishMarketEvent(kafka.EventTypeOrderPlaced, publisherID, gameID, buyerID, map[string]interface{}{
		"deposit_minor": listing.PriceMinor,
	})
	if s.metrics != nil {
		s.metrics.RecordOrderPlaced()
	}

	s.logger.WithFields(log.Fields{
		"buyer_id":      buyerID,
		"publisher_id":  publisherID,
		"game_id":       gameID,
		"deposit_minor": listing.PriceMinor,
	}).Info("order placed")
	return nil
}

// FulfillOrder исполняет заказ: переводит депозит издателю, закрывает
// обе записи заказа и фиксирует владение игрой.
func (s *Service) FulfillOrder(publisherID string, gameID domain.GameID, buyerID string) error {
	start := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.observeDuration("fulfill_order", start)

	order, err := s.orders.Get(buyerID, publisherID, gameID)
	if err != nil {
		s.recordFailure("fulfill_order")
		return err
	}

	pendingBuyer, err := s.orders.PendingBuyer(publisherID, gameID)
	if err != nil {
		s.recordFailure("fulfill_order")
		return err
	}
	if pendingBuyer != buyerID {
		s.recordFailure("fulfill_order")
		return domain.ErrOrderNotFound
	}

	if err := s.ledger.ReleaseAndTransfer(domain.HoldReasonGamePayment, buyerID, publisherID, order.DepositMinor); err != nil {
		s.recordFailure("fulfill_order")
		return err
	}

	if err := s.orders.Resolve(buyerID, publisherID, gameID); err != nil {
		// Средства уже у издателя, а заказ не закрыт. Под сериализующим
		// mutex это возможно только при отказе хранилища; расхождение
		// требует ручной сверки по этому сообщению.
		s.logger.WithError(err).WithFields(log.Fields{
			"buyer_id":      buyerID,
			"publisher_id":  publisherID,
			"game_id":       gameID,
			"deposit_minor": order.DepositMinor,
		}).Error("order resolve failed after funds transfer, manual reconciliation required")
		s.recordFailure("fulfill_order")
		return err
	}

	s.emitEvent("order", listingKey(publisherID, gameID), kafka.EventTypeOrderFulfilled, map[string]any{
		"buyer_id":      buyerID,
		"publisher_id":  publisherID,
		"game_id":       gameID,
		"deposit_minor": order.DepositMinor,
	})
	s.publishMarketEvent(kafka.EventTypeOrderFulfilled, publisherID, gameID, buyerID, map[string]interface{}{
		"deposit_minor": order.DepositMinor,
	})
	if s.metrics != nil {
		s.metrics.RecordOrderFulfilled()
	}

	s.logger.WithFields(log.Fields{
		"buyer_id":      buyerID,
		"publisher_id":  publisherID,
		"game_id":       gameID,
		"deposit_minor": order.DepositMinor,
	}).Info("order fulfilled")
	return nil
}

// GetListing возвращает опубликованную игру.
func (s *Service) GetListing(publisherID string, gameID domain.GameID) (domain.GameDetails, error) {
	return s.listings.Get(publisherID, gameID)
}

// GetOrder возвращает незакрытый заказ покупателя.
func (s *Service) GetOrder(buyerID, publisherID string, gameID domain.GameID) (domain.PendingOrder, error) {
	return s.orders.Get(buyerID, publisherID, gameID)
}

// Owned сообщает, куплена ли игра покупателем.
func (s *Service) Owned(buyerID, publisherID string, gameID domain.GameID) (bool, error) {
	return s.orders.Owned(buyerID, publisherID, gameID)
}

func (s *Service) observeDuration(operation string, start time.Time) {
	if s.metrics != nil {
		s.metrics.RecordOperationDuration(operation, time.Since(start))
	}
}

func (s *Service) recordFailure(operation string) {
	if s.metrics != nil {
		s.metrics.RecordOperationFailed(operation)
	}
}

// emitEvent ставит событие в transactional outbox. Состояние уже
// изменено, поэтому сбой очереди деградирует только доставку.
func (s *Service) emitEvent(aggregateType, aggregateID string, eventType kafka.EventType, payload map[string]any) {
	if s.outbox == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Error("failed to marshal outbox payload")
		return
	}

	if _, err := s.outbox.Enqueue(domain.OutboxMessage{
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     string(eventType),
		Payload:       body,
	}); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"aggregate_id": aggregateID,
			"event_type":   eventType,
		}).Error("failed to enqueue outbox event")
		return
	}

	if s.metrics != nil {
		s.metrics.RecordOutboxEvent()
	}
}

// publishMarketEvent отправляет событие напрямую в Kafka, если producer настроен.
func (s *Service) publishMarketEvent(eventType kafka.EventType, publisherID string, gameID domain.GameID, buyerID string, metadata map[string]interface{}) {
	if s.kafkaProducer == nil {
		return
	}

	event := kafka.NewMarketEvent(eventType, publisherID, uint16(gameID), buyerID, metadata)
	if err := s.kafkaProducer.PublishEvent(kafka.TopicMarketEvents, listingKey(publisherID, gameID), event); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("failed to publish market event to kafka")
	}
}

func listingKey(publisherID string, gameID domain.GameID) string {
	return fmt.Sprintf("%s:%d", publisherID, gameID)
}
