package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
	"github.com/vladislavdragonenkov/liganite/internal/service/ledger"
	"github.com/vladislavdragonenkov/liganite/internal/service/market"
	"github.com/vladislavdragonenkov/liganite/internal/service/publisher"
	"github.com/vladislavdragonenkov/liganite/internal/service/tags"
	"github.com/vladislavdragonenkov/liganite/internal/storage/memory"
	transport "github.com/vladislavdragonenkov/liganite/internal/transport/http"
)

const (
	publisherID    = "publisher-1"
	buyerID        = "buyer-1"
	gameID         = uint16(42)
	priceMinor     = int64(12345)
	initialBalance = int64(100000)
)

// MarketLifecycleTestSuite прогоняет полный жизненный цикл покупки игры
// через HTTP API: регистрация издателя, публикация, заказ, исполнение.
type MarketLifecycleTestSuite struct {
	suite.Suite
	router *http.ServeMux
	orders domain.OrderBookRepository
	outbox domain.OutboxRepository
	ledger *ledger.InMemoryLedger
}

func (suite *MarketLifecycleTestSuite) SetupTest() {
	baseLogger := log.New()
	baseLogger.SetLevel(log.WarnLevel) // Уменьшаем шум в тестах
	logger := baseLogger.WithField("component", "integration-test")

	listings := memory.NewListingRepository()
	suite.orders = memory.NewOrderBookRepository()
	suite.outbox = memory.NewOutboxRepository()
	suite.ledger = ledger.NewInMemoryLedger()
	suite.ledger.Deposit(buyerID, initialBalance)

	registry := publisher.NewRegistry(memory.NewPublisherRepository(), suite.outbox, baseLogger)
	svc := market.NewServiceWithoutMetrics(
		listings,
		suite.orders,
		registry,
		tags.NewCatalog(tags.DefaultSeed()),
		suite.ledger,
		suite.outbox,
		logger,
	)

	suite.router = transport.NewRouter(svc, registry)
}

func (suite *MarketLifecycleTestSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	require.NoError(suite.T(), err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	return rec
}

func (suite *MarketLifecycleTestSuite) registerPublisher() {
	rec := suite.postJSON("/v1/publishers", map[string]any{
		"publisher_id": publisherID,
		"name":         "Big Games Studio",
		"url":          "https://big.games",
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
}

func (suite *MarketLifecycleTestSuite) addListing() {
	rec := suite.postJSON("/v1/listings", map[string]any{
		"publisher_id": publisherID,
		"game_id":      gameID,
		"name":         "Example Game",
		"tags":         []int{1, 3},
		"price_minor":  priceMinor,
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
}

func (suite *MarketLifecycleTestSuite) placeOrder() {
	rec := suite.postJSON("/v1/orders", map[string]any{
		"buyer_id":     buyerID,
		"publisher_id": publisherID,
		"game_id":      gameID,
	})
	require.Equal(suite.T(), http.StatusCreated, rec.Code, rec.Body.String())
}

func (suite *MarketLifecycleTestSuite) TestSuccessfulPurchaseLifecycle() {
	suite.registerPublisher()
	suite.addListing()

	// Листинг доступен на чтение.
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/listings/%s/%d", publisherID, gameID), nil)
	rec := httptest.NewRecorder()
	suite.router.ServeHTTP(rec, req)
	require.Equal(suite.T(), http.StatusOK, rec.Code)

	var listing struct {
		Name       string `json:"name"`
		PriceMinor int64  `json:"price_minor"`
	}
	require.NoError(suite.T(), json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Equal(suite.T(), "Example Game", listing.Name)
	require.Equal(suite.T(), priceMinor, listing.PriceMinor)

	// Заказ блокирует средства покупателя.
	suite.placeOrder()
	require.Equal(suite.T(), initialBalance-priceMinor, suite.ledger.Balance(buyerID))
	require.Equal(suite.T(), priceMinor, suite.ledger.OnHold(domain.HoldReasonGamePayment, buyerID))

	// Исполнение переводит средства издателю и закрывает заказ.
	rec = suite.postJSON("/v1/orders/fulfill", map[string]any{
		"publisher_id": publisherID,
		"game_id":      gameID,
		"buyer_id":     buyerID,
	})
	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())

	require.Equal(suite.T(), initialBalance-priceMinor, suite.ledger.Balance(buyerID))
	require.Equal(suite.T(), priceMinor, suite.ledger.Balance(publisherID))
	require.Zero(suite.T(), suite.ledger.OnHold(domain.HoldReasonGamePayment, buyerID))

	owned, err := suite.orders.Owned(buyerID, publisherID, domain.GameID(gameID))
	require.NoError(suite.T(), err)
	require.True(suite.T(), owned)

	_, err = suite.orders.Get(buyerID, publisherID, domain.GameID(gameID))
	require.ErrorIs(suite.T(), err, domain.ErrOrderNotFound)

	// Полный цикл оставил события в outbox: издатель, листинг, заказ, исполнение.
	pending, err := suite.outbox.PullPending(10)
	require.NoError(suite.T(), err)
	types := make([]string, 0, len(pending))
	for _, msg := range pending {
		types = append(types, msg.EventType)
	}
	require.ElementsMatch(suite.T(), []string{"publisher.added", "listing.added", "order.placed", "order.fulfilled"}, types)
}

func (suite *MarketLifecycleTestSuite) TestOrderRejectedWithoutFunds() {
	suite.registerPublisher()
	suite.addListing()

	rec := suite.postJSON("/v1/orders", map[string]any{
		"buyer_id":     "buyer-broke",
		"publisher_id": publisherID,
		"game_id":      gameID,
	})
	require.Equal(suite.T(), http.StatusConflict, rec.Code, rec.Body.String())
	require.Contains(suite.T(), rec.Body.String(), "funds_unavailable")
}

func (suite *MarketLifecycleTestSuite) TestListingRequiresRegisteredPublisher() {
	rec := suite.postJSON("/v1/listings", map[string]any{
		"publisher_id": "publisher-ghost",
		"game_id":      gameID,
		"name":         "Example Game",
		"price_minor":  priceMinor,
	})
	require.Equal(suite.T(), http.StatusForbidden, rec.Code, rec.Body.String())
}

func (suite *MarketLifecycleTestSuite) TestRepeatedOrderRejected() {
	suite.registerPublisher()
	suite.addListing()
	suite.placeOrder()

	suite.ledger.Deposit("buyer-2", initialBalance)
	rec := suite.postJSON("/v1/orders", map[string]any{
		"buyer_id":     "buyer-2",
		"publisher_id": publisherID,
		"game_id":      gameID,
	})
	require.Equal(suite.T(), http.StatusConflict, rec.Code, rec.Body.String())

	// Баланс второго покупателя не тронут: проверки идут до блокировки средств.
	require.Equal(suite.T(), initialBalance, suite.ledger.Balance("buyer-2"))
	require.Zero(suite.T(), suite.ledger.OnHold(domain.HoldReasonGamePayment, "buyer-2"))
}

func (suite *MarketLifecycleTestSuite) TestOwnedGameCannotBeReordered() {
	suite.registerPublisher()
	suite.addListing()
	suite.placeOrder()

	rec := suite.postJSON("/v1/orders/fulfill", map[string]any{
		"publisher_id": publisherID,
		"game_id":      gameID,
		"buyer_id":     buyerID,
	})
	require.Equal(suite.T(), http.StatusOK, rec.Code, rec.Body.String())

	rec = suite.postJSON("/v1/orders", map[string]any{
		"buyer_id":     buyerID,
		"publisher_id": publisherID,
		"game_id":      gameID,
	})
	require.Equal(suite.T(), http.StatusConflict, rec.Code, rec.Body.String())
	require.Contains(suite.T(), rec.Body.String(), "game_already_exists")
}

func TestMarketLifecycleTestSuite(t *testing.T) {
	suite.Run(t, new(MarketLifecycleTestSuite))
}
