package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MarketMetrics содержит метрики операций магазина.
type MarketMetrics struct {
	// Счётчики операций
	listingsAdded   prometheus.Counter
	ordersPlaced    prometheus.Counter
	ordersFulfilled prometheus.Counter
	operationFailed *prometheus.CounterVec

	// Гистограмма времени выполнения операций
	operationDuration *prometheus.HistogramVec

	// Счётчик событий outbox
	outboxEvents prometheus.Counter

	// Gauge незакрытых заказов
	pendingOrders prometheus.Gauge
}

// NewMarketMetrics создаёт новый экземпляр метрик магазина.
func NewMarketMetrics() *MarketMetrics {
	return newMarketMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newMarketMetricsWithRegisterer(registerer prometheus.Registerer) *MarketMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &MarketMetrics{
		listingsAdded: registerCounter(registerer, prometheus.CounterOpts{
			Name: "liganite_listings_added_total",
			Help: "Total number of game listings published",
		}),
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "liganite_orders_placed_total",
			Help: "Total number of orders placed",
		}),
		ordersFulfilled: registerCounter(registerer, prometheus.CounterOpts{
			Name: "liganite_orders_fulfilled_total",
			Help: "Total number of orders fulfilled",
		}),
		operationFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "liganite_operation_failed_total",
			Help: "Total number of rejected market operations",
		}, []string{"operation"}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "liganite_operation_duration_seconds",
			Help:    "Duration of market operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		outboxEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "liganite_outbox_events_total",
			Help: "Total number of outbox events enqueued",
		}),
		pendingOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "liganite_pending_orders",
			Help: "Number of orders awaiting fulfillment",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordListingAdded увеличивает счётчик опубликованных игр.
func (m *MarketMetrics) RecordListingAdded() {
	m.listingsAdded.Inc()
}

// RecordOrderPlaced увеличивает счётчик размещённых заказов и gauge ожидающих.
func (m *MarketMetrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
	m.pendingOrders.Inc()
}

// RecordOrderFulfilled увеличивает счётчик исполненных заказов и уменьшает gauge.
func (m *MarketMetrics) RecordOrderFulfilled() {
	m.ordersFulfilled.Inc()
	m.pendingOrders.Dec()
}

// RecordOperationFailed увеличивает счётчик отклонённых операций.
func (m *MarketMetrics) RecordOperationFailed(operation string) {
	m.operationFailed.WithLabelValues(operation).Inc()
}

// RecordOperationDuration записывает время выполнения операции.
func (m *MarketMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordOutboxEvent увеличивает счётчик событий outbox.
func (m *MarketMetrics) RecordOutboxEvent() {
	m.outboxEvents.Inc()
}
