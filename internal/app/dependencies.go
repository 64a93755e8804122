package app

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
	"github.com/vladislavdragonenkov/liganite/internal/service/ledger"
	"github.com/vladislavdragonenkov/liganite/internal/service/tags"
	"github.com/vladislavdragonenkov/liganite/internal/storage/memory"
	"github.com/vladislavdragonenkov/liganite/internal/storage/postgres"
)

// Dependencies содержит все зависимости приложения.
type Dependencies struct {
	Listings      domain.ListingRepository
	Orders        domain.OrderBookRepository
	PublisherRepo domain.PublisherRepository
	OutboxRepo    domain.OutboxRepository

	Tags   *tags.Catalog
	Ledger *ledger.InMemoryLedger

	Store  *postgres.Store // nil для in-memory хранилища
	Logger *log.Entry
}

// NewDependencies создаёт и инициализирует зависимости согласно конфигурации.
// NOTE: ledger всегда in-memory; в production его заменяет клиент внешней
// денежной системы.
func NewDependencies(ctx context.Context, cfg Config, logger *log.Entry) (*Dependencies, error) {
	if logger == nil {
		logger = log.WithField("component", "app")
	}

	deps := &Dependencies{
		Tags:   tags.NewCatalog(tags.DefaultSeed()),
		Ledger: ledger.NewInMemoryLedger(),
		Logger: logger,
	}

	for account, amount := range parseLedgerSeed(cfg.LedgerSeed) {
		deps.Ledger.Deposit(account, amount)
	}

	switch cfg.StorageDriver {
	case StorageDriverMemory, "":
		deps.Listings = memory.NewListingRepository()
		deps.Orders = memory.NewOrderBookRepository()
		deps.PublisherRepo = memory.NewPublisherRepository()
		deps.OutboxRepo = memory.NewOutboxRepository()
		logger.Info("using in-memory storage")
	case StorageDriverPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.PostgresAutoMigrate {
			if err := store.EnsureSchema(ctx); err != nil {
				_ = store.Close()
				return nil, fmt.Errorf("apply migrations: %w", err)
			}
		}
		deps.Store = store
		deps.Listings = postgres.NewListingRepository(store)
		deps.Orders = postgres.NewOrderBookRepository(store)
		deps.PublisherRepo = postgres.NewPublisherRepository(store)
		deps.OutboxRepo = postgres.NewOutboxRepository(store)
		logger.Info("using postgres storage")
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}

	return deps, nil
}

// Close освобождает ресурсы зависимостей.
func (d *Dependencies) Close() {
	if d == nil || d.Store == nil {
		return
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.WithError(err).Warn("failed to close postgres store")
	}
}
