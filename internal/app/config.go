package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageDriver определяет используемое хранилище.
type StorageDriver string

const (
	StorageDriverMemory   StorageDriver = "memory"
	StorageDriverPostgres StorageDriver = "postgres"
)

// Config описывает настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string

	StorageDriver       StorageDriver
	PostgresDSN         string
	PostgresAutoMigrate bool

	KafkaBrokers string

	OutboxPollInterval time.Duration
	OutboxBatchSize    int
	OutboxMaxAttempts  int
	OutboxRetryDelay   time.Duration

	// LedgerSeed задаёт стартовые балансы счетов в формате
	// "account=amount,account=amount". Используется in-memory ledger.
	LedgerSeed string
}

// DefaultConfig возвращает базовые настройки для локального запуска.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:            ":8080",
		MetricsAddr:         ":9090",
		StorageDriver:       StorageDriverMemory,
		PostgresAutoMigrate: true,
		OutboxPollInterval:  time.Second,
		OutboxBatchSize:     100,
		OutboxMaxAttempts:   3,
		OutboxRetryDelay:    50 * time.Millisecond,
	}
}

// LoadConfigFromEnv читает настройки из переменных окружения LIGANITE_*,
// оставляя значения по умолчанию для незаданных переменных.
func LoadConfigFromEnv() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("LIGANITE_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LIGANITE_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("LIGANITE_STORAGE_DRIVER"); v != "" {
		cfg.StorageDriver = StorageDriver(strings.ToLower(v))
	}
	if v := os.Getenv("LIGANITE_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("LIGANITE_POSTGRES_AUTO_MIGRATE"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.PostgresAutoMigrate = parsed
		}
	}
	if v := os.Getenv("LIGANITE_KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = v
	}
	if v := os.Getenv("LIGANITE_OUTBOX_POLL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed > 0 {
			cfg.OutboxPollInterval = parsed
		}
	}
	if v := os.Getenv("LIGANITE_OUTBOX_BATCH_SIZE"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.OutboxBatchSize = parsed
		}
	}
	if v := os.Getenv("LIGANITE_OUTBOX_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.OutboxMaxAttempts = parsed
		}
	}
	if v := os.Getenv("LIGANITE_OUTBOX_RETRY_DELAY"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil && parsed >= 0 {
			cfg.OutboxRetryDelay = parsed
		}
	}
	if v := os.Getenv("LIGANITE_LEDGER_SEED"); v != "" {
		cfg.LedgerSeed = v
	}

	return cfg
}

// parseLedgerSeed разбирает строку стартовых балансов. Некорректные
// записи молча пропускаются.
func parseLedgerSeed(seed string) map[string]int64 {
	result := make(map[string]int64)
	for _, pair := range strings.Split(seed, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		account, amount, ok := strings.Cut(pair, "=")
		if !ok || account == "" {
			continue
		}
		parsed, err := strconv.ParseInt(amount, 10, 64)
		if err != nil || parsed <= 0 {
			continue
		}
		result[account] = parsed
	}
	return result
}
