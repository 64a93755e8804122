package ledger

import "github.com/vladislavdragonenkov/liganite/internal/domain"

// MockLedger — конфигурируемая заглушка CurrencyLedger для тестов:
// позволяет подменять результат любого шага и считает вызовы.
type MockLedger struct {
	HoldErr     error
	ReleaseErr  error
	TransferErr error
	BalanceFn   func(account string) int64

	HoldCalls     int
	ReleaseCalls  int
	TransferCalls int
}

// NewMockLedger возвращает mock с успешным сценарием по умолчанию.
func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

// Hold возвращает заранее настроенный результат и считает вызовы.
func (m *MockLedger) Hold(reason, account string, amountMinor int64) error {
	m.HoldCalls++
	return m.HoldErr
}

// Release возвращает настроенный результат и считает вызовы.
func (m *MockLedger) Release(reason, account string, amountMinor int64) error {
	m.ReleaseCalls++
	return m.ReleaseErr
}

// ReleaseAndTransfer возвращает настроенный результат и считает вызовы.
func (m *MockLedger) ReleaseAndTransfer(reason, from, to string, amountMinor int64) error {
	m.TransferCalls++
	return m.TransferErr
}

// Balance возвращает результат BalanceFn либо ноль.
func (m *MockLedger) Balance(account string) int64 {
	if m.BalanceFn != nil {
		return m.BalanceFn(account)
	}
	return 0
}

var _ domain.CurrencyLedger = (*MockLedger)(nil)
