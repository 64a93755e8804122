package ledger

import (
	"sync"

	"github.com/vladislavdragonenkov/liganite/internal/domain"
)

// holdKey идентифицирует блокировку: причина + счёт.
type holdKey struct {
	reason  string
	account string
}

// InMemoryLedger — реализация CurrencyLedger поверх карт балансов и блокировок.
// Используется как локальная замена внешней денежной системы в разработке и тестах.
type InMemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	holds    map[holdKey]int64
}

// NewInMemoryLedger возвращает пустой ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		balances: make(map[string]int64),
		holds:    make(map[holdKey]int64),
	}
}

// Deposit зачисляет средства на счёт (аналог genesis-балансов).
func (l *InMemoryLedger) Deposit(account string, amountMinor int64) {
	if amountMinor <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amountMinor
}

// Hold блокирует amountMinor на счёте account под указанной причиной.
func (l *InMemoryLedger) Hold(reason, account string, amountMinor int64) error {
	if amountMinor < 0 {
		return domain.ErrFundsUnavailable
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.balances[account] < amountMinor {
		return domain.ErrFundsUnavailable
	}
	l.balances[account] -= amountMinor
	l.holds[holdKey{reason: reason, account: account}] += amountMinor
	return nil
}

// Release снимает блокировку, возвращая средства в свободный остаток.
func (l *InMemoryLedger) Release(reason, account string, amountMinor int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := holdKey{reason: reason, account: account}
	if l.holds[key] < amountMinor {
		return domain.ErrFundsUnavailable
	}
	l.holds[key] -= amountMinor
	if l.holds[key] == 0 {
		delete(l.holds, key)
	}
	l.balances[account] += amountMinor
	return nil
}

// ReleaseAndTransfer снимает блокировку и переводит средства получателю.
func (l *InMemoryLedger) ReleaseAndTransfer(reason, from, to string, amountMinor int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := holdKey{reason: reason, account: from}
	if l.holds[key] < amountMinor {
		return domain.ErrFundsUnavailable
	}
	l.holds[key] -= amountMinor
	if l.holds[key] == 0 {
		delete(l.holds, key)
	}
	l.balances[to] += amountMinor
	return nil
}

// Balance возвращает свободный остаток счёта.
func (l *InMemoryLedger) Balance(account string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account]
}

// OnHold возвращает сумму, заблокированную на счёте под причиной (используется в тестах).
func (l *InMemoryLedger) OnHold(reason, account string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.holds[holdKey{reason: reason, account: account}]
}

var _ domain.CurrencyLedger = (*InMemoryLedger)(nil)
