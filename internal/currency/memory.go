package currency

import (
	"fmt"
	"sync"

	"dm-go/internal/market"
)

// MemoryLedger is an in-memory implementation of the CurrencyHolder
// interface. Balances live in a map and vanish on exit, making it useful
// for testing. This implementation is safe for concurrent use.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]int64
	escrow   string
}

// NewMemoryLedger creates a new in-memory ledger with the given escrow account.
func NewMemoryLedger(escrow string) *MemoryLedger {
	if escrow == "" {
		escrow = "escrow"
	}
	return &MemoryLedger{
		balances: make(map[string]int64),
		escrow:   escrow,
	}
}

// Compile-time check that MemoryLedger implements market.CurrencyHolder interface
var _ market.CurrencyHolder = (*MemoryLedger)(nil)

func (l *MemoryLedger) BalanceOf(account string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

func (l *MemoryLedger) TransferFrom(from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return transfer(l.balances, from, to, amount)
}

func (l *MemoryLedger) Transfer(to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return transfer(l.balances, l.escrow, to, amount)
}

func (l *MemoryLedger) EscrowAccount() string {
	return l.escrow
}

// Credit mints amount into an account. This exists for funding test and
// development accounts; the marketplace itself never mints.
func (l *MemoryLedger) Credit(account string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("cannot credit negative amount %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return nil
}

// transfer moves amount between accounts in a balances map.
// The caller must hold the ledger lock.
func transfer(balances map[string]int64, from, to string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("cannot transfer negative amount %d", amount)
	}
	if balances[from] < amount {
		return fmt.Errorf("account %s has balance %d, need %d", from, balances[from], amount)
	}
	balances[from] -= amount
	balances[to] += amount
	return nil
}
