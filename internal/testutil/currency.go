package testutil

import (
	"testing"

	"dm-go/internal/currency"
)

// NewTestLedger creates an in-memory currency ledger with the given
// accounts pre-funded.
func NewTestLedger(t *testing.T, balances map[string]int64) *currency.MemoryLedger {
	t.Helper()

	l := currency.NewMemoryLedger("escrow")
	for account, amount := range balances {
		if err := l.Credit(account, amount); err != nil {
			t.Fatalf("funding %s: %v", account, err)
		}
	}
	return l
}
