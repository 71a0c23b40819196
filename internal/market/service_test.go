package market_test

import (
	"testing"

	"dm-go/internal/market"
	"dm-go/internal/testutil"
)

const operator = "op"

// newTestService wires a Service over in-memory backends with a fixed clock
// and sequential IDs. The returned balance func reads the currency ledger.
func newTestService(t *testing.T, balances map[string]int64) (*market.Service, *testutil.StubClock, func(account string) int64) {
	t.Helper()

	db := testutil.NewTestDatabase(t)
	ledger := testutil.NewTestLedger(t, balances)
	clock := testutil.FixedClock()

	svc := market.NewService(db, ledger, testutil.NewTestVault(), testutil.NewTestEncryptor(),
		market.NewNopLogger(), clock, testutil.NewStubIDGenerator(), operator)

	balance := func(account string) int64 {
		b, err := ledger.BalanceOf(account)
		if err != nil {
			t.Fatalf("BalanceOf(%s) error = %v", account, err)
		}
		return b
	}
	return svc, clock, balance
}

// mintDataset registers a dataset with sensible defaults and returns its id.
func mintDataset(t *testing.T, svc *market.Service, contentRef string, price, supply int64) int64 {
	t.Helper()

	id, err := svc.Mint(operator, "creator", contentRef, "weather-data", "", price, "research-only", supply, false)
	if err != nil {
		t.Fatalf("Mint() error = %v", err)
	}
	return id
}
