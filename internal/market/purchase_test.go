package market_test

import (
	"errors"
	"testing"
	"time"

	"dm-go/internal/market"
)

func TestService_ExecutePurchase(t *testing.T) {
	t.Run("splits payment between creator and platform", func(t *testing.T) {
		svc, _, balance := newTestService(t, map[string]int64{"buyer": 2_000_000})
		id := mintDataset(t, svc, "ref-1", 1_000_000, 0)

		purchaseID, err := svc.ExecutePurchase("buyer", id, 1, "")
		if err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}
		if purchaseID == "" {
			t.Fatal("ExecutePurchase() returned empty purchase id")
		}

		// Default fee is 250 bps: 2.5% of 1,000,000 stays in escrow.
		if got := balance("creator"); got != 975_000 {
			t.Errorf("creator balance = %d, want 975000", got)
		}
		if got := balance("escrow"); got != 25_000 {
			t.Errorf("escrow balance = %d, want 25000", got)
		}
		if got := balance("buyer"); got != 1_000_000 {
			t.Errorf("buyer balance = %d, want 1000000", got)
		}
	})

	t.Run("records price and fee at purchase time", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 1_000, 100)

		purchaseID, err := svc.ExecutePurchase("buyer", id, 3, "")
		if err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}

		p, err := svc.GetPurchase(purchaseID)
		if err != nil {
			t.Fatalf("GetPurchase() error = %v", err)
		}
		if p.UnitPrice != 1_000 {
			t.Errorf("UnitPrice = %d, want 1000", p.UnitPrice)
		}
		if p.Quantity != 3 {
			t.Errorf("Quantity = %d, want 3", p.Quantity)
		}
		// 2.5% of 3000
		if p.PlatformFee != 75 {
			t.Errorf("PlatformFee = %d, want 75", p.PlatformFee)
		}
		if p.AccessToken == "" {
			t.Error("AccessToken is empty")
		}

		// Later price changes must not touch the record.
		if err := svc.UpdateDataset("creator", id, 9_999, ""); err != nil {
			t.Fatalf("UpdateDataset() error = %v", err)
		}
		p, _ = svc.GetPurchase(purchaseID)
		if p.UnitPrice != 1_000 {
			t.Errorf("UnitPrice after price change = %d, want 1000", p.UnitPrice)
		}
	})

	t.Run("increments sold supply", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 10)

		if _, err := svc.ExecutePurchase("buyer", id, 4, ""); err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}

		sold, err := svc.GetSales(id)
		if err != nil {
			t.Fatalf("GetSales() error = %v", err)
		}
		if sold != 4 {
			t.Errorf("GetSales() = %d, want 4", sold)
		}

		ds, _ := svc.GetDataset(id)
		if ds.SoldSupply != 4 {
			t.Errorf("SoldSupply = %d, want 4", ds.SoldSupply)
		}
	})

	t.Run("rejects purchase beyond supply cap", func(t *testing.T) {
		svc, _, balance := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 5)

		if _, err := svc.ExecutePurchase("buyer", id, 3, ""); err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}
		_, err := svc.ExecutePurchase("buyer", id, 3, "")
		if !errors.Is(err, market.ErrStateConflict) {
			t.Errorf("ExecutePurchase() error = %v, want ErrStateConflict", err)
		}

		// The failed purchase must not move funds.
		if got := balance("buyer"); got != 9_700 {
			t.Errorf("buyer balance = %d, want 9700", got)
		}
	})

	t.Run("unlimited supply when total is zero", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 100_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		if _, err := svc.ExecutePurchase("buyer", id, 500, ""); err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}
	})

	t.Run("rejects insufficient balance", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 50})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		_, err := svc.ExecutePurchase("buyer", id, 1, "")
		if !errors.Is(err, market.ErrInsufficientFunds) {
			t.Errorf("ExecutePurchase() error = %v, want ErrInsufficientFunds", err)
		}
	})

	t.Run("rejects quantity whose cost overflows int64", func(t *testing.T) {
		price := int64(1) << 32
		svc, _, balance := newTestService(t, map[string]int64{"buyer": price})
		id := mintDataset(t, svc, "ref-1", price, 0)

		// price * quantity wraps past math.MaxInt64; a wrapped total would
		// undercharge the buyer by orders of magnitude.
		_, err := svc.ExecutePurchase("buyer", id, price+1, "")
		if !errors.Is(err, market.ErrInvalidInput) {
			t.Errorf("ExecutePurchase() error = %v, want ErrInvalidInput", err)
		}
		if got := balance("buyer"); got != price {
			t.Errorf("buyer balance = %d, want %d", got, price)
		}
		if got := balance("creator"); got != 0 {
			t.Errorf("creator balance = %d, want 0", got)
		}
	})

	t.Run("fee split survives very large totals", func(t *testing.T) {
		// 4e18 * 250 bps does not fit in int64; the fee must still come
		// out as exactly 2.5% of the total.
		price := int64(4_000_000_000_000_000_000)
		svc, _, balance := newTestService(t, map[string]int64{"buyer": price})
		id := mintDataset(t, svc, "ref-1", price, 0)

		if _, err := svc.ExecutePurchase("buyer", id, 1, ""); err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}
		if got := balance("escrow"); got != 100_000_000_000_000_000 {
			t.Errorf("escrow balance = %d, want 100000000000000000", got)
		}
		if got := balance("creator"); got != 3_900_000_000_000_000_000 {
			t.Errorf("creator balance = %d, want 3900000000000000000", got)
		}
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		_, err := svc.ExecutePurchase("buyer", id, 0, "")
		if !errors.Is(err, market.ErrInsufficientFunds) {
			t.Errorf("ExecutePurchase() error = %v, want ErrInsufficientFunds", err)
		}
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		_, err := svc.ExecutePurchase("buyer", id, -1, "")
		if !errors.Is(err, market.ErrInvalidInput) {
			t.Errorf("ExecutePurchase() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects inactive dataset", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)
		if err := svc.DeactivateDataset("creator", id); err != nil {
			t.Fatalf("DeactivateDataset() error = %v", err)
		}

		_, err := svc.ExecutePurchase("buyer", id, 1, "")
		if !errors.Is(err, market.ErrStateConflict) {
			t.Errorf("ExecutePurchase() error = %v, want ErrStateConflict", err)
		}
	})

	t.Run("rejects purchase while paused", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		if err := svc.Pause(operator); err != nil {
			t.Fatalf("Pause() error = %v", err)
		}
		_, err := svc.ExecutePurchase("buyer", id, 1, "")
		if !errors.Is(err, market.ErrStateConflict) {
			t.Errorf("ExecutePurchase() error = %v, want ErrStateConflict", err)
		}

		if err := svc.Unpause(operator); err != nil {
			t.Fatalf("Unpause() error = %v", err)
		}
		if _, err := svc.ExecutePurchase("buyer", id, 1, ""); err != nil {
			t.Errorf("ExecutePurchase() after unpause error = %v", err)
		}
	})
}

func TestService_VerifyAccessToken(t *testing.T) {
	t.Run("valid within 24 hours", func(t *testing.T) {
		svc, clock, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		purchaseID, err := svc.ExecutePurchase("buyer", id, 1, "")
		if err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}
		p, _ := svc.GetPurchase(purchaseID)

		clock.Advance(23 * time.Hour)
		ok, err := svc.VerifyAccessToken(purchaseID, p.AccessToken)
		if err != nil {
			t.Fatalf("VerifyAccessToken() error = %v", err)
		}
		if !ok {
			t.Error("VerifyAccessToken() = false, want true")
		}
	})

	t.Run("expires after 24 hours", func(t *testing.T) {
		svc, clock, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		purchaseID, _ := svc.ExecutePurchase("buyer", id, 1, "")
		p, _ := svc.GetPurchase(purchaseID)

		clock.Advance(24*time.Hour + time.Second)
		ok, err := svc.VerifyAccessToken(purchaseID, p.AccessToken)
		if err != nil {
			t.Fatalf("VerifyAccessToken() error = %v", err)
		}
		if ok {
			t.Error("VerifyAccessToken() = true after expiry, want false")
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		svc, _, _ := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 100, 0)

		purchaseID, _ := svc.ExecutePurchase("buyer", id, 1, "")

		ok, err := svc.VerifyAccessToken(purchaseID, "not-the-token")
		if err != nil {
			t.Fatalf("VerifyAccessToken() error = %v", err)
		}
		if ok {
			t.Error("VerifyAccessToken() = true with wrong token, want false")
		}
	})

	t.Run("missing purchase is an error", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		_, err := svc.VerifyAccessToken("nope", "token")
		if !errors.Is(err, market.ErrNotFound) {
			t.Errorf("VerifyAccessToken() error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_GetBuyerPurchases(t *testing.T) {
	svc, _, _ := newTestService(t, map[string]int64{"alice": 10_000, "bob": 10_000})
	id := mintDataset(t, svc, "ref-1", 100, 0)

	if _, err := svc.ExecutePurchase("alice", id, 1, ""); err != nil {
		t.Fatalf("ExecutePurchase() error = %v", err)
	}
	if _, err := svc.ExecutePurchase("bob", id, 2, ""); err != nil {
		t.Fatalf("ExecutePurchase() error = %v", err)
	}
	if _, err := svc.ExecutePurchase("alice", id, 3, ""); err != nil {
		t.Fatalf("ExecutePurchase() error = %v", err)
	}

	purchases, err := svc.GetBuyerPurchases("alice")
	if err != nil {
		t.Fatalf("GetBuyerPurchases() error = %v", err)
	}
	if len(purchases) != 2 {
		t.Fatalf("len(purchases) = %d, want 2", len(purchases))
	}
	if purchases[0].Quantity != 1 || purchases[1].Quantity != 3 {
		t.Errorf("purchases out of order: quantities %d, %d", purchases[0].Quantity, purchases[1].Quantity)
	}
}

func TestService_SetFee(t *testing.T) {
	t.Run("operator sets fee within ceiling", func(t *testing.T) {
		svc, _, balance := newTestService(t, map[string]int64{"buyer": 10_000})
		id := mintDataset(t, svc, "ref-1", 1_000, 0)

		if err := svc.SetFee(operator, 1000); err != nil {
			t.Fatalf("SetFee() error = %v", err)
		}
		bps, err := svc.FeeBps()
		if err != nil {
			t.Fatalf("FeeBps() error = %v", err)
		}
		if bps != 1000 {
			t.Errorf("FeeBps() = %d, want 1000", bps)
		}

		if _, err := svc.ExecutePurchase("buyer", id, 1, ""); err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}
		// 10% of 1000 stays in escrow.
		if got := balance("escrow"); got != 100 {
			t.Errorf("escrow balance = %d, want 100", got)
		}
	})

	t.Run("rejects fee over ceiling", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		if err := svc.SetFee(operator, 1001); !errors.Is(err, market.ErrInvalidInput) {
			t.Errorf("SetFee(1001) error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("rejects non-operator", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		if err := svc.SetFee("mallory", 100); !errors.Is(err, market.ErrUnauthorized) {
			t.Errorf("SetFee() error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestService_WithdrawFees(t *testing.T) {
	t.Run("withdraws accumulated fees", func(t *testing.T) {
		svc, _, balance := newTestService(t, map[string]int64{"buyer": 1_000_000})
		id := mintDataset(t, svc, "ref-1", 1_000_000, 0)

		if _, err := svc.ExecutePurchase("buyer", id, 1, ""); err != nil {
			t.Fatalf("ExecutePurchase() error = %v", err)
		}

		if err := svc.WithdrawFees(operator, "treasury", 25_000); err != nil {
			t.Fatalf("WithdrawFees() error = %v", err)
		}
		if got := balance("treasury"); got != 25_000 {
			t.Errorf("treasury balance = %d, want 25000", got)
		}
		if got := balance("escrow"); got != 0 {
			t.Errorf("escrow balance = %d, want 0", got)
		}
	})

	t.Run("rejects over-withdrawal", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		err := svc.WithdrawFees(operator, "treasury", 1)
		if !errors.Is(err, market.ErrInsufficientFunds) {
			t.Errorf("WithdrawFees() error = %v, want ErrInsufficientFunds", err)
		}
	})

	t.Run("rejects non-operator", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		if err := svc.WithdrawFees("mallory", "treasury", 1); !errors.Is(err, market.ErrUnauthorized) {
			t.Errorf("WithdrawFees() error = %v, want ErrUnauthorized", err)
		}
	})
}
