package market_test

import (
	"errors"
	"testing"

	"dm-go/internal/market"
)

func TestService_SetChainSupport(t *testing.T) {
	t.Run("unknown chains are unsupported", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		ok, err := svc.IsChainSupported(42)
		if err != nil {
			t.Fatalf("IsChainSupported() error = %v", err)
		}
		if ok {
			t.Error("IsChainSupported(42) = true, want false")
		}
	})

	t.Run("enable and disable", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		if err := svc.SetChainSupport(operator, 1, true); err != nil {
			t.Fatalf("SetChainSupport() error = %v", err)
		}
		ok, _ := svc.IsChainSupported(1)
		if !ok {
			t.Error("IsChainSupported(1) = false after enable")
		}

		if err := svc.SetChainSupport(operator, 1, false); err != nil {
			t.Fatalf("SetChainSupport() error = %v", err)
		}
		ok, _ = svc.IsChainSupported(1)
		if ok {
			t.Error("IsChainSupported(1) = true after disable")
		}
	})

	t.Run("idempotent enable", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		for i := 0; i < 3; i++ {
			if err := svc.SetChainSupport(operator, 8453, true); err != nil {
				t.Fatalf("SetChainSupport() error = %v", err)
			}
		}

		chains, err := svc.ListChains()
		if err != nil {
			t.Fatalf("ListChains() error = %v", err)
		}
		if len(chains) != 1 {
			t.Errorf("len(chains) = %d, want 1", len(chains))
		}
	})

	t.Run("rejects non-operator", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		err := svc.SetChainSupport("mallory", 1, true)
		if !errors.Is(err, market.ErrUnauthorized) {
			t.Errorf("SetChainSupport() error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestService_ListChains(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	for _, id := range []int64{137, 1, 10} {
		if err := svc.SetChainSupport(operator, id, true); err != nil {
			t.Fatalf("SetChainSupport(%d) error = %v", id, err)
		}
	}

	chains, err := svc.ListChains()
	if err != nil {
		t.Fatalf("ListChains() error = %v", err)
	}
	if len(chains) != 3 {
		t.Fatalf("len(chains) = %d, want 3", len(chains))
	}
	// Ordered by chain id.
	for i, want := range []int64{1, 10, 137} {
		if chains[i].ID != want {
			t.Errorf("chains[%d].ID = %d, want %d", i, chains[i].ID, want)
		}
	}
}
