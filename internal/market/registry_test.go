package market_test

import (
	"errors"
	"testing"

	"dm-go/internal/market"
)

func TestService_Mint(t *testing.T) {
	t.Run("assigns increasing ids starting at 1", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		first := mintDataset(t, svc, "ref-1", 100, 0)
		second := mintDataset(t, svc, "ref-2", 100, 0)

		if first != 1 {
			t.Errorf("first id = %d, want 1", first)
		}
		if second != 2 {
			t.Errorf("second id = %d, want 2", second)
		}
	})

	t.Run("rejects non-operator caller", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		_, err := svc.Mint("mallory", "creator", "ref-1", "name", "", 100, "", 0, false)
		if !errors.Is(err, market.ErrUnauthorized) {
			t.Errorf("Mint() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("rejects duplicate content reference", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		mintDataset(t, svc, "ref-1", 100, 0)

		_, err := svc.Mint(operator, "other-creator", "ref-1", "copy", "", 200, "", 0, false)
		if !errors.Is(err, market.ErrDuplicateKey) {
			t.Errorf("Mint() error = %v, want ErrDuplicateKey", err)
		}
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		for _, price := range []int64{0, -5} {
			_, err := svc.Mint(operator, "creator", "ref-1", "name", "", price, "", 0, false)
			if !errors.Is(err, market.ErrInvalidInput) {
				t.Errorf("Mint(price=%d) error = %v, want ErrInvalidInput", price, err)
			}
		}
	})

	t.Run("rejects empty required fields", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		if _, err := svc.Mint(operator, "creator", "", "name", "", 100, "", 0, false); !errors.Is(err, market.ErrInvalidInput) {
			t.Errorf("empty content ref: error = %v, want ErrInvalidInput", err)
		}
		if _, err := svc.Mint(operator, "creator", "ref-1", "", "", 100, "", 0, false); !errors.Is(err, market.ErrInvalidInput) {
			t.Errorf("empty name: error = %v, want ErrInvalidInput", err)
		}
		if _, err := svc.Mint(operator, "", "ref-1", "name", "", 100, "", 0, false); !errors.Is(err, market.ErrInvalidInput) {
			t.Errorf("empty creator: error = %v, want ErrInvalidInput", err)
		}
	})
}

func TestService_UpdateDataset(t *testing.T) {
	t.Run("creator updates price and policy", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		id := mintDataset(t, svc, "ref-1", 100, 0)

		if err := svc.UpdateDataset("creator", id, 250, "commercial"); err != nil {
			t.Fatalf("UpdateDataset() error = %v", err)
		}

		ds, err := svc.GetDataset(id)
		if err != nil {
			t.Fatalf("GetDataset() error = %v", err)
		}
		if ds.UnitPrice != 250 {
			t.Errorf("UnitPrice = %d, want 250", ds.UnitPrice)
		}
		if ds.AccessPolicy != "commercial" {
			t.Errorf("AccessPolicy = %q, want commercial", ds.AccessPolicy)
		}
	})

	t.Run("rejects non-creator even if operator", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		id := mintDataset(t, svc, "ref-1", 100, 0)

		if err := svc.UpdateDataset(operator, id, 250, ""); !errors.Is(err, market.ErrUnauthorized) {
			t.Errorf("UpdateDataset() error = %v, want ErrUnauthorized", err)
		}
	})

	t.Run("rejects non-positive price", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		id := mintDataset(t, svc, "ref-1", 100, 0)

		if err := svc.UpdateDataset("creator", id, 0, ""); !errors.Is(err, market.ErrInvalidInput) {
			t.Errorf("UpdateDataset() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("missing dataset", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)

		if err := svc.UpdateDataset("creator", 42, 250, ""); !errors.Is(err, market.ErrNotFound) {
			t.Errorf("UpdateDataset() error = %v, want ErrNotFound", err)
		}
	})
}

func TestService_DeactivateDataset(t *testing.T) {
	t.Run("creator deactivates", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		id := mintDataset(t, svc, "ref-1", 100, 0)

		if err := svc.DeactivateDataset("creator", id); err != nil {
			t.Fatalf("DeactivateDataset() error = %v", err)
		}

		ds, _ := svc.GetDataset(id)
		if ds.Active {
			t.Error("dataset still active after deactivation")
		}
	})

	t.Run("rejects non-creator", func(t *testing.T) {
		svc, _, _ := newTestService(t, nil)
		id := mintDataset(t, svc, "ref-1", 100, 0)

		if err := svc.DeactivateDataset("mallory", id); !errors.Is(err, market.ErrUnauthorized) {
			t.Errorf("DeactivateDataset() error = %v, want ErrUnauthorized", err)
		}
	})
}

func TestService_ContentExists(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	mintDataset(t, svc, "ref-1", 100, 0)

	exists, err := svc.ContentExists("ref-1")
	if err != nil {
		t.Fatalf("ContentExists() error = %v", err)
	}
	if !exists {
		t.Error("ContentExists(ref-1) = false, want true")
	}

	exists, err = svc.ContentExists("ref-2")
	if err != nil {
		t.Fatalf("ContentExists() error = %v", err)
	}
	if exists {
		t.Error("ContentExists(ref-2) = true, want false")
	}
}
