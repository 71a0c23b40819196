package currency

import (
	"fmt"

	"dm-go/internal/config"
	"dm-go/internal/market"
)

// NewCurrencyFromConfig creates a CurrencyHolder implementation based on the currency config type.
func NewCurrencyFromConfig(cfg config.CurrencyConfig) (market.CurrencyHolder, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryLedger(cfg.Escrow), nil
	case "filesystem":
		if cfg.LedgerPath == "" {
			return nil, fmt.Errorf("filesystem currency requires ledger_path to be set")
		}
		return NewFileSystemLedger(cfg.LedgerPath, cfg.Escrow)
	default:
		return nil, fmt.Errorf("unknown currency type: %s", cfg.Type)
	}
}
