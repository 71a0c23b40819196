package testutil

import (
	"dm-go/internal/market"
	"dm-go/internal/vault"
)

// NewTestVault creates an in-memory content vault for testing.
func NewTestVault() market.ContentVault {
	return vault.NewMemoryVault("test")
}
