package testutil

import (
	"dm-go/internal/encryption"
	"dm-go/internal/market"
)

// NewTestEncryptor creates a deterministic encryptor for testing.
func NewTestEncryptor() market.Encryptor {
	return encryption.NewTestEncryptor()
}
