package market

import "io"

// Encryptor encrypts dataset payloads before they reach the vault.
type Encryptor interface {
	// Setup generates and stores a new key pair protected by the passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock derives a DecryptionContext from the passphrase.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether key material is in place.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked identity for decrypting payloads.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
