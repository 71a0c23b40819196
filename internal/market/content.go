package market

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// PutContent stores a dataset payload in the vault and returns its
// content reference (the SHA-256 checksum of the plaintext). When encrypt
// is set, the payload is age-encrypted before it reaches the vault; the
// reference still addresses the plaintext, so re-uploading the same data
// yields the same reference either way.
//
// The core never interprets content references beyond this: minting takes
// the returned string as an opaque key.
func (s *Service) PutContent(r io.Reader, encrypt bool) (string, error) {
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}

	sum := sha256.Sum256(plaintext)
	checksum := hex.EncodeToString(sum[:])

	payload := plaintext
	if encrypt {
		if !s.encryptor.IsConfigured() {
			return "", fmt.Errorf("%w: encryption requested but no keys configured", ErrStateConflict)
		}
		var buf bytes.Buffer
		if err := s.encryptor.Encrypt(bytes.NewReader(plaintext), &buf); err != nil {
			return "", fmt.Errorf("encrypting content: %w", err)
		}
		payload = buf.Bytes()
	}

	if err := s.vault.PutContent(checksum, bytes.NewReader(payload), int64(len(payload))); err != nil {
		return "", fmt.Errorf("storing content: %w", err)
	}

	s.logger.Info("content stored", "content_ref", checksum, "size", len(plaintext), "encrypted", encrypt)
	return checksum, nil
}

// GetContent retrieves a payload from the vault by content reference and
// writes it to w. dctx decrypts encrypted payloads; pass nil for
// plaintext content.
func (s *Service) GetContent(contentRef string, w io.Writer, dctx DecryptionContext) error {
	if dctx == nil {
		if err := s.vault.GetContent(contentRef, w); err != nil {
			return fmt.Errorf("retrieving content: %w", err)
		}
		return nil
	}

	var buf bytes.Buffer
	if err := s.vault.GetContent(contentRef, &buf); err != nil {
		return fmt.Errorf("retrieving content: %w", err)
	}
	if err := dctx.Decrypt(&buf, w); err != nil {
		return fmt.Errorf("decrypting content: %w", err)
	}
	return nil
}
