package vault

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemoryVault_PutAndGetContent(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	tests := []struct {
		name     string
		checksum string
		content  string
		wantErr  bool
	}{
		{
			name:     "store and retrieve content",
			checksum: "abc123",
			content:  "hello world",
			wantErr:  false,
		},
		{
			name:     "store empty content",
			checksum: "empty",
			content:  "",
			wantErr:  false,
		},
		{
			name:     "store large content",
			checksum: "large",
			content:  strings.Repeat("x", 10000),
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := strings.NewReader(tt.content)
			err := vault.PutContent(tt.checksum, r, int64(len(tt.content)))
			if (err != nil) != tt.wantErr {
				t.Errorf("PutContent() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if tt.wantErr {
				return
			}

			var buf bytes.Buffer
			err = vault.GetContent(tt.checksum, &buf)
			if err != nil {
				t.Errorf("GetContent() unexpected error: %v", err)
				return
			}

			if got := buf.String(); got != tt.content {
				t.Errorf("GetContent() = %q, want %q", got, tt.content)
			}
		})
	}
}

func TestMemoryVault_PutContentIdempotent(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	content := "test content"
	checksum := "test-checksum"

	// Store same content twice
	for i := 0; i < 2; i++ {
		r := strings.NewReader(content)
		err := vault.PutContent(checksum, r, int64(len(content)))
		if err != nil {
			t.Fatalf("PutContent() iteration %d error: %v", i+1, err)
		}
	}

	var buf bytes.Buffer
	err := vault.GetContent(checksum, &buf)
	if err != nil {
		t.Fatalf("GetContent() error: %v", err)
	}

	if got := buf.String(); got != content {
		t.Errorf("GetContent() = %q, want %q", got, content)
	}
}

func TestMemoryVault_GetContentNotFound(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	var buf bytes.Buffer
	err := vault.GetContent("nonexistent", &buf)
	if err == nil {
		t.Error("GetContent() expected error for nonexistent checksum, got nil")
	}
}

func TestMemoryVault_PutContentSizeMismatch(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	content := "test"
	r := strings.NewReader(content)
	err := vault.PutContent("checksum", r, int64(len(content)+10))
	if err == nil {
		t.Error("PutContent() expected error for size mismatch, got nil")
	}
}

func TestMemoryVault_PutAndGetMetadata(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	metadata := "ledger snapshot"
	hostID := "host-123"

	r := strings.NewReader(metadata)
	err := vault.PutMetadata(hostID, "db", r, int64(len(metadata)), 7)
	if err != nil {
		t.Fatalf("PutMetadata() error: %v", err)
	}

	var buf bytes.Buffer
	err = vault.GetMetadata(hostID, "db", &buf)
	if err != nil {
		t.Fatalf("GetMetadata() error: %v", err)
	}

	if got := buf.String(); got != metadata {
		t.Errorf("GetMetadata() = %q, want %q", got, metadata)
	}

	version, err := vault.GetMetadataVersion(hostID, "db")
	if err != nil {
		t.Fatalf("GetMetadataVersion() error: %v", err)
	}
	if version != 7 {
		t.Errorf("GetMetadataVersion() = %d, want 7", version)
	}
}

func TestMemoryVault_MetadataItemsAreIndependent(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	if err := vault.PutMetadata("host-1", "db", strings.NewReader("a"), 1, 3); err != nil {
		t.Fatalf("PutMetadata() error: %v", err)
	}

	// A different name on the same host is a separate item.
	version, err := vault.GetMetadataVersion("host-1", "other")
	if err != nil {
		t.Fatalf("GetMetadataVersion() error: %v", err)
	}
	if version != 0 {
		t.Errorf("GetMetadataVersion() for unstored item = %d, want 0", version)
	}
}

func TestMemoryVault_GetMetadataNotFound(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	var buf bytes.Buffer
	err := vault.GetMetadata("nonexistent-host", "db", &buf)
	if err == nil {
		t.Error("GetMetadata() expected error for nonexistent host, got nil")
	}
}

func TestMemoryVault_ValidateSetup(t *testing.T) {
	vault := NewMemoryVault("test-vault")

	err := vault.ValidateSetup()
	if err != nil {
		t.Errorf("ValidateSetup() unexpected error: %v", err)
	}
}
