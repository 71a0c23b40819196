package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for dm.
type Config struct {
	HostID     string           `toml:"host_id"`
	Operator   string           `toml:"operator"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Vaults     []VaultConfig    `toml:"vaults"`
	Encryption EncryptionConfig `toml:"encryption"`
	Database   DatabaseConfig   `toml:"database"`
	Currency   CurrencyConfig   `toml:"currency"`
	Market     MarketConfig     `toml:"market"`
}

// EncryptionConfig holds paths to the age key pair used for dataset content.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// VaultConfig represents configuration for a content vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`

	// Optional static credentials. When empty the default AWS
	// credential chain is used.
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// DatabaseConfig represents configuration for the ledger database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite" or "memory"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// CurrencyConfig represents configuration for the settlement currency backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CurrencyConfig struct {
	Type       string `toml:"type"`                  // "memory" or "filesystem"
	LedgerPath string `toml:"ledger_path,omitempty"` // only used for type=filesystem
	Escrow     string `toml:"escrow"`                // escrow account name; defaults to "escrow"
}

// MarketConfig holds marketplace policy settings applied at startup.
type MarketConfig struct {
	DefaultChains []int64 `toml:"default_chains"`
}

// DefaultChains are the chains enabled when a fresh ledger is initialized:
// Ethereum mainnet, Optimism, Polygon and Base.
var DefaultChains = []int64{1, 10, 137, 8453}

// NewConfig creates a new Config with the provided values and default key paths.
func NewConfig(hostID, operator, baseDir string) *Config {
	return &Config{
		HostID:   hostID,
		Operator: operator,
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "dm.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "dm.key"),
		},
		Database: DatabaseConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "data"),
		},
		Currency: CurrencyConfig{
			Type:       "filesystem",
			LedgerPath: filepath.Join(baseDir, "data", "ledger.json"),
			Escrow:     "escrow",
		},
		Market: MarketConfig{
			DefaultChains: DefaultChains,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
