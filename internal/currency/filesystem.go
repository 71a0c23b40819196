package currency

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dm-go/internal/market"
)

// FileSystemLedger is a filesystem-backed implementation of the
// CurrencyHolder interface. Balances are kept in a single JSON file and
// every mutation is written back atomically (write to a temp file in the
// same directory, then rename). This implementation is safe for concurrent
// use within one process; it does not guard against concurrent processes.
type FileSystemLedger struct {
	mu       sync.Mutex
	path     string
	balances map[string]int64
	escrow   string
}

// ledgerFile is the on-disk format of the balance file.
type ledgerFile struct {
	Balances map[string]int64 `json:"balances"`
}

// NewFileSystemLedger opens or creates a ledger file at path.
func NewFileSystemLedger(path, escrow string) (*FileSystemLedger, error) {
	if escrow == "" {
		escrow = "escrow"
	}

	l := &FileSystemLedger{
		path:     path,
		balances: make(map[string]int64),
		escrow:   escrow,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create ledger directory: %w", err)
			}
			if err := l.save(); err != nil {
				return nil, err
			}
			return l, nil
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var f ledgerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse ledger file %s: %w", path, err)
	}
	if f.Balances != nil {
		l.balances = f.Balances
	}
	return l, nil
}

// Compile-time check that FileSystemLedger implements market.CurrencyHolder interface
var _ market.CurrencyHolder = (*FileSystemLedger)(nil)

func (l *FileSystemLedger) BalanceOf(account string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

func (l *FileSystemLedger) TransferFrom(from, to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := transfer(l.balances, from, to, amount); err != nil {
		return err
	}
	return l.save()
}

func (l *FileSystemLedger) Transfer(to string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := transfer(l.balances, l.escrow, to, amount); err != nil {
		return err
	}
	return l.save()
}

func (l *FileSystemLedger) EscrowAccount() string {
	return l.escrow
}

// Credit mints amount into an account and persists the result. This exists
// for funding test and development accounts; the marketplace itself never
// mints.
func (l *FileSystemLedger) Credit(account string, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("cannot credit negative amount %d", amount)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] += amount
	return l.save()
}

// save writes the balance map to disk. The caller must hold the lock.
func (l *FileSystemLedger) save() error {
	data, err := json.MarshalIndent(ledgerFile{Balances: l.balances}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*")
	if err != nil {
		return fmt.Errorf("failed to create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close ledger file: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace ledger file: %w", err)
	}
	return nil
}
