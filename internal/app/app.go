package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"dm-go/internal/config"
	"dm-go/internal/currency"
	"dm-go/internal/database"
	"dm-go/internal/database/sqlc"
	"dm-go/internal/encryption"
	"dm-go/internal/market"
	"dm-go/internal/model"
	"dm-go/internal/vault"
)

// MarketApp is the application layer between the CLI and the market Service.
// It constructs all dependencies from config, exposes high-level operations,
// and manages the ledger lifecycle on Close.
type MarketApp struct {
	cfg       *config.Config
	db        market.Database
	vault     market.ContentVault
	currency  market.CurrencyHolder
	encryptor market.Encryptor
	service   *market.Service
	op        *MarketOperation
	logFile   *os.File
}

// funder is the optional minting surface of a currency backend. The
// marketplace never mints; only the account-funding command does.
type funder interface {
	Credit(account string, amount int64) error
}

// NewMarketApp creates a fully wired MarketApp from the given config.
// operation identifies the CLI command being run (e.g. "Mint", "ExecutePurchase").
// The caller must call Close when done.
func NewMarketApp(cfg *config.Config, operation string) (*MarketApp, error) {
	if len(cfg.Vaults) == 0 {
		return nil, fmt.Errorf("no vaults configured")
	}
	v, err := vault.NewVaultFromConfig(cfg.Vaults[0])
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.HostID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	// Check local ledger version against remote vault version.
	remoteVersion, err := v.GetMetadataVersion(cfg.HostID, "db")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("checking remote metadata version: %w", err)
	}

	localMax, err := db.MaxMarketOperationID()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("checking local metadata version: %w", err)
	}

	if remoteVersion > localMax {
		db.Close()
		return nil, fmt.Errorf("local ledger is behind remote (local=%d, remote=%d): restore from vault or re-initialize", localMax, remoteVersion)
	}

	cur, err := currency.NewCurrencyFromConfig(cfg.Currency)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating currency backend: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	svc := market.NewService(db, cur, v, enc, &slogAdapter{l: logger}, market.RealClock{}, market.UUIDGenerator{}, cfg.Operator)
	op := NewMarketOperation(operation, "")

	a := &MarketApp{
		cfg:       cfg,
		db:        db,
		vault:     v,
		currency:  cur,
		encryptor: enc,
		service:   svc,
		op:        op,
		logFile:   logFile,
	}

	if err := a.seedChains(); err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// seedChains enables the configured default chains when the policy table is
// empty, so a fresh ledger accepts intents without manual setup.
func (a *MarketApp) seedChains() error {
	existing, err := a.service.ListChains()
	if err != nil {
		return fmt.Errorf("listing chains: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}
	for _, chainID := range a.cfg.Market.DefaultChains {
		if err := a.service.SetChainSupport(a.cfg.Operator, chainID, true); err != nil {
			return fmt.Errorf("seeding chain %d: %w", chainID, err)
		}
	}
	return nil
}

// persistOperation saves the market operation to the database, giving it an
// auto-increment ID. This should only be called for ledger-mutating commands.
func (a *MarketApp) persistOperation() error {
	if a.op.Persisted() {
		return nil // already persisted
	}
	dbOp, err := a.db.CreateMarketOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting market operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// Mint registers a new dataset on behalf of creator and returns its id.
func (a *MarketApp) Mint(caller, creator, contentRef, name, description string, unitPrice int64, accessPolicy string, totalSupply int64, encrypted bool) (int64, error) {
	if err := a.persistOperation(); err != nil {
		return 0, err
	}
	return a.service.Mint(caller, creator, contentRef, name, description, unitPrice, accessPolicy, totalSupply, encrypted)
}

// UpdateDataset changes a dataset's price and access policy.
func (a *MarketApp) UpdateDataset(caller string, datasetID, newPrice int64, newAccessPolicy string) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.UpdateDataset(caller, datasetID, newPrice, newAccessPolicy)
}

// DeactivateDataset marks a dataset inactive.
func (a *MarketApp) DeactivateDataset(caller string, datasetID int64) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.DeactivateDataset(caller, datasetID)
}

// GetDataset returns a dataset by id.
func (a *MarketApp) GetDataset(datasetID int64) (*model.Dataset, error) {
	return a.service.GetDataset(datasetID)
}

// GetSales returns the cumulative quantity sold for a dataset.
func (a *MarketApp) GetSales(datasetID int64) (int64, error) {
	return a.service.GetSales(datasetID)
}

// PutContent stores a dataset payload and returns its content reference.
func (a *MarketApp) PutContent(r io.Reader, encrypt bool) (string, error) {
	return a.service.PutContent(r, encrypt)
}

// GetContent retrieves a payload by content reference. When passphrase is
// non-empty the private key is unlocked and the payload decrypted.
func (a *MarketApp) GetContent(contentRef string, w io.Writer, passphrase string) error {
	var dctx market.DecryptionContext
	if passphrase != "" {
		var err error
		dctx, err = a.encryptor.Unlock(passphrase)
		if err != nil {
			return fmt.Errorf("unlocking keys: %w", err)
		}
	}
	return a.service.GetContent(contentRef, w, dctx)
}

// ExecutePurchase buys quantity units of a dataset for the caller and
// returns the new purchase id.
func (a *MarketApp) ExecutePurchase(caller string, datasetID, quantity int64) (string, error) {
	if err := a.persistOperation(); err != nil {
		return "", err
	}
	return a.service.ExecutePurchase(caller, datasetID, quantity, "")
}

// VerifyAccessToken checks a purchase's access token.
func (a *MarketApp) VerifyAccessToken(purchaseID, token string) (bool, error) {
	return a.service.VerifyAccessToken(purchaseID, token)
}

// GetPurchase returns a purchase record by id.
func (a *MarketApp) GetPurchase(purchaseID string) (*model.PurchaseRecord, error) {
	return a.service.GetPurchase(purchaseID)
}

// GetBuyerPurchases returns a buyer's purchase records in purchase order.
func (a *MarketApp) GetBuyerPurchases(buyer string) ([]*model.PurchaseRecord, error) {
	return a.service.GetBuyerPurchases(buyer)
}

// CreateIntent declares a cross-chain purchase and returns the intent id.
func (a *MarketApp) CreateIntent(caller string, datasetID, quantity, sourceChain, destinationChain int64) (string, error) {
	if err := a.persistOperation(); err != nil {
		return "", err
	}
	return a.service.CreateIntent(caller, datasetID, quantity, sourceChain, destinationChain)
}

// ExecuteIntent advances an intent to executed against a verified proof.
func (a *MarketApp) ExecuteIntent(caller, intentID, proofRef string) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.ExecuteIntent(caller, intentID, proofRef, "")
}

// SettleIntent advances an executed intent to settled against a verified proof.
func (a *MarketApp) SettleIntent(caller, intentID, proofRef string) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.SettleIntent(caller, intentID, proofRef)
}

// GetIntent returns an intent by id.
func (a *MarketApp) GetIntent(intentID string) (*model.CrossChainIntent, error) {
	return a.service.GetIntent(intentID)
}

// GetBuyerIntents returns a buyer's intents in creation order.
func (a *MarketApp) GetBuyerIntents(buyer string) ([]*model.CrossChainIntent, error) {
	return a.service.GetBuyerIntents(buyer)
}

// VerifyProof records the verdict of the external proof verifier.
func (a *MarketApp) VerifyProof(caller, proofRef string, valid bool) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.VerifyProof(caller, proofRef, valid)
}

// SetChainSupport marks a chain as eligible (or not) for intents.
func (a *MarketApp) SetChainSupport(caller string, chainID int64, supported bool) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.SetChainSupport(caller, chainID, supported)
}

// ListChains returns every chain policy entry.
func (a *MarketApp) ListChains() ([]*model.Chain, error) {
	return a.service.ListChains()
}

// SetFee updates the platform fee in basis points.
func (a *MarketApp) SetFee(caller string, bps int64) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.SetFee(caller, bps)
}

// WithdrawFees moves accumulated platform fees out of escrow.
func (a *MarketApp) WithdrawFees(caller, to string, amount int64) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.WithdrawFees(caller, to, amount)
}

// Pause stops purchases.
func (a *MarketApp) Pause(caller string) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.Pause(caller)
}

// Unpause re-enables purchases.
func (a *MarketApp) Unpause(caller string) error {
	if err := a.persistOperation(); err != nil {
		return err
	}
	return a.service.Unpause(caller)
}

// FeeBps returns the current platform fee in basis points.
func (a *MarketApp) FeeBps() (int64, error) {
	return a.service.FeeBps()
}

// IsPaused reports whether purchases are currently paused.
func (a *MarketApp) IsPaused() (bool, error) {
	return a.service.IsPaused()
}

// FundAccount credits amount to an account on the currency backend.
// Only backends that can mint (memory, filesystem) support this.
func (a *MarketApp) FundAccount(account string, amount int64) error {
	f, ok := a.currency.(funder)
	if !ok {
		return fmt.Errorf("currency backend %q cannot fund accounts", a.cfg.Currency.Type)
	}
	return f.Credit(account, amount)
}

// Balance returns the currency balance of an account.
func (a *MarketApp) Balance(account string) (int64, error) {
	return a.currency.BalanceOf(account)
}

// SetupKeys generates the age key pair protected by the passphrase.
func (a *MarketApp) SetupKeys(passphrase string) error {
	return a.encryptor.Setup(passphrase)
}

// GetHistory returns the most recent marketplace operations.
func (a *MarketApp) GetHistory(limit int) ([]*sqlc.MarketOperation, error) {
	return a.service.GetHistory(limit)
}

// Operator returns the configured operator identity.
func (a *MarketApp) Operator() string {
	return a.cfg.Operator
}

// SetStatus overrides the operation status recorded on Close.
func (a *MarketApp) SetStatus(status string) {
	a.op.Status = status
}

// Close finalizes the operation and closes all resources.
// For persisted operations: finishes the operation record, snapshots the
// ledger, and uploads it to the vault. For non-persisted operations: just
// closes the database.
func (a *MarketApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		// Finalize the operation record
		if err := a.db.FinishMarketOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing market operation: %w", err)
		}

		// Snapshot the ledger to a temp file
		tmpFile, err := os.CreateTemp("", "dm-ledger-backup-*.db")
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("creating temp file for ledger backup: %w", err)
			}
		}

		var tmpPath string
		if tmpFile != nil {
			tmpPath = tmpFile.Name()
			tmpFile.Close()
			os.Remove(tmpPath) // VACUUM INTO requires the target not to exist

			if err := a.db.BackupTo(tmpPath); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("backing up ledger: %w", err)
				}
				tmpPath = "" // skip vault upload
			}
		}

		// Close the database
		if err := a.db.Close(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("closing database: %w", err)
			}
		}

		// Upload ledger snapshot to vault with version = operation ID
		if tmpPath != "" {
			if err := a.uploadMetadata(tmpPath, a.op.ID); err != nil {
				if firstErr == nil {
					firstErr = err
				}
			}
			os.Remove(tmpPath)
		}
	} else {
		// Non-mutating operation: just close the database, no upload
		if err := a.db.Close(); err != nil {
			firstErr = fmt.Errorf("closing database: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// uploadMetadata opens the temp ledger file and uploads it to the vault as metadata.
func (a *MarketApp) uploadMetadata(path string, version int64) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening ledger backup for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat ledger backup: %w", err)
	}

	if err := a.vault.PutMetadata(a.cfg.HostID, "db", f, info.Size(), version); err != nil {
		return fmt.Errorf("uploading metadata to vault: %w", err)
	}

	return nil
}
