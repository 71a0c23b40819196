package market

import (
	"time"

	"dm-go/internal/database/sqlc"
)

// Database provides an interface for ledger storage operations.
// Find* methods return (nil, nil) when the entity is absent; the service
// layer turns that into ErrNotFound. Multi-row mutations (RecordPurchase,
// ExecuteIntentPurchase) must be implemented as a single transaction.
type Database interface {
	// Dataset registry

	// CreateDataset inserts a dataset and returns it with its assigned id.
	// Ids are monotonically increasing integers starting at 1.
	CreateDataset(ds *sqlc.Dataset) (*sqlc.Dataset, error)

	// FindDataset returns a dataset by id.
	FindDataset(id int64) (*sqlc.Dataset, error)

	// FindDatasetByContentRef is the reverse content-address lookup.
	FindDatasetByContentRef(contentRef string) (*sqlc.Dataset, error)

	// UpdateDatasetTerms changes a dataset's price and access policy.
	UpdateDatasetTerms(id int64, unitPrice int64, accessPolicy string) error

	// DeactivateDataset sets active=false. One-directional.
	DeactivateDataset(id int64) error

	// Purchase ledger

	// RecordPurchase appends a purchase record and increments the
	// dataset's sold supply by the purchase quantity, atomically.
	RecordPurchase(p *sqlc.Purchase) error

	// FindPurchase returns a purchase record by id.
	FindPurchase(id string) (*sqlc.Purchase, error)

	// FindPurchasesByBuyer returns a buyer's purchases, oldest first.
	FindPurchasesByBuyer(buyer string) ([]*sqlc.Purchase, error)

	// DatasetSales returns the cumulative quantity sold for a dataset.
	DatasetSales(datasetID int64) (int64, error)

	// Intent coordinator

	// CreateIntent inserts a new cross-chain intent.
	CreateIntent(i *sqlc.Intent) error

	// FindIntent returns an intent by id.
	FindIntent(id string) (*sqlc.Intent, error)

	// FindIntentsByBuyer returns a buyer's intents, oldest first.
	FindIntentsByBuyer(buyer string) ([]*sqlc.Intent, error)

	// ExecuteIntentPurchase marks the intent executed and records the
	// dependent purchase in one transaction. If any step fails the
	// intent stays unexecuted and no purchase is recorded.
	ExecuteIntentPurchase(intentID string, executedAt time.Time, accessToken string, p *sqlc.Purchase) error

	// SettleIntent sets settled=true.
	SettleIntent(id string) error

	// Chain policy and proof registry

	// SetChainSupport records whether a chain may participate in intents.
	SetChainSupport(chainID int64, supported bool, at time.Time) error

	// FindChain returns a chain policy entry by id.
	FindChain(chainID int64) (*sqlc.Chain, error)

	// ListChains returns all chain policy entries.
	ListChains() ([]*sqlc.Chain, error)

	// RecordProof stores an externally determined proof verdict.
	RecordProof(ref string, valid bool, at time.Time) error

	// FindProof returns a recorded proof verdict by reference.
	FindProof(ref string) (*sqlc.Proof, error)

	// Market parameters

	// GetMarketParams returns the singleton fee/pause parameter row.
	GetMarketParams() (*sqlc.MarketParam, error)

	// SetFeeBps updates the platform fee.
	SetFeeBps(bps int64) error

	// SetPaused updates the purchase pause flag.
	SetPaused(paused bool) error

	// Operation tracking

	// CreateMarketOperation records the start of a mutating operation.
	CreateMarketOperation(operation string, parameters string) (*sqlc.MarketOperation, error)

	// FinishMarketOperation records the end and final status of an operation.
	FinishMarketOperation(id int64, status string) error

	// ListMarketOperations returns recent operations, newest first.
	ListMarketOperations(limit int) ([]*sqlc.MarketOperation, error)

	// MaxMarketOperationID returns the highest recorded operation id, or 0.
	MaxMarketOperationID() (int64, error)

	// BackupTo writes a consistent snapshot of the ledger to destPath.
	BackupTo(destPath string) error

	// Close closes the database connection.
	Close() error
}
