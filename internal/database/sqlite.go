package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dm-go/internal/database/migrations"
	"dm-go/internal/database/sqlc"
	"dm-go/internal/market"
)

// SQLiteDatabase implements market.Database backed by a local sqlite file.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

var _ market.Database = (*SQLiteDatabase)(nil)

// OpenConnection opens a sqlite database at path with foreign keys enabled.
// The caller owns the returned connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteDatabase opens the ledger database at path, applies any pending
// migrations and verifies that the schema is at the latest version.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database at %s: %w", path, err)
	}

	if err := migrations.CheckDBMigrationStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("database at %s: %w", path, err)
	}

	return &SQLiteDatabase{db: db, queries: sqlc.New(db), path: path}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing connection. Used by tests that
// build an in-memory database from the generated schema.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{db: db, queries: sqlc.New(db)}
}

// Path returns the filesystem path of the database, empty for in-memory.
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// BackupTo writes a consistent snapshot of the database to destPath.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("failed to snapshot database: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) Close() error {
	return s.db.Close()
}

func (s *SQLiteDatabase) CreateDataset(ds *sqlc.Dataset) (*sqlc.Dataset, error) {
	row, err := s.queries.InsertDataset(context.Background(), sqlc.InsertDatasetParams{
		ContentRef:   ds.ContentRef,
		Name:         ds.Name,
		Description:  ds.Description,
		UnitPrice:    ds.UnitPrice,
		Creator:      ds.Creator,
		Active:       ds.Active,
		CreatedAt:    ds.CreatedAt,
		AccessPolicy: ds.AccessPolicy,
		TotalSupply:  ds.TotalSupply,
		SoldSupply:   ds.SoldSupply,
		Encrypted:    ds.Encrypted,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert dataset: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) FindDataset(id int64) (*sqlc.Dataset, error) {
	row, err := s.queries.GetDatasetByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find dataset %d: %w", id, err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) FindDatasetByContentRef(contentRef string) (*sqlc.Dataset, error) {
	row, err := s.queries.GetDatasetByContentRef(context.Background(), contentRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find dataset by content ref: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) UpdateDatasetTerms(id int64, unitPrice int64, accessPolicy string) error {
	err := s.queries.UpdateDatasetTerms(context.Background(), sqlc.UpdateDatasetTermsParams{
		UnitPrice:    unitPrice,
		AccessPolicy: accessPolicy,
		ID:           id,
	})
	if err != nil {
		return fmt.Errorf("failed to update dataset %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteDatabase) DeactivateDataset(id int64) error {
	if err := s.queries.DeactivateDataset(context.Background(), id); err != nil {
		return fmt.Errorf("failed to deactivate dataset %d: %w", id, err)
	}
	return nil
}

func (s *SQLiteDatabase) RecordPurchase(p *sqlc.Purchase) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := recordPurchaseTx(ctx, s.queries.WithTx(tx), p); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit purchase: %w", err)
	}
	return nil
}

// recordPurchaseTx inserts the purchase row and bumps the dataset's sold
// supply inside the caller's transaction.
func recordPurchaseTx(ctx context.Context, q *sqlc.Queries, p *sqlc.Purchase) error {
	if _, err := q.InsertPurchase(ctx, sqlc.InsertPurchaseParams{
		ID:          p.ID,
		DatasetID:   p.DatasetID,
		Buyer:       p.Buyer,
		Quantity:    p.Quantity,
		UnitPrice:   p.UnitPrice,
		PlatformFee: p.PlatformFee,
		CreatedAt:   p.CreatedAt,
		Active:      p.Active,
		AccessToken: p.AccessToken,
	}); err != nil {
		return fmt.Errorf("failed to insert purchase: %w", err)
	}

	if err := q.IncrementDatasetSold(ctx, sqlc.IncrementDatasetSoldParams{
		SoldSupply: p.Quantity,
		ID:         p.DatasetID,
	}); err != nil {
		return fmt.Errorf("failed to increment sold supply: %w", err)
	}

	return nil
}

func (s *SQLiteDatabase) FindPurchase(id string) (*sqlc.Purchase, error) {
	row, err := s.queries.GetPurchaseByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find purchase %s: %w", id, err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) FindPurchasesByBuyer(buyer string) ([]*sqlc.Purchase, error) {
	rows, err := s.queries.GetPurchasesByBuyer(context.Background(), buyer)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases for %s: %w", buyer, err)
	}
	purchases := make([]*sqlc.Purchase, len(rows))
	for i := range rows {
		purchases[i] = &rows[i]
	}
	return purchases, nil
}

func (s *SQLiteDatabase) DatasetSales(datasetID int64) (int64, error) {
	sold, err := s.queries.GetDatasetSales(context.Background(), datasetID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum sales for dataset %d: %w", datasetID, err)
	}
	return sold, nil
}

func (s *SQLiteDatabase) CreateIntent(i *sqlc.Intent) error {
	_, err := s.queries.InsertIntent(context.Background(), sqlc.InsertIntentParams{
		ID:               i.ID,
		Buyer:            i.Buyer,
		DatasetID:        i.DatasetID,
		Quantity:         i.Quantity,
		SourceChain:      i.SourceChain,
		DestinationChain: i.DestinationChain,
		Amount:           i.Amount,
		Executed:         i.Executed,
		Settled:          i.Settled,
		CreatedAt:        i.CreatedAt,
		ExecutedAt:       i.ExecutedAt,
		AccessToken:      i.AccessToken,
		PurchaseID:       i.PurchaseID,
	})
	if err != nil {
		return fmt.Errorf("failed to insert intent: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FindIntent(id string) (*sqlc.Intent, error) {
	row, err := s.queries.GetIntentByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find intent %s: %w", id, err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) FindIntentsByBuyer(buyer string) ([]*sqlc.Intent, error) {
	rows, err := s.queries.GetIntentsByBuyer(context.Background(), buyer)
	if err != nil {
		return nil, fmt.Errorf("failed to list intents for %s: %w", buyer, err)
	}
	intents := make([]*sqlc.Intent, len(rows))
	for i := range rows {
		intents[i] = &rows[i]
	}
	return intents, nil
}

func (s *SQLiteDatabase) ExecuteIntentPurchase(intentID string, executedAt time.Time, accessToken string, p *sqlc.Purchase) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := s.queries.WithTx(tx)

	// Re-check inside the transaction so a concurrent execution cannot
	// record the purchase twice.
	intent, err := q.GetIntentByID(ctx, intentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("intent %s disappeared during execution", intentID)
		}
		return fmt.Errorf("failed to find intent %s: %w", intentID, err)
	}
	if intent.Executed {
		return fmt.Errorf("intent %s already executed", intentID)
	}

	if err := recordPurchaseTx(ctx, q, p); err != nil {
		return err
	}

	if err := q.MarkIntentExecuted(ctx, sqlc.MarkIntentExecutedParams{
		ExecutedAt:  sql.NullTime{Time: executedAt, Valid: true},
		AccessToken: accessToken,
		PurchaseID:  sql.NullString{String: p.ID, Valid: true},
		ID:          intentID,
	}); err != nil {
		return fmt.Errorf("failed to mark intent executed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit intent execution: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) SettleIntent(id string) error {
	if err := s.queries.MarkIntentSettled(context.Background(), id); err != nil {
		return fmt.Errorf("failed to settle intent %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteDatabase) SetChainSupport(chainID int64, supported bool, at time.Time) error {
	err := s.queries.UpsertChain(context.Background(), sqlc.UpsertChainParams{
		ID:        chainID,
		Supported: supported,
		UpdatedAt: at,
	})
	if err != nil {
		return fmt.Errorf("failed to set chain %d support: %w", chainID, err)
	}
	return nil
}

func (s *SQLiteDatabase) FindChain(chainID int64) (*sqlc.Chain, error) {
	row, err := s.queries.GetChainByID(context.Background(), chainID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find chain %d: %w", chainID, err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) ListChains() ([]*sqlc.Chain, error) {
	rows, err := s.queries.ListChains(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to list chains: %w", err)
	}
	chains := make([]*sqlc.Chain, len(rows))
	for i := range rows {
		chains[i] = &rows[i]
	}
	return chains, nil
}

func (s *SQLiteDatabase) RecordProof(ref string, valid bool, at time.Time) error {
	err := s.queries.UpsertProof(context.Background(), sqlc.UpsertProofParams{
		Ref:        ref,
		Valid:      valid,
		VerifiedAt: at,
	})
	if err != nil {
		return fmt.Errorf("failed to record proof %s: %w", ref, err)
	}
	return nil
}

func (s *SQLiteDatabase) FindProof(ref string) (*sqlc.Proof, error) {
	row, err := s.queries.GetProofByRef(context.Background(), ref)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find proof %s: %w", ref, err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) GetMarketParams() (*sqlc.MarketParam, error) {
	row, err := s.queries.GetMarketParams(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to read market params: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) SetFeeBps(bps int64) error {
	if err := s.queries.UpdateFeeBps(context.Background(), bps); err != nil {
		return fmt.Errorf("failed to update fee: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) SetPaused(paused bool) error {
	if err := s.queries.UpdatePaused(context.Background(), paused); err != nil {
		return fmt.Errorf("failed to update pause flag: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) CreateMarketOperation(operation string, parameters string) (*sqlc.MarketOperation, error) {
	row, err := s.queries.InsertMarketOperation(context.Background(), sqlc.InsertMarketOperationParams{
		StartedAt:  time.Now(),
		Operation:  operation,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record operation start: %w", err)
	}
	return &row, nil
}

func (s *SQLiteDatabase) FinishMarketOperation(id int64, status string) error {
	err := s.queries.UpdateMarketOperationFinished(context.Background(), sqlc.UpdateMarketOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: time.Now(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("failed to record operation finish: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListMarketOperations(limit int) ([]*sqlc.MarketOperation, error) {
	rows, err := s.queries.GetMarketOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	ops := make([]*sqlc.MarketOperation, len(rows))
	for i := range rows {
		ops[i] = &rows[i]
	}
	return ops, nil
}

func (s *SQLiteDatabase) MaxMarketOperationID() (int64, error) {
	id, err := s.queries.GetMaxMarketOperationID(context.Background())
	if err != nil {
		return 0, fmt.Errorf("failed to read max operation id: %w", err)
	}
	return id, nil
}
