package market

import (
	"fmt"
	"sync"
	"time"

	"dm-go/internal/database/sqlc"
	"dm-go/internal/model"
)

// Service is the marketplace core: the dataset registry, the purchase
// ledger, the cross-chain intent coordinator and the chain policy,
// coordinated over one storage backend.
//
// The reference execution environment applies one state-mutating call at a
// time; mu reproduces that here. Every mutating operation holds the lock
// for its full duration, so readers never observe a half-applied purchase
// or intent transition.
type Service struct {
	db        Database
	currency  CurrencyHolder
	vault     ContentVault
	encryptor Encryptor
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	operator  string

	mu sync.Mutex
}

// NewService creates a Service with the provided dependencies.
// operator is the single identity authorized for administrative calls.
func NewService(db Database, currency CurrencyHolder, vault ContentVault, encryptor Encryptor, logger Logger, clock Clock, idgen IDGenerator, operator string) *Service {
	return &Service{
		db:        db,
		currency:  currency,
		vault:     vault,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		operator:  operator,
	}
}

// requireOperator checks the explicit authorization context against the
// configured operator identity. Exact match, no role hierarchy.
func (s *Service) requireOperator(caller string) error {
	if caller != s.operator {
		return fmt.Errorf("%w: caller %q is not the operator", ErrUnauthorized, caller)
	}
	return nil
}

// escrowAccount is the holding account where payments land before the
// creator share is forwarded, and where platform fees accumulate.
func (s *Service) escrowAccount() string {
	return s.currency.EscrowAccount()
}

// expiry returns the absolute access-token expiry for a purchase timestamp.
func expiry(purchasedAt time.Time) time.Time {
	return purchasedAt.Add(model.AccessTokenTTL)
}

// datasetFromRow converts a storage row to the domain type.
func datasetFromRow(row *sqlc.Dataset) *model.Dataset {
	return &model.Dataset{
		ID:           row.ID,
		ContentRef:   row.ContentRef,
		Name:         row.Name,
		Description:  row.Description,
		UnitPrice:    row.UnitPrice,
		Creator:      row.Creator,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt,
		AccessPolicy: row.AccessPolicy,
		TotalSupply:  row.TotalSupply,
		SoldSupply:   row.SoldSupply,
		Encrypted:    row.Encrypted,
	}
}

func purchaseFromRow(row *sqlc.Purchase) *model.PurchaseRecord {
	return &model.PurchaseRecord{
		ID:          row.ID,
		DatasetID:   row.DatasetID,
		Buyer:       row.Buyer,
		Quantity:    row.Quantity,
		UnitPrice:   row.UnitPrice,
		PlatformFee: row.PlatformFee,
		CreatedAt:   row.CreatedAt,
		Active:      row.Active,
		AccessToken: row.AccessToken,
	}
}

func intentFromRow(row *sqlc.Intent) *model.CrossChainIntent {
	intent := &model.CrossChainIntent{
		ID:               row.ID,
		Buyer:            row.Buyer,
		DatasetID:        row.DatasetID,
		Quantity:         row.Quantity,
		SourceChain:      row.SourceChain,
		DestinationChain: row.DestinationChain,
		Amount:           row.Amount,
		Executed:         row.Executed,
		Settled:          row.Settled,
		CreatedAt:        row.CreatedAt,
		AccessToken:      row.AccessToken,
	}
	if row.ExecutedAt.Valid {
		t := row.ExecutedAt.Time
		intent.ExecutedAt = &t
	}
	if row.PurchaseID.Valid {
		intent.PurchaseID = row.PurchaseID.String
	}
	return intent
}
