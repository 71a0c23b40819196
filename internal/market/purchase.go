package market

import (
	"fmt"
	"math"
	"time"

	"dm-go/internal/database/sqlc"
	"dm-go/internal/model"
)

// costOf multiplies unitPrice by quantity, rejecting products that do not
// fit in int64. unitPrice is always positive and quantity non-negative
// when this is called.
func costOf(unitPrice, quantity int64) (int64, error) {
	if quantity > math.MaxInt64/unitPrice {
		return 0, fmt.Errorf("%w: quantity %d at unit price %d overflows total cost", ErrInvalidInput, quantity, unitPrice)
	}
	return unitPrice * quantity, nil
}

// feeOf returns floor(totalCost * feeBps / 10000) without forming the
// intermediate product, which can exceed int64 for large totals.
func feeOf(totalCost, feeBps int64) int64 {
	return totalCost/10000*feeBps + totalCost%10000*feeBps/10000
}

// ExecutePurchase buys quantity units of a dataset for the caller.
//
// The full cost moves from the buyer to the escrow account, the creator's
// share is forwarded immediately, and the platform fee stays in escrow
// until withdrawn by the operator. The purchase record, the sold-supply
// increment and the buyer index commit in one database transaction; if
// that transaction fails the currency moves are compensated, so the
// operation is all-or-nothing.
//
// accessToken is the opaque credential stored with the record; when empty
// a fresh one is generated. Returns the new purchase id.
func (s *Service) ExecutePurchase(caller string, datasetID, quantity int64, accessToken string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, totalCost, platformFee, err := s.preparePurchase(caller, datasetID, quantity)
	if err != nil {
		return "", err
	}

	creatorRevenue := totalCost - platformFee
	if err := s.collectFunds(caller, ds.Creator, totalCost, creatorRevenue); err != nil {
		return "", err
	}

	if accessToken == "" {
		accessToken = s.idgen.New()
	}

	purchase := &sqlc.Purchase{
		ID:          s.idgen.New(),
		DatasetID:   datasetID,
		Buyer:       caller,
		Quantity:    quantity,
		UnitPrice:   ds.UnitPrice,
		PlatformFee: platformFee,
		CreatedAt:   s.clock.Now(),
		Active:      true,
		AccessToken: accessToken,
	}

	if err := s.db.RecordPurchase(purchase); err != nil {
		s.refundFunds(caller, ds.Creator, totalCost, creatorRevenue)
		return "", fmt.Errorf("recording purchase: %w", err)
	}

	s.notifyPurchase(purchase)
	return purchase.ID, nil
}

// preparePurchase validates all purchase preconditions and computes the
// fee split. Callers must hold s.mu.
func (s *Service) preparePurchase(buyer string, datasetID, quantity int64) (ds *sqlc.Dataset, totalCost, platformFee int64, err error) {
	params, err := s.db.GetMarketParams()
	if err != nil {
		return nil, 0, 0, fmt.Errorf("loading market params: %w", err)
	}
	if params.Paused {
		return nil, 0, 0, fmt.Errorf("%w: purchases are paused", ErrStateConflict)
	}

	ds, err = s.db.FindDataset(datasetID)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("finding dataset: %w", err)
	}
	if ds == nil {
		return nil, 0, 0, fmt.Errorf("%w: dataset %d", ErrNotFound, datasetID)
	}
	if !ds.Active {
		return nil, 0, 0, fmt.Errorf("%w: dataset %d is inactive", ErrStateConflict, datasetID)
	}
	if quantity < 0 {
		return nil, 0, 0, fmt.Errorf("%w: quantity must not be negative, got %d", ErrInvalidInput, quantity)
	}

	totalCost, err = costOf(ds.UnitPrice, quantity)
	if err != nil {
		return nil, 0, 0, err
	}
	if totalCost == 0 {
		return nil, 0, 0, fmt.Errorf("%w: total cost is zero", ErrInsufficientFunds)
	}
	if ds.TotalSupply > 0 && ds.SoldSupply+quantity > ds.TotalSupply {
		return nil, 0, 0, fmt.Errorf("%w: dataset %d supply exhausted (%d of %d sold)", ErrStateConflict, datasetID, ds.SoldSupply, ds.TotalSupply)
	}

	balance, err := s.currency.BalanceOf(buyer)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("checking buyer balance: %w", err)
	}
	if balance < totalCost {
		return nil, 0, 0, fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, totalCost, balance)
	}

	platformFee = feeOf(totalCost, params.FeeBps)
	return ds, totalCost, platformFee, nil
}

// collectFunds moves the full cost from the buyer into escrow and
// forwards the creator's share. The fee remainder stays in escrow.
func (s *Service) collectFunds(buyer, creator string, totalCost, creatorRevenue int64) error {
	if err := s.currency.TransferFrom(buyer, s.escrowAccount(), totalCost); err != nil {
		return fmt.Errorf("%w: collecting payment: %v", ErrInsufficientFunds, err)
	}
	if err := s.currency.Transfer(creator, creatorRevenue); err != nil {
		// Unwind the collection so the buyer is whole again.
		if rerr := s.currency.Transfer(buyer, totalCost); rerr != nil {
			s.logger.Error("refund after failed creator payout also failed", "buyer", buyer, "amount", totalCost, "error", rerr)
		}
		return fmt.Errorf("paying creator: %w", err)
	}
	return nil
}

// refundFunds compensates collectFunds after a failed ledger write:
// the creator's share returns to the buyer, as does the fee held in escrow.
func (s *Service) refundFunds(buyer, creator string, totalCost, creatorRevenue int64) {
	if err := s.currency.TransferFrom(creator, buyer, creatorRevenue); err != nil {
		s.logger.Error("compensating creator payout failed", "creator", creator, "buyer", buyer, "amount", creatorRevenue, "error", err)
	}
	if err := s.currency.Transfer(buyer, totalCost-creatorRevenue); err != nil {
		s.logger.Error("compensating fee refund failed", "buyer", buyer, "amount", totalCost-creatorRevenue, "error", err)
	}
}

// notifyPurchase emits the purchase-executed and access-token-issued
// notifications for a committed purchase record.
func (s *Service) notifyPurchase(p *sqlc.Purchase) {
	s.logger.Info("purchase executed",
		"purchase", p.ID,
		"dataset", p.DatasetID,
		"buyer", p.Buyer,
		"quantity", p.Quantity,
		"fee", p.PlatformFee,
	)
	s.logger.Info("access token issued",
		"purchase", p.ID,
		"expires_at", expiry(p.CreatedAt).UTC().Format(time.RFC3339),
	)
}

// VerifyAccessToken checks a purchase's access token. A mismatched or
// expired token returns false without an error; an absent or inactive
// purchase record is an error.
func (s *Service) VerifyAccessToken(purchaseID, token string) (bool, error) {
	p, err := s.db.FindPurchase(purchaseID)
	if err != nil {
		return false, fmt.Errorf("finding purchase: %w", err)
	}
	if p == nil || !p.Active {
		return false, fmt.Errorf("%w: purchase %s", ErrNotFound, purchaseID)
	}
	if token != p.AccessToken {
		return false, nil
	}
	if s.clock.Now().After(expiry(p.CreatedAt)) {
		return false, nil
	}
	return true, nil
}

// GetPurchase returns a purchase record by id.
func (s *Service) GetPurchase(purchaseID string) (*model.PurchaseRecord, error) {
	p, err := s.db.FindPurchase(purchaseID)
	if err != nil {
		return nil, fmt.Errorf("finding purchase: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: purchase %s", ErrNotFound, purchaseID)
	}
	return purchaseFromRow(p), nil
}

// GetBuyerPurchases returns a buyer's purchase records in purchase order.
func (s *Service) GetBuyerPurchases(buyer string) ([]*model.PurchaseRecord, error) {
	rows, err := s.db.FindPurchasesByBuyer(buyer)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	records := make([]*model.PurchaseRecord, len(rows))
	for i, row := range rows {
		records[i] = purchaseFromRow(row)
	}
	return records, nil
}

// GetSales returns the cumulative quantity sold for a dataset.
func (s *Service) GetSales(datasetID int64) (int64, error) {
	ds, err := s.db.FindDataset(datasetID)
	if err != nil {
		return 0, fmt.Errorf("finding dataset: %w", err)
	}
	if ds == nil {
		return 0, fmt.Errorf("%w: dataset %d", ErrNotFound, datasetID)
	}
	sold, err := s.db.DatasetSales(datasetID)
	if err != nil {
		return 0, fmt.Errorf("summing sales: %w", err)
	}
	return sold, nil
}

// SetFee updates the platform fee. Operator only; capped at MaxFeeBps.
func (s *Service) SetFee(caller string, bps int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return err
	}
	if bps < 0 || bps > model.MaxFeeBps {
		return fmt.Errorf("%w: fee %d bps outside [0, %d]", ErrInvalidInput, bps, model.MaxFeeBps)
	}
	if err := s.db.SetFeeBps(bps); err != nil {
		return fmt.Errorf("updating fee: %w", err)
	}

	s.logger.Info("fee changed", "fee_bps", bps)
	return nil
}

// WithdrawFees moves accumulated platform fees out of escrow.
// Operator only; amount must not exceed the held fee balance.
func (s *Service) WithdrawFees(caller, to string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("%w: withdrawal amount must be positive, got %d", ErrInvalidInput, amount)
	}

	held, err := s.currency.BalanceOf(s.escrowAccount())
	if err != nil {
		return fmt.Errorf("checking held fees: %w", err)
	}
	if amount > held {
		return fmt.Errorf("%w: withdrawing %d but only %d held", ErrInsufficientFunds, amount, held)
	}

	if err := s.currency.Transfer(to, amount); err != nil {
		return fmt.Errorf("withdrawing fees: %w", err)
	}

	s.logger.Info("fees withdrawn", "to", to, "amount", amount)
	return nil
}

// Pause stops ExecutePurchase (and intent execution, which depends on
// it). Queries and intent creation stay available. Operator only.
func (s *Service) Pause(caller string) error {
	return s.setPaused(caller, true)
}

// Unpause re-enables purchases. Operator only.
func (s *Service) Unpause(caller string) error {
	return s.setPaused(caller, false)
}

func (s *Service) setPaused(caller string, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return err
	}
	if err := s.db.SetPaused(paused); err != nil {
		return fmt.Errorf("updating pause flag: %w", err)
	}

	s.logger.Info("pause flag changed", "paused", paused)
	return nil
}

// FeeBps returns the current platform fee in basis points.
func (s *Service) FeeBps() (int64, error) {
	params, err := s.db.GetMarketParams()
	if err != nil {
		return 0, fmt.Errorf("loading market params: %w", err)
	}
	return params.FeeBps, nil
}

// IsPaused reports whether purchases are currently paused.
func (s *Service) IsPaused() (bool, error) {
	params, err := s.db.GetMarketParams()
	if err != nil {
		return false, fmt.Errorf("loading market params: %w", err)
	}
	return params.Paused, nil
}
