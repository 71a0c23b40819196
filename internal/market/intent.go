package market

import (
	"fmt"

	"dm-go/internal/database/sqlc"
	"dm-go/internal/model"
)

// CreateIntent declares a cross-chain purchase. Both chains must be in
// the supported set and the dataset must be active; the currency amount
// is fixed at creation time from the dataset's current price.
// Any caller may create an intent; only the operator can advance it.
func (s *Service) CreateIntent(caller string, datasetID, quantity, sourceChain, destinationChain int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, chainID := range []int64{sourceChain, destinationChain} {
		supported, err := s.chainSupported(chainID)
		if err != nil {
			return "", err
		}
		if !supported {
			return "", fmt.Errorf("%w: chain %d is not supported", ErrInvalidInput, chainID)
		}
	}
	if quantity <= 0 {
		return "", fmt.Errorf("%w: quantity must be positive, got %d", ErrInvalidInput, quantity)
	}

	ds, err := s.db.FindDataset(datasetID)
	if err != nil {
		return "", fmt.Errorf("finding dataset: %w", err)
	}
	if ds == nil {
		return "", fmt.Errorf("%w: dataset %d", ErrNotFound, datasetID)
	}
	if !ds.Active {
		return "", fmt.Errorf("%w: dataset %d is inactive", ErrStateConflict, datasetID)
	}

	amount, err := costOf(ds.UnitPrice, quantity)
	if err != nil {
		return "", err
	}
	if amount == 0 {
		return "", fmt.Errorf("%w: intent amount is zero", ErrInvalidInput)
	}

	intent := &sqlc.Intent{
		ID:               s.idgen.New(),
		Buyer:            caller,
		DatasetID:        datasetID,
		Quantity:         quantity,
		SourceChain:      sourceChain,
		DestinationChain: destinationChain,
		Amount:           amount,
		Executed:         false,
		Settled:          false,
		CreatedAt:        s.clock.Now(),
	}
	if err := s.db.CreateIntent(intent); err != nil {
		return "", fmt.Errorf("creating intent: %w", err)
	}

	s.logger.Info("intent created",
		"intent", intent.ID,
		"dataset", datasetID,
		"buyer", caller,
		"source_chain", sourceChain,
		"destination_chain", destinationChain,
		"amount", amount,
	)
	return intent.ID, nil
}

// ExecuteIntent advances an intent from created to executed once a valid
// proof is on record, and executes the underlying purchase for the
// intent's buyer as a dependent sub-operation. The intent transition and
// the purchase commit in one transaction: if the purchase cannot be
// recorded, the intent stays unexecuted. Operator only.
func (s *Service) ExecuteIntent(caller, intentID, proofRef, accessToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return err
	}

	intent, err := s.db.FindIntent(intentID)
	if err != nil {
		return fmt.Errorf("finding intent: %w", err)
	}
	if intent == nil {
		return fmt.Errorf("%w: intent %s", ErrNotFound, intentID)
	}
	if intent.Executed {
		return fmt.Errorf("%w: intent %s already executed", ErrStateConflict, intentID)
	}
	if err := s.requireVerifiedProof(proofRef); err != nil {
		return err
	}

	ds, totalCost, platformFee, err := s.preparePurchase(intent.Buyer, intent.DatasetID, intent.Quantity)
	if err != nil {
		return err
	}

	creatorRevenue := totalCost - platformFee
	if err := s.collectFunds(intent.Buyer, ds.Creator, totalCost, creatorRevenue); err != nil {
		return err
	}

	if accessToken == "" {
		accessToken = s.idgen.New()
	}

	now := s.clock.Now()
	purchase := &sqlc.Purchase{
		ID:          s.idgen.New(),
		DatasetID:   intent.DatasetID,
		Buyer:       intent.Buyer,
		Quantity:    intent.Quantity,
		UnitPrice:   ds.UnitPrice,
		PlatformFee: platformFee,
		CreatedAt:   now,
		Active:      true,
		AccessToken: accessToken,
	}

	if err := s.db.ExecuteIntentPurchase(intentID, now, accessToken, purchase); err != nil {
		s.refundFunds(intent.Buyer, ds.Creator, totalCost, creatorRevenue)
		return fmt.Errorf("executing intent: %w", err)
	}

	s.logger.Info("intent executed", "intent", intentID, "purchase", purchase.ID, "proof", proofRef)
	s.notifyPurchase(purchase)
	return nil
}

// SettleIntent advances an executed intent to settled once a valid
// settlement proof is on record. Operator only.
func (s *Service) SettleIntent(caller, intentID, proofRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return err
	}

	intent, err := s.db.FindIntent(intentID)
	if err != nil {
		return fmt.Errorf("finding intent: %w", err)
	}
	if intent == nil {
		return fmt.Errorf("%w: intent %s", ErrNotFound, intentID)
	}
	if !intent.Executed {
		return fmt.Errorf("%w: intent %s not yet executed", ErrStateConflict, intentID)
	}
	if intent.Settled {
		return fmt.Errorf("%w: intent %s already settled", ErrStateConflict, intentID)
	}
	if err := s.requireVerifiedProof(proofRef); err != nil {
		return err
	}

	if err := s.db.SettleIntent(intentID); err != nil {
		return fmt.Errorf("settling intent: %w", err)
	}

	s.logger.Info("intent settled", "intent", intentID, "proof", proofRef)
	return nil
}

// VerifyProof records the verdict of the external proof verifier for a
// proof reference. This is a registry write, not a cryptographic check:
// the verdict is trusted verbatim. Operator only.
func (s *Service) VerifyProof(caller, proofRef string, valid bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return err
	}
	if proofRef == "" {
		return fmt.Errorf("%w: proof reference is required", ErrInvalidInput)
	}
	if err := s.db.RecordProof(proofRef, valid, s.clock.Now()); err != nil {
		return fmt.Errorf("recording proof: %w", err)
	}

	s.logger.Info("proof recorded", "proof", proofRef, "valid", valid)
	return nil
}

// requireVerifiedProof fails with ErrUnverifiedProof unless the proof
// reference has been recorded as valid.
func (s *Service) requireVerifiedProof(proofRef string) error {
	proof, err := s.db.FindProof(proofRef)
	if err != nil {
		return fmt.Errorf("finding proof: %w", err)
	}
	if proof == nil || !proof.Valid {
		return fmt.Errorf("%w: proof %s", ErrUnverifiedProof, proofRef)
	}
	return nil
}

// GetIntent returns an intent by id.
func (s *Service) GetIntent(intentID string) (*model.CrossChainIntent, error) {
	intent, err := s.db.FindIntent(intentID)
	if err != nil {
		return nil, fmt.Errorf("finding intent: %w", err)
	}
	if intent == nil {
		return nil, fmt.Errorf("%w: intent %s", ErrNotFound, intentID)
	}
	return intentFromRow(intent), nil
}

// GetBuyerIntents returns a buyer's intents in creation order.
func (s *Service) GetBuyerIntents(buyer string) ([]*model.CrossChainIntent, error) {
	rows, err := s.db.FindIntentsByBuyer(buyer)
	if err != nil {
		return nil, fmt.Errorf("listing intents: %w", err)
	}
	intents := make([]*model.CrossChainIntent, len(rows))
	for i, row := range rows {
		intents[i] = intentFromRow(row)
	}
	return intents, nil
}

// GetIntentStatus returns an intent's lifecycle state.
func (s *Service) GetIntentStatus(intentID string) (model.IntentStatus, error) {
	intent, err := s.GetIntent(intentID)
	if err != nil {
		return "", err
	}
	return intent.Status(), nil
}
