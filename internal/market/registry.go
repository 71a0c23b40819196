package market

import (
	"fmt"

	"dm-go/internal/database/sqlc"
	"dm-go/internal/model"
)

// Mint registers a new dataset and returns its assigned id.
// Only the operator may mint; creator becomes the identity allowed to
// update or deactivate the dataset later. contentRef must not already be
// registered, and unitPrice must be positive. totalSupply of 0 marks a
// unique item; a positive value caps fractional sales.
func (s *Service) Mint(caller, creator, contentRef, name, description string, unitPrice int64, accessPolicy string, totalSupply int64, encrypted bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return 0, err
	}
	if contentRef == "" {
		return 0, fmt.Errorf("%w: content reference is required", ErrInvalidInput)
	}
	if name == "" {
		return 0, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if creator == "" {
		return 0, fmt.Errorf("%w: creator is required", ErrInvalidInput)
	}
	if unitPrice <= 0 {
		return 0, fmt.Errorf("%w: unit price must be positive, got %d", ErrInvalidInput, unitPrice)
	}
	if totalSupply < 0 {
		return 0, fmt.Errorf("%w: total supply must not be negative, got %d", ErrInvalidInput, totalSupply)
	}

	existing, err := s.db.FindDatasetByContentRef(contentRef)
	if err != nil {
		return 0, fmt.Errorf("checking content reference: %w", err)
	}
	if existing != nil {
		return 0, fmt.Errorf("%w: content reference %s already registered as dataset %d", ErrDuplicateKey, contentRef, existing.ID)
	}

	ds, err := s.db.CreateDataset(&sqlc.Dataset{
		ContentRef:   contentRef,
		Name:         name,
		Description:  description,
		UnitPrice:    unitPrice,
		Creator:      creator,
		Active:       true,
		CreatedAt:    s.clock.Now(),
		AccessPolicy: accessPolicy,
		TotalSupply:  totalSupply,
		SoldSupply:   0,
		Encrypted:    encrypted,
	})
	if err != nil {
		return 0, fmt.Errorf("creating dataset: %w", err)
	}

	s.logger.Info("dataset minted", "dataset", ds.ID, "creator", creator, "price", unitPrice)
	return ds.ID, nil
}

// UpdateDataset changes a dataset's price and access policy.
// Only the dataset's creator may update it.
func (s *Service) UpdateDataset(caller string, datasetID int64, newPrice int64, newAccessPolicy string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.db.FindDataset(datasetID)
	if err != nil {
		return fmt.Errorf("finding dataset: %w", err)
	}
	if ds == nil {
		return fmt.Errorf("%w: dataset %d", ErrNotFound, datasetID)
	}
	if caller != ds.Creator {
		return fmt.Errorf("%w: only the creator may update dataset %d", ErrUnauthorized, datasetID)
	}
	if newPrice <= 0 {
		return fmt.Errorf("%w: unit price must be positive, got %d", ErrInvalidInput, newPrice)
	}

	if err := s.db.UpdateDatasetTerms(datasetID, newPrice, newAccessPolicy); err != nil {
		return fmt.Errorf("updating dataset: %w", err)
	}

	s.logger.Info("dataset updated", "dataset", datasetID, "price", newPrice)
	return nil
}

// DeactivateDataset marks a dataset inactive. Only the creator may do
// this, and there is no way back: deactivation is one-directional.
func (s *Service) DeactivateDataset(caller string, datasetID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.db.FindDataset(datasetID)
	if err != nil {
		return fmt.Errorf("finding dataset: %w", err)
	}
	if ds == nil {
		return fmt.Errorf("%w: dataset %d", ErrNotFound, datasetID)
	}
	if caller != ds.Creator {
		return fmt.Errorf("%w: only the creator may deactivate dataset %d", ErrUnauthorized, datasetID)
	}

	if err := s.db.DeactivateDataset(datasetID); err != nil {
		return fmt.Errorf("deactivating dataset: %w", err)
	}

	s.logger.Info("dataset deactivated", "dataset", datasetID)
	return nil
}

// GetDataset returns a dataset by id.
func (s *Service) GetDataset(datasetID int64) (*model.Dataset, error) {
	ds, err := s.db.FindDataset(datasetID)
	if err != nil {
		return nil, fmt.Errorf("finding dataset: %w", err)
	}
	if ds == nil {
		return nil, fmt.Errorf("%w: dataset %d", ErrNotFound, datasetID)
	}
	return datasetFromRow(ds), nil
}

// ContentExists reports whether a content reference is already registered.
func (s *Service) ContentExists(contentRef string) (bool, error) {
	ds, err := s.db.FindDatasetByContentRef(contentRef)
	if err != nil {
		return false, fmt.Errorf("checking content reference: %w", err)
	}
	return ds != nil, nil
}
