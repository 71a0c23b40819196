package market

import (
	"fmt"

	"dm-go/internal/model"
)

// SetChainSupport marks a chain as eligible (or not) for cross-chain
// intents. Idempotent. Operator only.
func (s *Service) SetChainSupport(caller string, chainID int64, supported bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOperator(caller); err != nil {
		return err
	}
	if err := s.db.SetChainSupport(chainID, supported, s.clock.Now()); err != nil {
		return fmt.Errorf("updating chain support: %w", err)
	}

	s.logger.Info("chain support changed", "chain", chainID, "supported", supported)
	return nil
}

// IsChainSupported reports whether a chain may participate in intents.
// Unknown chains are unsupported.
func (s *Service) IsChainSupported(chainID int64) (bool, error) {
	return s.chainSupported(chainID)
}

// ListChains returns every chain policy entry.
func (s *Service) ListChains() ([]*model.Chain, error) {
	rows, err := s.db.ListChains()
	if err != nil {
		return nil, fmt.Errorf("listing chains: %w", err)
	}
	chains := make([]*model.Chain, len(rows))
	for i, row := range rows {
		chains[i] = &model.Chain{ID: row.ID, Supported: row.Supported, UpdatedAt: row.UpdatedAt}
	}
	return chains, nil
}

func (s *Service) chainSupported(chainID int64) (bool, error) {
	chain, err := s.db.FindChain(chainID)
	if err != nil {
		return false, fmt.Errorf("finding chain: %w", err)
	}
	return chain != nil && chain.Supported, nil
}
