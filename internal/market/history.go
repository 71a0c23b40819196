package market

import (
	"fmt"

	"dm-go/internal/database/sqlc"
)

// GetHistory returns the most recent marketplace operations, ordered newest first.
func (s *Service) GetHistory(limit int) ([]*sqlc.MarketOperation, error) {
	ops, err := s.db.ListMarketOperations(limit)
	if err != nil {
		return nil, fmt.Errorf("listing market operations: %w", err)
	}
	return ops, nil
}
