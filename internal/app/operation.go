package app

// MarketOperation tracks a CLI operation that may mutate the ledger.
// Operations are created in memory with ID=0. Only ledger-mutating commands
// persist them (giving them an auto-increment ID from the database).
type MarketOperation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string // "success" or "error"
}

// NewMarketOperation creates a new in-memory market operation.
func NewMarketOperation(operation, parameters string) *MarketOperation {
	return &MarketOperation{
		Operation:  operation,
		Parameters: parameters,
		Status:     "success",
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *MarketOperation) Persisted() bool {
	return op.ID != 0
}
