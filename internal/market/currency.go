package market

// CurrencyHolder is the boundary contract to the stablecoin ledger that
// holds buyer, creator and escrow balances. The marketplace core never
// creates money; it only moves it.
type CurrencyHolder interface {
	// BalanceOf returns the available balance of an account.
	BalanceOf(account string) (int64, error)

	// TransferFrom moves amount from one account to another.
	// Fails if the source balance is insufficient.
	TransferFrom(from, to string, amount int64) error

	// Transfer moves amount from the marketplace's holding (escrow)
	// account to the given account. Fails if the escrow balance is
	// insufficient.
	Transfer(to string, amount int64) error

	// EscrowAccount returns the name of the marketplace's holding account.
	EscrowAccount() string
}
