package model

import "time"

// AccessTokenTTL is the validity window of a purchase access token,
// measured from the purchase timestamp.
const AccessTokenTTL = 24 * time.Hour

// Fee parameters, in basis points (1 bps = 0.01%).
const (
	DefaultFeeBps = 250  // 2.5%
	MaxFeeBps     = 1000 // hard ceiling, 10%
)

// IntentStatus describes where a cross-chain intent is in its lifecycle.
// Transitions are strictly Created -> Executed -> Settled.
type IntentStatus string

const (
	IntentCreated  IntentStatus = "created"
	IntentExecuted IntentStatus = "executed"
	IntentSettled  IntentStatus = "settled"
)

// Dataset is a tokenized, priced, content-addressed data asset.
type Dataset struct {
	ID           int64  // Monotonically increasing, starts at 1
	ContentRef   string // Opaque content address (SHA-256 of the payload), globally unique
	Name         string
	Description  string
	UnitPrice    int64 // Smallest currency unit, always > 0
	Creator      string
	Active       bool // One-way: once false, never true again
	CreatedAt    time.Time
	AccessPolicy string
	TotalSupply  int64 // 0 = unique item, >0 = fractional supply cap
	SoldSupply   int64
	Encrypted    bool // Whether the vault payload is age-encrypted
}

// PurchaseRecord is one completed purchase. Records are append-only and
// never mutated after creation.
type PurchaseRecord struct {
	ID          string // UUID
	DatasetID   int64
	Buyer       string
	Quantity    int64
	UnitPrice   int64 // Dataset price at purchase time
	PlatformFee int64
	CreatedAt   time.Time
	Active      bool
	AccessToken string // Opaque credential, valid until CreatedAt + AccessTokenTTL
}

// CrossChainIntent is a declared cross-chain purchase request awaiting
// external proof before execution.
type CrossChainIntent struct {
	ID               string // UUID
	Buyer            string
	DatasetID        int64
	Quantity         int64
	SourceChain      int64
	DestinationChain int64
	Amount           int64 // unitPrice * quantity at creation time
	Executed         bool
	Settled          bool
	CreatedAt        time.Time
	ExecutedAt       *time.Time
	AccessToken      string
	PurchaseID       string // Set once executed; links to the resulting purchase
}

// Status returns the intent's lifecycle state.
func (i *CrossChainIntent) Status() IntentStatus {
	switch {
	case i.Settled:
		return IntentSettled
	case i.Executed:
		return IntentExecuted
	default:
		return IntentCreated
	}
}

// Chain is one entry in the chain policy.
type Chain struct {
	ID        int64
	Supported bool
	UpdatedAt time.Time
}
