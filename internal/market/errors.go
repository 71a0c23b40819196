package market

import "errors"

// Error kinds. Every operation failure wraps exactly one of these, so
// callers can match on the kind with errors.Is while still getting a
// message describing the specific violation.
var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the caller lacks the required role or ownership.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidInput covers zero/negative amounts, empty required fields,
	// fees over the ceiling, and unsupported chain ids.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDuplicateKey means a unique key (content reference) is already taken.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrStateConflict means the operation targets an entity in an
	// incompatible lifecycle state (inactive dataset, already-executed
	// intent, exhausted supply, paused ledger).
	ErrStateConflict = errors.New("state conflict")

	// ErrInsufficientFunds means a balance or payment is short of the
	// required amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrUnverifiedProof means a proof reference has not been marked valid.
	ErrUnverifiedProof = errors.New("unverified proof")
)
