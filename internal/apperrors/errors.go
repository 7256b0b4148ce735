package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSymbolNotFound indicates that the given symbol is not tracked.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrWeekNotFound indicates that a symbol has no reconciled row for the
	// given week.
	ErrWeekNotFound = errors.New("week not found")

	// ErrTradeNotFound indicates that a trade order ID is not present in the
	// trade cache or ignore list.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrBrokerConfigNotFound indicates that broker API credentials have not
	// been configured yet.
	ErrBrokerConfigNotFound = errors.New("broker configuration not found")
)

// Business logic errors represent validation failures or constraint
// violations. These errors indicate that an operation cannot be completed
// due to business rules.
var (
	// ErrInvalidWeekKey indicates a week parameter that is not a valid
	// "WW/YYYY" ISO week key.
	ErrInvalidWeekKey = errors.New("invalid week key")

	// ErrInvalidSymbol indicates a missing or malformed ticker symbol.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")
)

// Sync and feed errors represent failures of the brokerage synchronization
// pipeline. A failed sync never writes partial state.
var (
	// ErrActivityFetch indicates that retrieving the brokerage activity feed
	// failed mid-sync. The partial result is discarded.
	ErrActivityFetch = errors.New("failed to fetch brokerage activities")

	// ErrPositionFetch indicates that retrieving current positions failed.
	ErrPositionFetch = errors.New("failed to fetch brokerage positions")

	// ErrSecretDecrypt indicates the stored API secret could not be
	// decrypted, typically because SECRET_KEY changed.
	ErrSecretDecrypt = errors.New("failed to decrypt broker secret")
)

// Data integrity errors represent inconsistencies the algorithm must never
// produce. If one surfaces it is a defect, not a user error.
var (
	// ErrInvariantViolation indicates the reconciliation engine produced an
	// impossible state, e.g. a negative share count.
	ErrInvariantViolation = errors.New("reconciliation invariant violated")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToRetrieveState   = errors.New("failed to retrieve symbol state")
	ErrFailedToRetrieveTrades  = errors.New("failed to retrieve trades")
	ErrFailedToRetrieveSummary = errors.New("failed to retrieve portfolio summary")
	ErrFailedToRetrieveConfig  = errors.New("failed to retrieve broker configuration")
	ErrFailedToSaveConfig      = errors.New("failed to save broker configuration")
	ErrFailedToSync            = errors.New("sync failed")
	ErrFailedToUpdateRate      = errors.New("failed to update dividend rate")
	ErrFailedToUpdateIgnore    = errors.New("failed to update ignore flag")
	ErrFailedToExport          = errors.New("failed to export rows")
)
