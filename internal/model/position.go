package model

import "time"

// PositionRow is one week of reconciled output for a symbol. Rows are derived
// by the reconciliation engine and replaced wholesale on every sync, with one
// exception: a pinned DivPerShare survives recomputation verbatim.
type PositionRow struct {
	Week        WeekKey `json:"week"`
	StartShares int     `json:"startShares"`

	// DivPerShare is nil when undefined (no shares at week start and not
	// pinned). nil is distinct from a true zero rate.
	DivPerShare       *float64 `json:"divPerShare,omitempty"`
	DivPerSharePinned bool     `json:"divPerSharePinned"`

	GrossDividend float64 `json:"grossDividend"`
	Withholding   float64 `json:"withholding"`
	NetDividend   float64 `json:"netDividend"`

	ReinvestedShares int     `json:"reinvestedShares"`
	TotalShares      int     `json:"totalShares"`
	AvgBuyPrice      float64 `json:"avgBuyPrice"`
	MarketValue      float64 `json:"marketValue"`

	AvgWeeklyDividend  float64 `json:"avgWeeklyDividend"`
	AnnualizedDividend float64 `json:"annualizedDividend"`
	ReturnToDate       float64 `json:"returnToDate"`
}

// SymbolState is the full persisted reconciliation state of one symbol:
// its invested-capital figure plus the ordered week-by-week row sequence.
type SymbolState struct {
	Symbol          string        `json:"symbol"`
	InvestedCapital float64       `json:"investedCapital"`
	Rows            []PositionRow `json:"rows"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// SymbolSummary is the list view of a tracked symbol: identity, capital and
// the headline figures of its most recent week.
type SymbolSummary struct {
	Symbol          string  `json:"symbol"`
	InvestedCapital float64 `json:"investedCapital"`
	Weeks           int     `json:"weeks"`
	TotalShares     int     `json:"totalShares"`
	MarketValue     float64 `json:"marketValue"`
	ReturnToDate    float64 `json:"returnToDate"`
	LastWeek        WeekKey `json:"lastWeek"`
}

// PortfolioSummary aggregates headline figures across all tracked symbols.
type PortfolioSummary struct {
	Symbols          int     `json:"symbols"`
	TotalInvested    float64 `json:"totalInvested"`
	TotalMarketValue float64 `json:"totalMarketValue"`
	// TotalGain is market value minus invested capital.
	TotalGain float64 `json:"totalGain"`
	// DividendReturn is the summed return-to-date (cumulative net dividends
	// minus invested capital) of each symbol's latest week.
	DividendReturn float64 `json:"dividendReturn"`
}

// BrokerConfig holds the Alpaca API credentials and sync settings.
// APISecretEnc is a fernet token; the plaintext secret never touches the
// database.
type BrokerConfig struct {
	APIKey          string
	APISecretEnc    string
	Mode            string // "paper" or "live"
	AutoSyncEnabled bool
	LastSyncedAt    *time.Time
	UpdatedAt       time.Time
}
