package alpaca

// Activity is one record from the Alpaca account activities endpoint.
// Numeric fields arrive as strings and are parsed downstream; fill records
// populate the trade fields, cash records (DIV, DIVNRA) populate NetAmount,
// with Amount as the older field name some records still carry instead.
type Activity struct {
	ID              string `json:"id"`
	ActivityType    string `json:"activity_type"`
	TransactionTime string `json:"transaction_time"`
	Date            string `json:"date"`
	Type            string `json:"type"` // fill or partial_fill for trade activities
	Side            string `json:"side"`
	Symbol          string `json:"symbol"`
	Qty             string `json:"qty"`
	Price           string `json:"price"`
	NetAmount       string `json:"net_amount"`
	Amount          string `json:"amount"`
}

// Position is one open position from the Alpaca positions endpoint.
type Position struct {
	Symbol       string `json:"symbol"`
	Qty          string `json:"qty"`
	CurrentPrice string `json:"current_price"`
}

// apiError is the JSON error body Alpaca returns on non-2xx responses.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
