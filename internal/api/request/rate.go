package request

// PinRateRequest is the body of PUT /api/symbols/{symbol}/weeks/{week}/rate.
// Rate is a pointer so a missing field is distinguishable from a zero rate.
type PinRateRequest struct {
	Rate *float64 `json:"rate"`
}
