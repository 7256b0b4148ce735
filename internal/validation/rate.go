package validation

import "math"

// ValidatePinRate checks a manual per-share dividend rate. The rate must be
// a finite, non-negative number; zero is a legitimate rate.
func ValidatePinRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return &Error{Fields: map[string]string{"rate": "rate must be a finite number"}}
	}
	if rate < 0 {
		return &Error{Fields: map[string]string{"rate": "rate cannot be negative"}}
	}
	return nil
}
