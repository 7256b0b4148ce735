package validation

import (
	"regexp"
	"strings"

	"github.com/mwerner-fin/divtracker-backend/internal/model"
)

// symbolPattern matches brokerage ticker symbols: uppercase letters, digits
// and separator dots, e.g. "ULTY" or "BRK.B".
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.]{1,12}$`)

// ValidateSymbol checks that a ticker symbol is well-formed.
func ValidateSymbol(symbol string) error {
	if strings.TrimSpace(symbol) == "" {
		return &Error{Fields: map[string]string{"symbol": "symbol is required"}}
	}
	if !symbolPattern.MatchString(symbol) {
		return &Error{Fields: map[string]string{"symbol": "symbol must be 1-12 uppercase letters, digits or dots"}}
	}
	return nil
}

// ParseWeekParam parses a week URL parameter. Paths use the dash form
// ("33-2025"); the slash form ("33/2025") is accepted for completeness.
func ParseWeekParam(param string) (model.WeekKey, error) {
	week, err := model.ParseWeekKey(param)
	if err != nil {
		return model.WeekKey{}, &Error{Fields: map[string]string{"week": err.Error()}}
	}
	return week, nil
}
