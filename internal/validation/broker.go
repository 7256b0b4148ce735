package validation

import (
	"strings"

	"github.com/mwerner-fin/divtracker-backend/internal/api/request"
)

// ValidateBrokerConfig checks a broker configuration update.
func ValidateBrokerConfig(req request.SetBrokerConfigRequest) error {
	fields := map[string]string{}

	if strings.TrimSpace(req.APIKey) == "" {
		fields["apiKey"] = "API key is required"
	}
	if strings.TrimSpace(req.APISecret) == "" {
		fields["apiSecret"] = "API secret is required"
	}
	if req.Mode != "paper" && req.Mode != "live" {
		fields["mode"] = "mode must be 'paper' or 'live'"
	}

	if len(fields) > 0 {
		return &Error{Fields: fields}
	}
	return nil
}
