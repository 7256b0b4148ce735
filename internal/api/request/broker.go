// Package request defines the JSON request bodies accepted by the API.
package request

// SetBrokerConfigRequest is the body of PUT /api/broker/config.
type SetBrokerConfigRequest struct {
	APIKey          string `json:"apiKey"`
	APISecret       string `json:"apiSecret"`
	Mode            string `json:"mode"`
	AutoSyncEnabled bool   `json:"autoSyncEnabled"`
}
