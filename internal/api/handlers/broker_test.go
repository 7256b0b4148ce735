package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwerner-fin/divtracker-backend/internal/service"
	"github.com/mwerner-fin/divtracker-backend/internal/testutil"
)

func setupBrokerHandler(t *testing.T) *BrokerHandler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	sealer := testutil.NewTestSealer(t)
	return NewBrokerHandler(testutil.NewTestBrokerService(t, db, sealer))
}

func putConfig(t *testing.T, handler *BrokerHandler, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/broker/config", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.SetConfig(w, req)
	return w
}

func TestBrokerHandler_GetConfig(t *testing.T) {
	t.Run("returns 404 before credentials are saved", func(t *testing.T) {
		handler := setupBrokerHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/broker/config", nil)
		w := httptest.NewRecorder()

		handler.GetConfig(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns the masked configuration", func(t *testing.T) {
		handler := setupBrokerHandler(t)

		putConfig(t, handler, map[string]any{
			"apiKey":    "my-key",
			"apiSecret": "my-secret",
			"mode":      "paper",
		})

		req := httptest.NewRequest(http.MethodGet, "/api/broker/config", nil)
		w := httptest.NewRecorder()

		handler.GetConfig(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		body := w.Body.String()
		if strings.Contains(body, "my-secret") {
			t.Errorf("Secret leaked into response: %s", body)
		}

		var response service.BrokerConfigView
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(strings.NewReader(body)).Decode(&response)

		if response.APIKey != "my-key" || response.Mode != "paper" {
			t.Errorf("Unexpected config: %+v", response)
		}
		if !response.SecretSet {
			t.Errorf("Expected secretSet true")
		}
	})
}

func TestBrokerHandler_SetConfig(t *testing.T) {
	t.Run("stores valid credentials", func(t *testing.T) {
		handler := setupBrokerHandler(t)

		w := putConfig(t, handler, map[string]any{
			"apiKey":          "my-key",
			"apiSecret":       "my-secret",
			"mode":            "live",
			"autoSyncEnabled": true,
		})

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response service.BrokerConfigView
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Mode != "live" || !response.AutoSyncEnabled {
			t.Errorf("Unexpected config: %+v", response)
		}
	})

	t.Run("rejects a missing secret", func(t *testing.T) {
		handler := setupBrokerHandler(t)

		w := putConfig(t, handler, map[string]any{
			"apiKey": "my-key",
			"mode":   "paper",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		handler := setupBrokerHandler(t)

		w := putConfig(t, handler, map[string]any{
			"apiKey":    "my-key",
			"apiSecret": "my-secret",
			"mode":      "sandbox",
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		handler := setupBrokerHandler(t)

		w := putConfig(t, handler, map[string]any{
			"apiKey":    "my-key",
			"apiSecret": "my-secret",
			"mode":      "paper",
			"extra":     true,
		})

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}
