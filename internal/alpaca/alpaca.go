// Package alpaca is a minimal client for the Alpaca trading API, covering
// the account activities and positions endpoints used by synchronization.
package alpaca

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	paperBaseURL = "https://paper-api.alpaca.markets"
	liveBaseURL  = "https://api.alpaca.markets"

	pageSize = 100
)

// Client defines the interface for fetching account data from Alpaca.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	GetActivities(ctx context.Context, activityType string, after, until time.Time) ([]Activity, error)
	GetPositions(ctx context.Context) ([]Position, error)
}

// BrokerClient provides methods for fetching account activities and open
// positions from the Alpaca REST API.
type BrokerClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	apiSecret  string
}

// NewBrokerClient creates a new Alpaca client. Paper and live accounts use
// different hostnames but an identical API surface.
func NewBrokerClient(apiKey, apiSecret string, paper bool) *BrokerClient {
	baseURL := liveBaseURL
	if paper {
		baseURL = paperBaseURL
	}
	return &BrokerClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		apiSecret:  apiSecret,
	}
}

// GetActivities fetches all account activities of one type between after and
// until, oldest first. The endpoint pages by date cursor: each request asks
// for records after the last date seen, and fetching stops when a page comes
// back short or the cursor stops advancing. Any request failure aborts the
// whole fetch; callers never see a partial window.
func (c *BrokerClient) GetActivities(ctx context.Context, activityType string, after, until time.Time) ([]Activity, error) {
	var all []Activity

	// A zero after means full history; the parameter is omitted entirely.
	var cursor string
	if !after.IsZero() {
		cursor = after.UTC().Format("2006-01-02")
	}

	for {
		params := url.Values{}
		params.Set("direction", "asc")
		params.Set("page_size", fmt.Sprintf("%d", pageSize))
		if cursor != "" {
			params.Set("after", cursor)
		}
		params.Set("until", until.UTC().Format("2006-01-02"))

		endpoint := fmt.Sprintf("%s/v2/account/activities/%s?%s", c.baseURL, activityType, params.Encode())

		var page []Activity
		if err := c.getJSON(ctx, endpoint, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch %s activities: %w", activityType, err)
		}

		all = append(all, page...)

		if len(page) < pageSize {
			break
		}

		next := activityDate(page[len(page)-1])
		if next == "" || next == cursor {
			// Cursor cannot advance; stop rather than loop on the same page.
			break
		}
		cursor = next
	}

	return all, nil
}

// GetPositions fetches all currently open positions.
func (c *BrokerClient) GetPositions(ctx context.Context) ([]Position, error) {
	var positions []Position
	if err := c.getJSON(ctx, c.baseURL+"/v2/positions", &positions); err != nil {
		return nil, fmt.Errorf("failed to fetch positions: %w", err)
	}
	return positions, nil
}

// activityDate returns the date-only cursor for an activity record. Trade
// activities carry a transaction timestamp, cash activities a plain date.
func activityDate(a Activity) string {
	if a.Date != "" {
		return a.Date
	}
	if len(a.TransactionTime) >= 10 {
		return a.TransactionTime[:10]
	}
	return ""
}

func (c *BrokerClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}

	req.Header.Set("APCA-API-KEY-ID", c.apiKey)
	req.Header.Set("APCA-API-SECRET-KEY", c.apiSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("alpaca error %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("alpaca error %d", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return err
	}

	return nil
}
