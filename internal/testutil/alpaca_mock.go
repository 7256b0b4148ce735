package testutil

import (
	"context"
	"time"

	"github.com/mwerner-fin/divtracker-backend/internal/alpaca"
)

// MockAlpacaClient is a mock implementation of alpaca.Client for testing.
// It returns predefined activity and position data instead of calling the
// real API.
type MockAlpacaClient struct {
	// Activities maps activity type (FILL, DIV, DIVNRA) to the records
	// returned for that type.
	Activities map[string][]alpaca.Activity
	// Positions is returned from GetPositions.
	Positions []alpaca.Position
	// ActivitiesErr, when set, fails every GetActivities call.
	ActivitiesErr error
	// PositionsErr, when set, fails GetPositions.
	PositionsErr error
	// FetchCount tracks how many feed calls were made.
	FetchCount int
}

// NewMockAlpacaClient creates an empty mock. Configure it with the With*
// builder methods.
func NewMockAlpacaClient() *MockAlpacaClient {
	return &MockAlpacaClient{
		Activities: make(map[string][]alpaca.Activity),
	}
}

// GetActivities returns the configured records for one activity type.
func (m *MockAlpacaClient) GetActivities(_ context.Context, activityType string, _, _ time.Time) ([]alpaca.Activity, error) {
	m.FetchCount++
	if m.ActivitiesErr != nil {
		return nil, m.ActivitiesErr
	}
	return m.Activities[activityType], nil
}

// GetPositions returns the configured positions.
func (m *MockAlpacaClient) GetPositions(_ context.Context) ([]alpaca.Position, error) {
	m.FetchCount++
	if m.PositionsErr != nil {
		return nil, m.PositionsErr
	}
	return m.Positions, nil
}

// WithActivities sets the records returned for one activity type.
func (m *MockAlpacaClient) WithActivities(activityType string, acts ...alpaca.Activity) *MockAlpacaClient {
	m.Activities[activityType] = append(m.Activities[activityType], acts...)
	return m
}

// WithPositions sets the open positions.
func (m *MockAlpacaClient) WithPositions(positions ...alpaca.Position) *MockAlpacaClient {
	m.Positions = append(m.Positions, positions...)
	return m
}

// WithActivitiesError configures the mock to fail activity fetches.
func (m *MockAlpacaClient) WithActivitiesError(err error) *MockAlpacaClient {
	m.ActivitiesErr = err
	return m
}

// WithPositionsError configures the mock to fail the positions fetch.
func (m *MockAlpacaClient) WithPositionsError(err error) *MockAlpacaClient {
	m.PositionsErr = err
	return m
}

// Fill builds a FILL activity record in the feed's wire shape.
func Fill(id, symbol, date, side, qty, price string) alpaca.Activity {
	return alpaca.Activity{
		ID:              id,
		ActivityType:    "FILL",
		TransactionTime: date + "T14:30:00Z",
		Type:            "fill",
		Side:            side,
		Symbol:          symbol,
		Qty:             qty,
		Price:           price,
	}
}

// Position builds an open-position record in the feed's wire shape.
func Position(symbol, qty, price string) alpaca.Position {
	return alpaca.Position{
		Symbol:       symbol,
		Qty:          qty,
		CurrentPrice: price,
	}
}

// Dividend builds a DIV activity record in the feed's wire shape.
func Dividend(id, symbol, date, amount string) alpaca.Activity {
	return alpaca.Activity{
		ID:           id,
		ActivityType: "DIV",
		Date:         date,
		Symbol:       symbol,
		NetAmount:    amount,
	}
}

// Withholding builds a DIVNRA activity record in the feed's wire shape.
func Withholding(id, symbol, date, amount string) alpaca.Activity {
	return alpaca.Activity{
		ID:           id,
		ActivityType: "DIVNRA",
		Date:         date,
		Symbol:       symbol,
		NetAmount:    amount,
	}
}
