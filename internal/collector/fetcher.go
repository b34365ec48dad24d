package collector

import (
	"fmt"

	"SignalBot/internal/model"
)

// Fetcher fetches one normalized quote for a ticker.
type Fetcher interface {
	FetchQuote(code string) (model.Quote, error)
	Name() string
}

// MockFetcher returns canned quotes for development and testing.
type MockFetcher struct {
	Quotes map[string]model.Quote
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchQuote(code string) (model.Quote, error) {
	if q, ok := m.Quotes[code]; ok {
		return q, nil
	}
	return model.Quote{}, fmt.Errorf("mock: no quote for %s", code)
}
