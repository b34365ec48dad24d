package collector

import (
	"log"

	"SignalBot/internal/model"
)

// Collector fetches quotes for a batch of tickers. One ticker's failure is
// logged and skipped; it never aborts the rest of the batch.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a Collector on top of a Fetcher.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches each code sequentially and returns whatever succeeded.
func (c *Collector) Collect(codes []string) map[string]model.Quote {
	quotes := make(map[string]model.Quote, len(codes))
	for _, code := range codes {
		quote, err := c.Fetcher.FetchQuote(code)
		if err != nil {
			log.Printf("[ERROR] fetch quote %s: %v", code, err)
			continue
		}
		quotes[code] = quote
	}
	return quotes
}

// StockName fetches the display name for a code, used when adding watchlist
// entries without an explicit name.
func (c *Collector) StockName(code string) (string, error) {
	quote, err := c.Fetcher.FetchQuote(code)
	if err != nil {
		return "", err
	}
	return quote.Name, nil
}
