package store

import "SignalBot/internal/model"

// Store persists the watchlist and the append-only quote history.
type Store interface {
	AddStock(code, name, market string) error
	RemoveStock(code string) error
	ListStocks() ([]model.StockInfo, error)
	ActiveStocks() ([]string, error)
	UpdateStockName(code, name string) error

	// AppendSample writes one immutable history row. Samples are never
	// updated or deleted here; retention is an operator concern.
	AppendSample(sample model.Sample) error
	// Recent returns up to max history samples for a code, oldest first
	// (most-recent-last). Zero-volume rows are excluded so they cannot
	// drag down the volume average.
	Recent(code string, max int) ([]model.Sample, error)

	Close() error
}
