package model

import "time"

// Quote is one normalized snapshot of a tradable instrument, as returned by a
// quote source. Numeric fields that the upstream payload leaves blank are
// zero, never absent; downstream checks rely on that.
type Quote struct {
	Code          string
	Name          string
	CurrentPrice  float64
	OpenPrice     float64
	HighPrice     float64
	LowPrice      float64
	PrevClose     float64
	Change        float64
	ChangePercent float64
	Volume        int64
	Market        string // "A股", "港股", "A股指数", "港股指数"
	Currency      string // "¥" or "HK$"
	FetchedAt     time.Time
}

// Sample is the slice of a Quote that gets persisted once per monitoring
// cycle. Immutable once written.
type Sample struct {
	Code          string
	Price         float64
	ChangePercent float64
	Volume        int64
	Timestamp     time.Time
}

// StockInfo describes one watchlist entry.
type StockInfo struct {
	Code      string
	Name      string
	Market    string
	AddedTime time.Time
	IsActive  bool
}
