package collector

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"SignalBot/internal/market"
	"SignalBot/internal/model"
)

// ParseSinaQuote parses a Sina A股 payload, e.g.
//
//	var hq_str_sh600000="浦发银行,10.20,10.10,10.30,10.45,10.05,...";
//
// Fields: 0 name, 1 open, 2 prev close, 3 current, 4 high, 5 low, 8 volume.
// Blank numeric fields normalize to zero.
func ParseSinaQuote(payload, code string) (model.Quote, error) {
	data, err := extractQuoted(payload)
	if err != nil {
		return model.Quote{}, err
	}
	parts := strings.Split(data, ",")
	if len(parts) < 32 {
		return model.Quote{}, fmt.Errorf("sina payload too short: %d fields", len(parts))
	}

	quote := model.Quote{
		Code:         code,
		Name:         parts[0],
		OpenPrice:    parseFloat(parts[1]),
		PrevClose:    parseFloat(parts[2]),
		CurrentPrice: parseFloat(parts[3]),
		HighPrice:    parseFloat(parts[4]),
		LowPrice:     parseFloat(parts[5]),
		Volume:       parseVolume(parts[8]),
		Market:       marketLabelOr(code, string(market.ExchangeAShare)),
		Currency:     "¥",
		FetchedAt:    time.Now(),
	}
	fillChange(&quote)
	return quote, nil
}

// ParseTencentQuote parses a Tencent 港股 payload, fields separated by "~":
// 1 name, 3 current, 4 prev close, 5 open, 6 volume, 33 high, 34 low.
func ParseTencentQuote(payload, code string) (model.Quote, error) {
	data, err := extractQuoted(payload)
	if err != nil {
		return model.Quote{}, err
	}
	parts := strings.Split(data, "~")
	if len(parts) < 50 {
		return model.Quote{}, fmt.Errorf("tencent payload too short: %d fields", len(parts))
	}

	quote := model.Quote{
		Code:         code,
		Name:         parts[1],
		CurrentPrice: parseFloat(parts[3]),
		PrevClose:    parseFloat(parts[4]),
		OpenPrice:    parseFloat(parts[5]),
		Volume:       parseVolume(parts[6]),
		HighPrice:    parseFloat(parts[33]),
		LowPrice:     parseFloat(parts[34]),
		Market:       marketLabelOr(code, string(market.ExchangeHK)),
		Currency:     "HK$",
		FetchedAt:    time.Now(),
	}
	fillChange(&quote)
	return quote, nil
}

// fillChange derives the absolute and relative change from the previous
// close. With no previous close both stay zero, which disables the
// price-movement check downstream.
func fillChange(q *model.Quote) {
	if q.PrevClose <= 0 {
		return
	}
	q.Change = q.CurrentPrice - q.PrevClose
	q.ChangePercent = q.Change / q.PrevClose * 100
}

func extractQuoted(payload string) (string, error) {
	start := strings.Index(payload, `"`)
	if start < 0 {
		return "", fmt.Errorf("no quoted data in payload")
	}
	end := strings.Index(payload[start+1:], `"`)
	if end < 0 {
		return "", fmt.Errorf("unterminated quoted data in payload")
	}
	return payload[start+1 : start+1+end], nil
}

// parseFloat is the single place where "missing means zero" happens for
// numeric quote fields.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

func parseVolume(s string) int64 {
	return int64(parseFloat(s))
}

func marketLabelOr(code, fallback string) string {
	if label := market.MarketLabel(code); label != "" {
		return label
	}
	return fallback
}
