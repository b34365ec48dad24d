package market

import "strings"

// Classification describes which exchange a ticker belongs to and whether it
// is an index. An index follows its exchange's session exactly; there is no
// separate index calendar.
type Classification struct {
	Exchange Exchange
	IsIndex  bool
}

// Index allow-lists are literal matches, maintained by hand. Membership only
// affects display and report grouping, never session gating.
var (
	aShareIndexCodes = map[string]bool{
		"sh000300": true, // 沪深300
		"sh000905": true, // 中证500
		"sh000016": true, // 上证50
	}
	hkIndexCodes = map[string]bool{
		"HSI": true, // 恒生指数
	}
)

// Classify pattern-matches a ticker into an exchange and kind. It is pure:
// the same code always yields the same result. The second return is false
// for codes that match neither market; such codes are untracked by the
// calendar.
func Classify(code string) (Classification, bool) {
	if aShareIndexCodes[code] {
		return Classification{Exchange: ExchangeAShare, IsIndex: true}, true
	}
	if hkIndexCodes[code] {
		return Classification{Exchange: ExchangeHK, IsIndex: true}, true
	}
	if isAShareCode(code) {
		return Classification{Exchange: ExchangeAShare}, true
	}
	if isHKCode(code) {
		return Classification{Exchange: ExchangeHK}, true
	}
	return Classification{}, false
}

// MarketLabel returns the display market for a code, e.g. "A股指数".
// Unclassifiable codes get an empty label.
func MarketLabel(code string) string {
	cls, ok := Classify(code)
	if !ok {
		return ""
	}
	if cls.IsIndex {
		return string(cls.Exchange) + "指数"
	}
	return string(cls.Exchange)
}

func isAShareCode(code string) bool {
	if strings.HasPrefix(code, "sh") || strings.HasPrefix(code, "sz") {
		return true
	}
	return len(code) == 6 && isDigits(code)
}

func isHKCode(code string) bool {
	if strings.HasPrefix(code, "hk") {
		return true
	}
	return len(code) == 5 && isDigits(code)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
