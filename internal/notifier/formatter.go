package notifier

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"SignalBot/internal/model"
)

// FormatStockReport renders the regular monitoring report for a set of
// quotes. Title distinguishes the stock report from the index report when a
// cycle covers both.
func FormatStockReport(title string, quotes map[string]model.Quote) string {
	if len(quotes) == 0 {
		return ""
	}

	codes := make([]string, 0, len(quotes))
	for code := range quotes {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s - %s\n\n", title, time.Now().Format("2006-01-02 15:04")))

	for _, code := range codes {
		q := quotes[code]
		name := q.Name
		if name == "" {
			name = code
		}

		statusIcon, changeIcon := "⚪", "→"
		switch {
		case q.Change > 0:
			statusIcon, changeIcon = "🔴", "↑"
		case q.Change < 0:
			statusIcon, changeIcon = "🟢", "↓"
		}

		b.WriteString(fmt.Sprintf("%s %s(%s) [%s]\n", statusIcon, name, code, q.Market))
		b.WriteString(fmt.Sprintf("当前: %s%.2f %s%+.2f(%+.2f%%)\n",
			q.Currency, q.CurrentPrice, changeIcon, q.Change, q.ChangePercent))
		b.WriteString(fmt.Sprintf("今日: 开盘%s%.2f 最高%s%.2f 最低%s%.2f\n\n",
			q.Currency, q.OpenPrice, q.Currency, q.HighPrice, q.Currency, q.LowPrice))
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// SplitByKind partitions quotes into stocks and indices so the two groups go
// out as separate messages.
func SplitByKind(quotes map[string]model.Quote) (stocks, indices map[string]model.Quote) {
	stocks = make(map[string]model.Quote)
	indices = make(map[string]model.Quote)
	for code, q := range quotes {
		if strings.Contains(q.Market, "指数") {
			indices[code] = q
		} else {
			stocks[code] = q
		}
	}
	return stocks, indices
}
