package detector

import (
	"fmt"
	"sort"
	"strings"

	"SignalBot/internal/model"
)

// FormatAlert renders a cycle's signals into one notification body: one
// block per ticker with a severity-coded line per signal, followed by the
// ticker's current price summary when a quote is available. A ticker with
// signals but no matching quote still formats, just without the price line.
func FormatAlert(signals map[string][]model.Signal, quotes map[string]model.Quote) string {
	if len(signals) == 0 {
		return ""
	}

	codes := make([]string, 0, len(signals))
	for code := range signals {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteString("🤖 SignalBot 检测到重要信号!\n\n")

	for _, code := range codes {
		quote, hasQuote := quotes[code]
		name := code
		if hasQuote && quote.Name != "" {
			name = quote.Name
		}
		b.WriteString(fmt.Sprintf("📊 %s(%s)\n", name, code))

		for _, s := range signals[code] {
			icon := "🟡"
			if s.Severity == model.SeverityHigh {
				icon = "🔴"
			}
			b.WriteString(fmt.Sprintf("%s %s\n", icon, s.Message))
		}

		if hasQuote {
			currency := quote.Currency
			if currency == "" {
				currency = "¥"
			}
			b.WriteString(fmt.Sprintf("💰 当前价格: %s%.2f (%+.2f%%)\n",
				currency, quote.CurrentPrice, quote.ChangePercent))
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}
