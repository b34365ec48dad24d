package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/text/encoding/simplifiedchinese"

	"SignalBot/internal/market"
	"SignalBot/internal/model"
)

const (
	sinaAPIBase    = "https://hq.sinajs.cn/list="
	tencentAPIBase = "https://qt.gtimg.cn/q="
)

// HTTPFetcher fetches quotes from the public Sina (A股) and Tencent (港股)
// endpoints. Both serve GBK-encoded plain text.
type HTTPFetcher struct {
	client *resty.Client
}

// NewHTTPFetcher creates a fetcher with a shared retrying client. The public
// quote endpoints throttle and drop connections, so transient failures get a
// couple of retries at the transport level.
func NewHTTPFetcher(proxyURL string) *HTTPFetcher {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("User-Agent", "Mozilla/5.0").
		SetHeader("Referer", "https://finance.sina.com.cn")
	if proxyURL != "" {
		client.SetProxy(proxyURL)
	}
	return &HTTPFetcher{client: client}
}

func (f *HTTPFetcher) Name() string { return "sina/tencent" }

// FetchQuote dispatches by ticker classification: 港股 codes go to Tencent,
// everything else to Sina.
func (f *HTTPFetcher) FetchQuote(code string) (model.Quote, error) {
	if cls, ok := market.Classify(code); ok && cls.Exchange == market.ExchangeHK {
		return f.fetchHK(code)
	}
	return f.fetchAShare(code)
}

func (f *HTTPFetcher) fetchAShare(code string) (model.Quote, error) {
	body, err := f.get(sinaAPIBase + sinaSymbol(code))
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch A股 %s: %w", code, err)
	}
	quote, err := ParseSinaQuote(body, code)
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse A股 %s: %w", code, err)
	}
	return quote, nil
}

func (f *HTTPFetcher) fetchHK(code string) (model.Quote, error) {
	body, err := f.get(tencentAPIBase + tencentSymbol(code))
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch 港股 %s: %w", code, err)
	}
	quote, err := ParseTencentQuote(body, code)
	if err != nil {
		return model.Quote{}, fmt.Errorf("parse 港股 %s: %w", code, err)
	}
	return quote, nil
}

// get performs the request and decodes the GBK payload to UTF-8.
func (f *HTTPFetcher) get(url string) (string, error) {
	resp, err := f.client.R().Get(url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("status %d", resp.StatusCode())
	}
	decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(resp.Body())
	if err != nil {
		return "", fmt.Errorf("decode gbk: %w", err)
	}
	return string(decoded), nil
}

// sinaSymbol maps a watchlist code to Sina's symbol form. Bare 6-digit codes
// need an exchange prefix: 6xxxxx listings live on Shanghai, the rest on
// Shenzhen.
func sinaSymbol(code string) string {
	if strings.HasPrefix(code, "sh") || strings.HasPrefix(code, "sz") {
		return code
	}
	if len(code) == 6 {
		if code[0] == '6' {
			return "sh" + code
		}
		return "sz" + code
	}
	return code
}

// tencentSymbol maps a watchlist code to Tencent's hk-prefixed form.
func tencentSymbol(code string) string {
	if strings.HasPrefix(code, "hk") {
		return code
	}
	return "hk" + code
}
