package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// WeChatNotifier delivers plain-text messages to a 企业微信 group webhook.
// The webhook is push-only; there is no inbound command channel.
type WeChatNotifier struct {
	WebhookURL string
	Client     *http.Client
}

// NewWeChatNotifier creates a notifier with optional proxy support.
func NewWeChatNotifier(webhookURL, proxyURL string) *WeChatNotifier {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &WeChatNotifier{
		WebhookURL: webhookURL,
		Client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: transport,
		},
	}
}

// wechatResponse is the webhook's result envelope; errcode 0 means accepted.
type wechatResponse struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

// Send posts one text message to the webhook.
func (w *WeChatNotifier) Send(text string) error {
	if w.WebhookURL == "" {
		return fmt.Errorf("wechat webhook url not configured")
	}
	payload := map[string]interface{}{
		"msgtype": "text",
		"text":    map[string]string{"content": text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	resp, err := w.Client.Post(w.WebhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wechat API error: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	var result wechatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("decode wechat response: %w", err)
	}
	if result.ErrCode != 0 {
		return fmt.Errorf("wechat rejected message: errcode=%d errmsg=%s", result.ErrCode, result.ErrMsg)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (w *WeChatNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		if err := w.Send(text); err != nil {
			lastErr = err
			backoff := time.Duration(1<<uint(i)) * time.Second
			log.Printf("[WARN] wechat send failed (attempt %d/%d): %v, retrying in %v", i+1, maxRetries+1, err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, lastErr)
}

// SendTestMessage pushes a timestamped probe message, used by the CLI.
func (w *WeChatNotifier) SendTestMessage() error {
	text := fmt.Sprintf("🤖 SignalBot 测试消息\n时间: %s", time.Now().Format("2006-01-02 15:04:05"))
	return w.Send(text)
}
