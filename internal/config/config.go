package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	WeChat struct {
		WebhookURL string `yaml:"webhook_url"`
	} `yaml:"wechat"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Schedule struct {
		MonitorCron string `yaml:"monitor_cron"`
	} `yaml:"schedule"`
	Signal struct {
		PriceThreshold  float64 `yaml:"price_threshold"`
		VolumeThreshold float64 `yaml:"volume_threshold"`
	} `yaml:"signal"`
	Market struct {
		CheckMarketHours bool     `yaml:"check_market_hours"`
		AShareHolidays   []string `yaml:"a_share_holidays"`
		HKHolidays       []string `yaml:"hk_holidays"`
	} `yaml:"market"`
	Report struct {
		AlwaysSendReport bool `yaml:"always_send_report"`
		SendSignalAlerts bool `yaml:"send_signal_alerts"`
	} `yaml:"report"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. Booleans default to true; keys present in the file
// or environment win.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Market.CheckMarketHours = true
	cfg.Report.AlwaysSendReport = true
	cfg.Report.SendSignalAlerts = true

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("WECHAT_WEBHOOK_URL"); v != "" {
		cfg.WeChat.WebhookURL = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("MONITOR_CRON"); v != "" {
		cfg.Schedule.MonitorCron = v
	}
	if v := os.Getenv("PRICE_CHANGE_THRESHOLD"); v != "" {
		var threshold float64
		if _, err := fmt.Sscanf(v, "%f", &threshold); err == nil {
			cfg.Signal.PriceThreshold = threshold
		}
	}
	if v := os.Getenv("VOLUME_SPIKE_THRESHOLD"); v != "" {
		var threshold float64
		if _, err := fmt.Sscanf(v, "%f", &threshold); err == nil {
			cfg.Signal.VolumeThreshold = threshold
		}
	}
	if v := os.Getenv("CHECK_MARKET_HOURS"); v != "" {
		cfg.Market.CheckMarketHours = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("ALWAYS_SEND_REPORT"); v != "" {
		cfg.Report.AlwaysSendReport = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("SEND_SIGNAL_ALERTS"); v != "" {
		cfg.Report.SendSignalAlerts = strings.ToLower(v) == "true"
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/signalbot.db"
	}
	if cfg.Schedule.MonitorCron == "" {
		cfg.Schedule.MonitorCron = "0 0 * * * *" // hourly
	}
	if cfg.Signal.PriceThreshold == 0 {
		cfg.Signal.PriceThreshold = 5.0
	}
	if cfg.Signal.VolumeThreshold == 0 {
		cfg.Signal.VolumeThreshold = 2.0
	}

	return cfg, nil
}

// Validate checks the fields required for sending notifications. Watchlist
// commands work without a webhook; run/start/test do not.
func (c *Config) Validate() error {
	if c.WeChat.WebhookURL == "" {
		return fmt.Errorf("wechat.webhook_url is required")
	}
	return nil
}
