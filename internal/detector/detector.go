package detector

import (
	"fmt"
	"math"
	"time"

	"SignalBot/internal/calculator"
	"SignalBot/internal/model"
)

// Default thresholds, overridable through config.
const (
	DefaultPriceThreshold  = 5.0 // percent
	DefaultVolumeThreshold = 2.0 // multiple of average volume
)

// highPriceChange is the |change%| at which a price movement escalates from
// medium to high severity.
const highPriceChange = 8.0

// highVolumeRatio is the current/average ratio at which a volume spike
// escalates to high severity.
const highVolumeRatio = 3.0

// extremeProximity is the strict relative distance that counts as "near" the
// session high or low.
const extremeProximity = 0.01

// volumeWindow is how many of the most recent history samples feed the
// average-volume divisor.
const volumeWindow = 5

// Detector turns one ticker's current quote plus its recent history into
// zero or more signals. It holds no mutable state and is safe to share.
type Detector struct {
	priceThreshold  float64
	volumeThreshold float64
}

// New creates a detector. Non-positive thresholds fall back to the defaults.
func New(priceThreshold, volumeThreshold float64) *Detector {
	if priceThreshold <= 0 {
		priceThreshold = DefaultPriceThreshold
	}
	if volumeThreshold <= 0 {
		volumeThreshold = DefaultVolumeThreshold
	}
	return &Detector{priceThreshold: priceThreshold, volumeThreshold: volumeThreshold}
}

// Detect runs the three rule checks against one quote. The checks are
// independent and order-insensitive; no check suppresses another. Zero-valued
// fields disable the checks that need them, producing fewer or no signals
// rather than an error.
func (d *Detector) Detect(quote model.Quote, history []model.Sample) []model.Signal {
	var signals []model.Signal
	signals = append(signals, d.detectPriceMovement(quote)...)
	signals = append(signals, d.detectVolumeSpike(quote, history)...)
	signals = append(signals, d.detectTechnicalExtreme(quote)...)
	return signals
}

// DetectAll runs Detect for every fetched quote and keeps only tickers that
// produced at least one signal.
func (d *Detector) DetectAll(quotes map[string]model.Quote, histories map[string][]model.Sample) map[string][]model.Signal {
	signals := make(map[string][]model.Signal)
	for code, quote := range quotes {
		if s := d.Detect(quote, histories[code]); len(s) > 0 {
			signals[code] = s
		}
	}
	return signals
}

func (d *Detector) detectPriceMovement(quote model.Quote) []model.Signal {
	magnitude := math.Abs(quote.ChangePercent)
	if magnitude < d.priceThreshold {
		return nil
	}
	direction := "跌停预警"
	if quote.ChangePercent > 0 {
		direction = "涨停预警"
	}
	severity := model.SeverityMedium
	if magnitude >= highPriceChange {
		severity = model.SeverityHigh
	}
	return []model.Signal{{
		Code:       quote.Code,
		Kind:       model.SignalPriceMovement,
		Severity:   severity,
		Message:    fmt.Sprintf("%s: 涨跌幅%+.2f%%", direction, quote.ChangePercent),
		Value:      magnitude,
		DetectedAt: time.Now(),
	}}
}

func (d *Detector) detectVolumeSpike(quote model.Quote, history []model.Sample) []model.Signal {
	if len(history) == 0 || quote.Volume == 0 {
		return nil
	}
	avg := calculator.RecentAverageVolume(history, volumeWindow)
	if avg <= 0 || float64(quote.Volume) <= avg*d.volumeThreshold {
		return nil
	}
	ratio := float64(quote.Volume) / avg
	severity := model.SeverityMedium
	if ratio >= highVolumeRatio {
		severity = model.SeverityHigh
	}
	return []model.Signal{{
		Code:       quote.Code,
		Kind:       model.SignalVolumeSpike,
		Severity:   severity,
		Message:    fmt.Sprintf("成交量异常: 是平均值的%.1f倍", ratio),
		Value:      ratio,
		DetectedAt: time.Now(),
	}}
}

func (d *Detector) detectTechnicalExtreme(quote model.Quote) []model.Signal {
	cur, high, low := quote.CurrentPrice, quote.HighPrice, quote.LowPrice
	if cur <= 0 || high <= 0 || low <= 0 {
		return nil
	}
	// if/else if: when high and low nearly coincide only the high-side
	// signal fires, never both.
	if calculator.WithinRangeOf(cur, high, extremeProximity) {
		return []model.Signal{{
			Code:       quote.Code,
			Kind:       model.SignalTechnicalExtreme,
			Severity:   model.SeverityHigh,
			Message:    "接近今日最高价",
			Value:      (cur - high) / cur * 100,
			DetectedAt: time.Now(),
		}}
	} else if calculator.WithinRangeOf(cur, low, extremeProximity) {
		return []model.Signal{{
			Code:       quote.Code,
			Kind:       model.SignalTechnicalExtreme,
			Severity:   model.SeverityHigh,
			Message:    "接近今日最低价",
			Value:      (cur - low) / cur * 100,
			DetectedAt: time.Now(),
		}}
	}
	return nil
}

// ShouldNotify applies the anti-spam policy to a whole cycle's signals:
// notify on any high-severity signal, or on two or more medium-severity
// signals across all tickers. Isolated medium noise stays quiet.
func (d *Detector) ShouldNotify(signals map[string][]model.Signal) bool {
	if len(signals) == 0 {
		return false
	}
	mediumCount := 0
	for _, stockSignals := range signals {
		for _, s := range stockSignals {
			switch s.Severity {
			case model.SeverityHigh:
				return true
			case model.SeverityMedium:
				mediumCount++
			}
		}
	}
	return mediumCount >= 2
}
