package detector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalBot/internal/model"
)

func volumeHistory(code string, volumes ...int64) []model.Sample {
	samples := make([]model.Sample, len(volumes))
	base := time.Date(2025, 9, 3, 9, 0, 0, 0, time.UTC)
	for i, v := range volumes {
		samples[i] = model.Sample{
			Code:      code,
			Price:     10,
			Volume:    v,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return samples
}

func TestDetect_PriceMovement(t *testing.T) {
	d := New(5.0, 2.0)

	tests := []struct {
		name          string
		changePercent float64
		wantSignal    bool
		wantSeverity  model.Severity
		wantContains  string
	}{
		{"below threshold", 2.0, false, "", ""},
		{"down move at medium", -6.0, true, model.SeverityMedium, "跌停预警"},
		{"up move at high", 9.0, true, model.SeverityHigh, "涨停预警"},
		{"exactly at threshold", 5.0, true, model.SeverityMedium, "涨停预警"},
		{"exactly at high boundary", -8.0, true, model.SeverityHigh, "跌停预警"},
		{"zero change", 0, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote := model.Quote{Code: "600000", ChangePercent: tt.changePercent}
			signals := d.Detect(quote, nil)
			if !tt.wantSignal {
				assert.Empty(t, signals)
				return
			}
			require.Len(t, signals, 1)
			s := signals[0]
			assert.Equal(t, model.SignalPriceMovement, s.Kind)
			assert.Equal(t, tt.wantSeverity, s.Severity)
			assert.Contains(t, s.Message, tt.wantContains)
		})
	}
}

func TestDetect_VolumeSpike(t *testing.T) {
	d := New(5.0, 2.0)
	history := volumeHistory("600000", 100, 120, 110, 90, 80) // avg 100

	// ratio 2.5 < 3 → medium
	quote := model.Quote{Code: "600000", Volume: 250}
	signals := d.Detect(quote, history)
	require.Len(t, signals, 1)
	assert.Equal(t, model.SignalVolumeSpike, signals[0].Kind)
	assert.Equal(t, model.SeverityMedium, signals[0].Severity)
	assert.InDelta(t, 2.5, signals[0].Value, 1e-9)
	assert.Contains(t, signals[0].Message, "2.5倍")

	// ratio 3.1 → high
	quote.Volume = 310
	signals = d.Detect(quote, history)
	require.Len(t, signals, 1)
	assert.Equal(t, model.SeverityHigh, signals[0].Severity)
	assert.InDelta(t, 3.1, signals[0].Value, 1e-9)
	assert.Contains(t, signals[0].Message, "3.1倍")
}

func TestDetect_VolumeSpike_StrictlyAboveThreshold(t *testing.T) {
	d := New(5.0, 2.0)
	history := volumeHistory("600000", 100, 120, 110, 90, 80)

	// exactly avg * threshold does not fire
	quote := model.Quote{Code: "600000", Volume: 200}
	assert.Empty(t, d.Detect(quote, history))
}

func TestDetect_VolumeSpike_ShortHistoryDivisor(t *testing.T) {
	d := New(5.0, 2.0)

	// Two samples only: divisor is 2, not 5.
	history := volumeHistory("600000", 40, 60) // avg 50
	quote := model.Quote{Code: "600000", Volume: 150}
	signals := d.Detect(quote, history)
	require.Len(t, signals, 1)
	assert.InDelta(t, 3.0, signals[0].Value, 1e-9)
	assert.Equal(t, model.SeverityHigh, signals[0].Severity)
}

func TestDetect_VolumeSpike_UsesMostRecentFive(t *testing.T) {
	d := New(5.0, 2.0)

	// Seven samples, most-recent-last: only the final five (avg 100) count.
	history := volumeHistory("600000", 100000, 100000, 100, 120, 110, 90, 80)
	quote := model.Quote{Code: "600000", Volume: 250}
	signals := d.Detect(quote, history)
	require.Len(t, signals, 1)
	assert.InDelta(t, 2.5, signals[0].Value, 1e-9)
}

func TestDetect_VolumeSpike_Guards(t *testing.T) {
	d := New(5.0, 2.0)

	// no history
	assert.Empty(t, d.Detect(model.Quote{Code: "600000", Volume: 250}, nil))
	// zero current volume
	assert.Empty(t, d.Detect(model.Quote{Code: "600000", Volume: 0}, volumeHistory("600000", 100)))
	// history with only zero volumes
	assert.Empty(t, d.Detect(model.Quote{Code: "600000", Volume: 250}, volumeHistory("600000", 0, 0)))
}

func TestDetect_TechnicalExtreme_NearHigh(t *testing.T) {
	d := New(5.0, 2.0)

	quote := model.Quote{Code: "600000", CurrentPrice: 99.9, HighPrice: 100.0, LowPrice: 95.0}
	signals := d.Detect(quote, nil)
	require.Len(t, signals, 1)
	assert.Equal(t, model.SignalTechnicalExtreme, signals[0].Kind)
	assert.Equal(t, model.SeverityHigh, signals[0].Severity)
	assert.Equal(t, "接近今日最高价", signals[0].Message)
}

func TestDetect_TechnicalExtreme_NearLow(t *testing.T) {
	d := New(5.0, 2.0)

	quote := model.Quote{Code: "600000", CurrentPrice: 100.0, HighPrice: 105.0, LowPrice: 99.5}
	signals := d.Detect(quote, nil)
	require.Len(t, signals, 1)
	assert.Equal(t, "接近今日最低价", signals[0].Message)
}

func TestDetect_TechnicalExtreme_HighWinsWhenRangeCollapses(t *testing.T) {
	d := New(5.0, 2.0)

	// High and low nearly coincide; only the near-high branch may fire.
	quote := model.Quote{Code: "600000", CurrentPrice: 99.9, HighPrice: 100.0, LowPrice: 99.85}
	signals := d.Detect(quote, nil)
	require.Len(t, signals, 1)
	assert.Equal(t, "接近今日最高价", signals[0].Message)
}

func TestDetect_TechnicalExtreme_ZeroFieldsDisable(t *testing.T) {
	d := New(5.0, 2.0)

	assert.Empty(t, d.Detect(model.Quote{Code: "600000", CurrentPrice: 0, HighPrice: 100, LowPrice: 95}, nil))
	assert.Empty(t, d.Detect(model.Quote{Code: "600000", CurrentPrice: 100, HighPrice: 0, LowPrice: 95}, nil))
	assert.Empty(t, d.Detect(model.Quote{Code: "600000", CurrentPrice: 100, HighPrice: 101, LowPrice: 0}, nil))
}

func TestDetect_ChecksAreIndependent(t *testing.T) {
	d := New(5.0, 2.0)

	// Price movement, volume spike and near-high all at once.
	quote := model.Quote{
		Code:          "600000",
		CurrentPrice:  99.9,
		HighPrice:     100.0,
		LowPrice:      90.0,
		ChangePercent: 9.5,
		Volume:        400,
	}
	signals := d.Detect(quote, volumeHistory("600000", 100, 120, 110, 90, 80))
	require.Len(t, signals, 3)

	kinds := map[model.SignalKind]bool{}
	for _, s := range signals {
		kinds[s.Kind] = true
	}
	assert.True(t, kinds[model.SignalPriceMovement])
	assert.True(t, kinds[model.SignalVolumeSpike])
	assert.True(t, kinds[model.SignalTechnicalExtreme])
}

func TestDetect_ZeroQuoteProducesNothing(t *testing.T) {
	d := New(5.0, 2.0)
	assert.Empty(t, d.Detect(model.Quote{Code: "600000"}, nil))
}

func TestDetectAll_OmitsQuietTickers(t *testing.T) {
	d := New(5.0, 2.0)
	quotes := map[string]model.Quote{
		"600000": {Code: "600000", ChangePercent: 9.0},
		"00700":  {Code: "00700", ChangePercent: 1.0},
	}
	signals := d.DetectAll(quotes, nil)
	assert.Contains(t, signals, "600000")
	assert.NotContains(t, signals, "00700")
}

func TestShouldNotify(t *testing.T) {
	d := New(5.0, 2.0)

	high := model.Signal{Severity: model.SeverityHigh}
	medium := model.Signal{Severity: model.SeverityMedium}

	assert.False(t, d.ShouldNotify(nil))
	assert.False(t, d.ShouldNotify(map[string][]model.Signal{}))

	// one high alone notifies
	assert.True(t, d.ShouldNotify(map[string][]model.Signal{"600000": {high}}))

	// one medium alone stays quiet
	assert.False(t, d.ShouldNotify(map[string][]model.Signal{"600000": {medium}}))

	// two mediums on different tickers notify
	assert.True(t, d.ShouldNotify(map[string][]model.Signal{
		"600000": {medium},
		"00700":  {medium},
	}))

	// two mediums on the same ticker notify too
	assert.True(t, d.ShouldNotify(map[string][]model.Signal{"600000": {medium, medium}}))
}

func TestNew_DefaultThresholds(t *testing.T) {
	d := New(0, 0)
	assert.Equal(t, DefaultPriceThreshold, d.priceThreshold)
	assert.Equal(t, DefaultVolumeThreshold, d.volumeThreshold)
}
