package model

import "time"

// SignalKind classifies what a detection rule observed.
type SignalKind string

const (
	SignalPriceMovement    SignalKind = "price_movement"
	SignalVolumeSpike      SignalKind = "volume_spike"
	SignalTechnicalExtreme SignalKind = "technical_extreme"
)

// Severity ranks a signal for the notification policy.
type Severity string

const (
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Signal is one typed observation produced by the detector for one ticker in
// one cycle. Signals are never persisted; they feed the notify decision and
// the alert formatter, then are discarded.
type Signal struct {
	Code       string
	Kind       SignalKind
	Severity   Severity
	Message    string
	Value      float64
	DetectedAt time.Time
}
