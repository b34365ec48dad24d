package calculator

import "SignalBot/internal/model"

// RecentAverageVolume returns the mean volume of the most recent n samples,
// or of all samples when fewer than n exist (the divisor shrinks with the
// available history). Samples are expected most-recent-last. Returns 0 for
// empty input.
func RecentAverageVolume(samples []model.Sample, n int) float64 {
	if len(samples) == 0 || n <= 0 {
		return 0
	}
	start := len(samples) - n
	if start < 0 {
		start = 0
	}
	window := samples[start:]
	var sum float64
	for _, s := range window {
		sum += float64(s.Volume)
	}
	return sum / float64(len(window))
}
