package telemetry

import "log/slog"

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Items   int `csv:"items"`
	Resting int `csv:"resting"`

	// Physics events during window
	Bounces           int `csv:"bounces"`
	RestingTicks      int `csv:"resting_ticks"`
	SpeedClamps       int `csv:"speed_clamps"`
	HardClamps        int `csv:"hard_clamps"`
	CappedCorrections int `csv:"capped_corrections"`
	SkippedItems      int `csv:"skipped_items"`
	DriftRetargets    int `csv:"drift_retargets"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
	SpeedMax  float64 `csv:"speed_max"`

	// Mean absolute angular velocity, deg/s
	SpinMean float64 `csv:"spin_mean"`
}

// LogStats emits the window via slog.
func (s WindowStats) LogStats() {
	slog.Info("window",
		"tick", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"items", s.Items,
		"resting", s.Resting,
		"bounces", s.Bounces,
		"speed_clamps", s.SpeedClamps,
		"capped_corrections", s.CappedCorrections,
		"speed_mean", s.SpeedMean,
		"speed_p90", s.SpeedP90,
	)
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
