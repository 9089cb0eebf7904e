// Package telemetry aggregates simulation statistics into time windows and
// writes them as CSV, plus a rolling perf tracker for per-phase timing.
package telemetry

import "math"

// Collector accumulates physics events within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	bounces           int
	restingTicks      int
	speedClamps       int
	hardClamps        int
	cappedCorrections int
	skippedItems      int
	driftRetargets    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	// Rounded, not truncated: a 2s window at float32 dt=1/60 divides to
	// 119.999..., which would otherwise flush a tick early.
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordBounces adds impulse-resolved boundary impacts.
func (c *Collector) RecordBounces(n int) {
	c.bounces += n
}

// RecordRestingTicks adds item-ticks spent in the resting branch.
func (c *Collector) RecordRestingTicks(n int) {
	c.restingTicks += n
}

// RecordSpeedClamps adds global velocity clamp activations.
func (c *Collector) RecordSpeedClamps(n int) {
	c.speedClamps += n
}

// RecordHardClamps adds clamp-only fallback corrections (bounce disabled).
func (c *Collector) RecordHardClamps(n int) {
	c.hardClamps += n
}

// RecordCappedCorrections adds MTV corrections limited by the cap.
func (c *Collector) RecordCappedCorrections(n int) {
	c.cappedCorrections += n
}

// RecordSkippedItems adds items skipped for malformed data.
func (c *Collector) RecordSkippedItems(n int) {
	c.skippedItems += n
}

// RecordDriftRetargets adds drifter direction changes.
func (c *Collector) RecordDriftRetargets(n int) {
	c.driftRetargets += n
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush fills the event-count fields of stats from the current window and
// resets the counters for the next one.
func (c *Collector) Flush(currentTick int32, stats *WindowStats) {
	stats.WindowStartTick = c.windowStartTick
	stats.WindowEndTick = currentTick
	stats.SimTimeSec = float64(currentTick) * float64(c.dt)
	stats.Bounces = c.bounces
	stats.RestingTicks = c.restingTicks
	stats.SpeedClamps = c.speedClamps
	stats.HardClamps = c.hardClamps
	stats.CappedCorrections = c.cappedCorrections
	stats.SkippedItems = c.skippedItems
	stats.DriftRetargets = c.driftRetargets

	c.windowStartTick = currentTick
	c.bounces = 0
	c.restingTicks = 0
	c.speedClamps = 0
	c.hardClamps = 0
	c.cappedCorrections = 0
	c.skippedItems = 0
	c.driftRetargets = 0
}
