package sim

import (
	"math"
	"sort"

	"github.com/pthm-cable/gridarena/telemetry"
)

// Step advances the simulation by a single tick of dtSec seconds. All
// subscribed systems run in pipeline order; a zero dt ticks the clock but
// changes nothing and does not advance the tick counter.
func (s *Sim) Step(dtSec float32) {
	s.perf.StartTick()
	s.clock.Tick(dtSec)
	s.perf.EndTick()

	if dtSec <= 0 {
		return
	}
	s.tick++

	if s.collector.ShouldFlush(s.tick) {
		s.flushWindow()
	}
}

// Update advances the simulation for one viewer frame, honoring pause and
// the speed multiplier.
func (s *Sim) Update() {
	if !s.paused {
		for i := 0; i < s.speed; i++ {
			s.Step(s.cfg.Derived.DT32)
		}
	}
	s.perf.RecordFrame()
}

// UpdateHeadless advances the simulation by the configured batch of steps
// with no frame pacing.
func (s *Sim) UpdateHeadless() {
	for i := 0; i < s.opts.StepsPerUpdate; i++ {
		s.Step(s.cfg.Derived.DT32)
	}
}

// collectTick runs at the end of every tick as a telemetry subscriber. It
// drains the per-tick event counts into the window collector.
func (s *Sim) collectTick(dtSec float32) {
	if dtSec <= 0 {
		return
	}
	stats := s.integrator.Stats()
	s.collector.RecordBounces(stats.Bounces)
	s.collector.RecordRestingTicks(stats.Resting)
	s.collector.RecordSpeedClamps(stats.SpeedClamps)
	s.collector.RecordHardClamps(stats.HardClamps)
	s.collector.RecordCappedCorrections(stats.Capped)
	s.collector.RecordSkippedItems(stats.Skipped)
	s.collector.RecordDriftRetargets(s.drifter.Retargets())
}

// flushWindow closes the current stats window: samples the velocity
// distribution, writes CSV rows, and optionally logs.
func (s *Sim) flushWindow() {
	var stats telemetry.WindowStats
	s.collector.Flush(s.tick, &stats)

	tickStats := s.integrator.Stats()
	stats.Items = tickStats.Items
	stats.Resting = tickStats.Resting

	s.sampleVelocities(&stats)

	if err := s.output.WriteTelemetry(stats); err != nil {
		Logf("writing telemetry: %v", err)
	}
	if err := s.output.WritePerf(s.perf.Stats(), s.tick); err != nil {
		Logf("writing perf: %v", err)
	}

	if s.opts.LogStats {
		stats.LogStats()
	}
	if s.opts.StatsCallback != nil {
		s.opts.StatsCallback(stats)
	}
}

// sampleVelocities fills the speed distribution fields from the current
// physics states.
func (s *Sim) sampleVelocities(stats *telemetry.WindowStats) {
	var speeds []float64
	var speedSum, spinSum float64

	query := s.stateFilter.Query()
	for query.Next() {
		st := query.Get()
		speed := math.Hypot(float64(st.VX), float64(st.VY))
		speeds = append(speeds, speed)
		speedSum += speed
		spinSum += math.Abs(float64(st.Omega))
	}

	n := len(speeds)
	if n == 0 {
		return
	}
	sort.Float64s(speeds)

	stats.SpeedMean = speedSum / float64(n)
	stats.SpeedP50 = telemetry.Percentile(speeds, 0.5)
	stats.SpeedP90 = telemetry.Percentile(speeds, 0.9)
	stats.SpeedMax = speeds[n-1]
	stats.SpinMean = spinSum / float64(n)
}
