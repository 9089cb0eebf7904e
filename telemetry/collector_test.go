package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindowBoundaries(t *testing.T) {
	// 2-second windows at dt=1/60 is 120 ticks.
	c := NewCollector(2.0, 1.0/60)

	if c.ShouldFlush(119) {
		t.Error("flushed before window elapsed")
	}
	if !c.ShouldFlush(120) {
		t.Error("did not flush at window boundary")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	// A window shorter than one tick still flushes every tick.
	c := NewCollector(0.001, 1.0/60)

	if !c.ShouldFlush(1) {
		t.Error("sub-tick window did not flush")
	}
}

func TestCollectorFlushAndReset(t *testing.T) {
	c := NewCollector(2.0, 1.0/60)

	c.RecordBounces(3)
	c.RecordRestingTicks(40)
	c.RecordSpeedClamps(1)
	c.RecordHardClamps(2)
	c.RecordCappedCorrections(5)
	c.RecordSkippedItems(1)
	c.RecordDriftRetargets(7)

	var stats WindowStats
	c.Flush(120, &stats)

	if stats.WindowStartTick != 0 || stats.WindowEndTick != 120 {
		t.Errorf("window = [%d, %d], want [0, 120]", stats.WindowStartTick, stats.WindowEndTick)
	}
	// dt is carried as float32, so sim time lands near 2.0, not on it.
	if math.Abs(stats.SimTimeSec-2.0) > 1e-5 {
		t.Errorf("sim time = %v, want ~2.0", stats.SimTimeSec)
	}
	if stats.Bounces != 3 || stats.RestingTicks != 40 || stats.SpeedClamps != 1 ||
		stats.HardClamps != 2 || stats.CappedCorrections != 5 ||
		stats.SkippedItems != 1 || stats.DriftRetargets != 7 {
		t.Errorf("counters not carried into stats: %+v", stats)
	}

	// Counters reset; next window starts where this one ended.
	var next WindowStats
	c.Flush(240, &next)
	if next.WindowStartTick != 120 {
		t.Errorf("next window start = %d, want 120", next.WindowStartTick)
	}
	if next.Bounces != 0 || next.DriftRetargets != 0 {
		t.Errorf("counters not reset: %+v", next)
	}
}
