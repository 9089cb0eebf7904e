package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/pthm-cable/gridarena/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// LogPerfStats prints a per-phase timing breakdown for the current perf
// window.
func (s *Sim) LogPerfStats() {
	stats := s.perf.Stats()
	Logf("=== Perf @ Tick %d (speed %dx) ===", s.tick, s.speed)
	Logf("Avg tick: %s (%.0f ticks/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond)

	for _, phase := range []string{
		telemetry.PhaseRotator,
		telemetry.PhaseDrifter,
		telemetry.PhaseIntegrator,
		telemetry.PhaseTelemetry,
	} {
		avg := stats.PhaseAvg[phase]
		pct := stats.PhasePct[phase]
		Logf("  %-12s %10s  %5.1f%%", s.registry.GetName(phase), avg.Round(time.Microsecond), pct)
	}

	if stats.FPS > 0 {
		Logf("  render: %s/frame (%.0f FPS)", stats.FrameDuration.Round(time.Microsecond), stats.FPS)
	}
}
