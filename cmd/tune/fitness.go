package main

import (
	"math"
	"sync"

	"github.com/pthm-cable/gridarena/config"
	"github.com/pthm-cable/gridarena/sim"
	"github.com/pthm-cable/gridarena/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
// Good parameters settle the arena quickly and keep it settled: items come
// to rest without jitter, without runaway speeds, and without the correction
// cap doing the integrator's job.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 2.0, // short windows so settle time resolves well
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Quality component weights.
const (
	qualityWeightResting = 0.5
	qualityWeightCalm    = 0.3
	qualityWeightClean   = 0.2

	qualityWarmupWindows = 2 // skip first N windows (spawn scatter)
)

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := fe.computeQuality(result.windowStats)
			results[idx] = seedResult{
				fitness: -quality,
				quality: quality,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}

	s, err := sim.New(sim.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return result
	}
	defer s.Unload()

	for s.Tick() < fe.maxTicks {
		s.UpdateHeadless()
	}

	return result
}

// copyConfig creates a deep copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")

	cfg.Screen = fe.baseConfig.Screen
	cfg.Arena = fe.baseConfig.Arena
	cfg.Physics = fe.baseConfig.Physics
	cfg.Rotator = fe.baseConfig.Rotator
	cfg.Drifter = fe.baseConfig.Drifter
	cfg.Materials = fe.baseConfig.Materials
	cfg.Items = fe.baseConfig.Items
	cfg.Telemetry = fe.baseConfig.Telemetry

	return cfg
}

// computeQuality computes arena stability quality in [0, 1] from window
// stats. Three components: how many items reach rest, how calm the velocity
// field is, and how rarely the safety mechanisms fire.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var restingSum, calmSum, cleanSum float64
	var count int

	for _, w := range valid {
		if w.Items == 0 {
			continue
		}
		count++

		// 1. Resting fraction at window end
		restingSum += float64(w.Resting) / float64(w.Items)

		// 2. Calmness: low median speed relative to resting threshold scale
		calmSum += math.Exp(-w.SpeedP50 / 2.0)

		// 3. Cleanliness: speed clamps and capped corrections mean the
		// tuning is fighting the integrator
		interventions := float64(w.SpeedClamps + w.CappedCorrections)
		cleanSum += math.Exp(-interventions / float64(w.Items))
	}

	if count == 0 {
		return 0
	}
	n := float64(count)

	quality := qualityWeightResting*(restingSum/n) +
		qualityWeightCalm*(calmSum/n) +
		qualityWeightClean*(cleanSum/n)

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
