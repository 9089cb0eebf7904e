// Package main provides CMA-ES tuning for arena physics parameters.
package main

import (
	"github.com/pthm-cable/gridarena/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable physics parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "restitution", Path: "physics.restitution_default", Min: 0.1, Max: 0.99, Default: 0.85},
			{Name: "friction", Path: "physics.friction_default", Min: 0.0, Max: 1.0, Default: 0.8},
			{Name: "resting_speed", Path: "physics.resting_speed", Min: 0.05, Max: 1.0, Default: 0.3},
			{Name: "resting_correction", Path: "physics.resting_correction", Min: 0.2, Max: 1.0, Default: 0.8},
			{Name: "tangential_rest_damp", Path: "physics.tangential_rest_damp", Min: 0.5, Max: 1.0, Default: 0.9},
			{Name: "spin_coupling", Path: "physics.spin_coupling", Min: 0.0, Max: 0.8, Default: 0.25},
			{Name: "correction_cap", Path: "physics.correction_cap", Min: 0.1, Max: 2.0, Default: 0.5},
			{Name: "slop", Path: "physics.slop", Min: 0.001, Max: 0.1, Default: 0.01},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	i := 0
	cfg.Physics.RestitutionDefault = clamped[i]; i++
	cfg.Physics.FrictionDefault = clamped[i]; i++
	cfg.Physics.RestingSpeed = clamped[i]; i++
	cfg.Physics.RestingCorrection = clamped[i]; i++
	cfg.Physics.TangentialRestDamp = clamped[i]; i++
	cfg.Physics.SpinCoupling = clamped[i]; i++
	cfg.Physics.CorrectionCap = clamped[i]; i++
	cfg.Physics.Slop = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Physics.RestitutionDefault,
		cfg.Physics.FrictionDefault,
		cfg.Physics.RestingSpeed,
		cfg.Physics.RestingCorrection,
		cfg.Physics.TangentialRestDamp,
		cfg.Physics.SpinCoupling,
		cfg.Physics.CorrectionCap,
		cfg.Physics.Slop,
	}
}
