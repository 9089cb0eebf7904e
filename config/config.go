// Package config provides configuration loading and access for the arena
// simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig     `yaml:"screen"`
	Arena     ArenaConfig      `yaml:"arena"`
	Physics   PhysicsConfig    `yaml:"physics"`
	Rotator   RotatorConfig    `yaml:"rotator"`
	Drifter   DrifterConfig    `yaml:"drifter"`
	Materials []MaterialConfig `yaml:"materials"`
	Items     []ItemConfig     `yaml:"items"`
	Telemetry TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the viewer.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	CellPixels int `yaml:"cell_pixels"` // pixels per grid cell
}

// ArenaConfig holds the arena grid dimensions. The traversable boundary for
// an item's pose anchor is the grid size minus one cell on each max side.
type ArenaConfig struct {
	Width  int  `yaml:"width"`  // cells
	Height int  `yaml:"height"` // cells
	Bounce bool `yaml:"bounce"` // false = legacy clamp-only fallback
}

// PhysicsConfig holds integrator tuning parameters. Units are grid cells
// and seconds unless noted.
type PhysicsConfig struct {
	DT                 float64 `yaml:"dt"`                   // seconds per tick
	MaxSpeed           float64 `yaml:"max_speed"`            // global linear speed clamp
	CorrectionCap      float64 `yaml:"correction_cap"`       // max MTV correction per tick
	RestingFrames      int     `yaml:"resting_frames"`       // contact persistence before resting
	RestingSpeed       float64 `yaml:"resting_speed"`        // speed threshold for resting
	Slop               float64 `yaml:"slop"`                 // tolerated resting penetration
	RestingCorrection  float64 `yaml:"resting_correction"`   // fraction of beyond-slop penetration corrected
	ContactEpsilon     float64 `yaml:"contact_epsilon"`      // post-bounce separation nudge
	TangentialRestDamp float64 `yaml:"tangential_rest_damp"` // tangential damping while resting
	NormalDot          float64 `yaml:"normal_dot"`           // dot threshold for same-contact persistence
	RestitutionDefault float64 `yaml:"restitution_default"`
	FrictionDefault    float64 `yaml:"friction_default"`
	SpinCoupling       float64 `yaml:"spin_coupling"` // fraction of rim speed bled into the tangent
}

// RotatorConfig holds defaults for the spin transformer.
type RotatorConfig struct {
	RateDegPerSec float64 `yaml:"rate_deg_per_sec"`
}

// DrifterConfig holds defaults for the drift transformer.
type DrifterConfig struct {
	Speed       float64 `yaml:"speed"`        // cells/s
	RetargetSec float64 `yaml:"retarget_sec"` // mean seconds between direction changes
	Margin      float64 `yaml:"margin"`       // boundary proximity that flips direction
}

// MaterialConfig is a named material preset assigned to item archetypes.
type MaterialConfig struct {
	Name           string  `yaml:"name"`
	Restitution    float64 `yaml:"restitution"`
	Friction       float64 `yaml:"friction"`
	LinearDamping  float64 `yaml:"linear_damping"`
	AngularDamping float64 `yaml:"angular_damping"`
}

// CollisionBoxConfig describes the impulse contact box for an archetype,
// distinct from the visual size.
type CollisionBoxConfig struct {
	OffsetX  float64 `yaml:"offset_x"`
	OffsetY  float64 `yaml:"offset_y"`
	HalfW    float64 `yaml:"half_w"`
	HalfH    float64 `yaml:"half_h"`
	Rotation float64 `yaml:"rotation"`
}

// DriftSpec enables drifting for an archetype, overriding drifter defaults
// where set.
type DriftSpec struct {
	Speed       float64 `yaml:"speed"`
	RetargetSec float64 `yaml:"retarget_sec"`
	Margin      float64 `yaml:"margin"`
}

// ItemConfig defines an item archetype spawned on arena load.
type ItemConfig struct {
	Name         string              `yaml:"name"`
	Kind         string              `yaml:"kind"` // obstacle | target | avatar
	Count        int                 `yaml:"count"`
	Width        float64             `yaml:"width"`  // cells
	Height       float64             `yaml:"height"` // cells
	Material     string              `yaml:"material"`
	CollisionBox *CollisionBoxConfig `yaml:"collision_box"`
	Spin         float64             `yaml:"spin"` // deg/s, 0 = no rotator
	Drift        *DriftSpec          `yaml:"drift"`
}

// TelemetryConfig holds stats collection parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks in the perf rolling window
}

// DerivedConfig holds values computed from the loaded config.
type DerivedConfig struct {
	DT32          float32
	MaterialIndex map[string]int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if
// path is empty. Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.MaterialIndex = make(map[string]int, len(c.Materials))
	for i, m := range c.Materials {
		c.Derived.MaterialIndex[m.Name] = i
	}
}

// Material returns the named material preset, or nil if unknown.
func (c *Config) Material(name string) *MaterialConfig {
	if i, ok := c.Derived.MaterialIndex[name]; ok {
		return &c.Materials[i]
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
