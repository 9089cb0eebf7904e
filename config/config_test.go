package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}

	if cfg.Arena.Width != 24 || cfg.Arena.Height != 16 {
		t.Errorf("arena = %dx%d, want 24x16", cfg.Arena.Width, cfg.Arena.Height)
	}
	if !cfg.Arena.Bounce {
		t.Error("bounce should default on")
	}
	if cfg.Physics.RestitutionDefault != 0.85 {
		t.Errorf("restitution default = %v, want 0.85", cfg.Physics.RestitutionDefault)
	}
	if cfg.Physics.RestingFrames != 3 {
		t.Errorf("resting frames = %d, want 3", cfg.Physics.RestingFrames)
	}
	if len(cfg.Materials) != 3 {
		t.Fatalf("materials = %d, want 3", len(cfg.Materials))
	}
	if len(cfg.Items) != 3 {
		t.Fatalf("item archetypes = %d, want 3", len(cfg.Items))
	}
}

func TestLoadComputesDerived(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Derived.DT32 != float32(cfg.Physics.DT) {
		t.Errorf("DT32 = %v, want %v", cfg.Derived.DT32, cfg.Physics.DT)
	}
	if len(cfg.Derived.MaterialIndex) != len(cfg.Materials) {
		t.Errorf("material index has %d entries, want %d", len(cfg.Derived.MaterialIndex), len(cfg.Materials))
	}
}

func TestMaterialLookup(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	ball := cfg.Material("ball")
	if ball == nil {
		t.Fatal("ball material missing")
	}
	if ball.Restitution != 0.85 || ball.Friction != 0.2 {
		t.Errorf("ball = %+v", ball)
	}

	if cfg.Material("granite") != nil {
		t.Error("unknown material should resolve to nil")
	}
}

func TestLoadOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	overlay := []byte("arena:\n  width: 40\nphysics:\n  restitution_default: 0.5\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading overlay: %v", err)
	}

	if cfg.Arena.Width != 40 {
		t.Errorf("overlaid width = %d, want 40", cfg.Arena.Width)
	}
	if cfg.Physics.RestitutionDefault != 0.5 {
		t.Errorf("overlaid restitution = %v, want 0.5", cfg.Physics.RestitutionDefault)
	}
	// Untouched fields keep their defaults.
	if cfg.Arena.Height != 16 {
		t.Errorf("height = %d, want default 16", cfg.Arena.Height)
	}
	if cfg.Physics.MaxSpeed != 200 {
		t.Errorf("max speed = %v, want default 200", cfg.Physics.MaxSpeed)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Arena.Width = 99

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reading written config: %v", err)
	}
	if back.Arena.Width != 99 {
		t.Errorf("round trip width = %d, want 99", back.Arena.Width)
	}
}
