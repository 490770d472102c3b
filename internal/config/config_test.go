package config

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/san-kum/blobsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Body.NodeCount < physics.MinNodes {
		t.Errorf("default node count %d too small", cfg.Body.NodeCount)
	}
	if !cfg.Body.Gravity {
		t.Error("gravity should default on")
	}
	if cfg.RunConfig().Dt() != DefaultAnimationSpeed/100 {
		t.Errorf("dt should be animation speed / 100, got %f", cfg.RunConfig().Dt())
	}
}

func TestEffectiveRadius(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Body.NodeCount = 12
	if r := cfg.EffectiveRadius(); r != 12 {
		t.Errorf("radius should follow node count, got %f", r)
	}

	cfg.Body.Radius = 50
	if r := cfg.EffectiveRadius(); r != 50 {
		t.Errorf("explicit radius ignored, got %f", r)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"two nodes", func(c *Config) { c.Body.NodeCount = 2 }},
		{"negative radius", func(c *Config) { c.Body.Radius = -1 }},
		{"zero mass", func(c *Config) { c.Body.Mass = 0 }},
		{"zero speed", func(c *Config) { c.Sim.AnimationSpeed = 0 }},
		{"zero width", func(c *Config) { c.Sim.Width = 0 }},
		{"negative height", func(c *Config) { c.Sim.Height = -10 }},
		{"negative ticks", func(c *Config) { c.Sim.Ticks = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if _, err := cfg.NewBody(); err == nil {
				t.Error("NewBody should refuse an invalid config")
			}
		})
	}
}

func TestNewBody(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Body.NodeCount = 8
	cfg.Body.Radius = 50

	body, err := cfg.NewBody()
	if err != nil {
		t.Fatalf("NewBody failed: %v", err)
	}
	if body.Len() != 8 {
		t.Errorf("expected 8 nodes, got %d", body.Len())
	}
	if got := body.Config(); got != cfg.PhysicsConfig() {
		t.Errorf("body config %+v, want %+v", got, cfg.PhysicsConfig())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.yaml")

	cfg := DefaultConfig()
	cfg.Body.NodeCount = 16
	cfg.Body.Gravity = false
	cfg.Sim.Seed = 7

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("body:\n  node_count: 6\n  gravity: false\nsim:\n  animation_speed: 2.5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Body.NodeCount != 6 || cfg.Body.Gravity {
		t.Errorf("file values not applied: %+v", cfg.Body)
	}
	if cfg.Body.SpringConstant != physics.DefaultStiffness {
		t.Errorf("unset spring constant should keep default, got %f", cfg.Body.SpringConstant)
	}
	if cfg.Sim.AnimationSpeed != 2.5 {
		t.Errorf("expected animation speed 2.5, got %f", cfg.Sim.AnimationSpeed)
	}
}

func TestLoadOverKeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("body:\n  pressure: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("jelly")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Body.Pressure != 3 {
		t.Errorf("file value not applied, pressure %f", cfg.Body.Pressure)
	}
	if cfg.Body.NodeCount != 32 || cfg.Body.SpringDamping != 0.3 {
		t.Errorf("preset values lost: %+v", cfg.Body)
	}
	if base.Body.Pressure != 0.5 {
		t.Errorf("base must not be modified, pressure %f", base.Body.Pressure)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("body:\n  node_count: 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("drop")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Body.NodeCount != 8 || cfg.Body.Radius != 50 {
		t.Errorf("drop preset not applied: %+v", cfg.Body)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("drop preset invalid: %v", err)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, n := range names {
		if err := GetPreset(n).Validate(); err != nil {
			t.Errorf("preset %s invalid: %v", n, err)
		}
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("pressure", 3); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if cfg.Body.Pressure != 3 {
		t.Errorf("expected pressure 3, got %f", cfg.Body.Pressure)
	}
	if err := cfg.Set("x", 150); err != nil || cfg.Origin().X != 150 {
		t.Errorf("expected origin x 150, got %f (%v)", cfg.Origin().X, err)
	}
	if err := cfg.Set("bogus", 1); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if len(ParamNames()) != len(Params) {
		t.Error("ParamNames should list every parameter")
	}
}
