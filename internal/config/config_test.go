package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/fusion2048/internal/engine"
)

func TestEmbeddedDefaultsMatchCode(t *testing.T) {
	var fromYAML FusionConfig
	if err := yaml.Unmarshal(DefaultYAML(), &fromYAML); err != nil {
		t.Fatalf("embedded yaml: %v", err)
	}
	if fromYAML != DefaultFusionConfig() {
		t.Errorf("embedded defaults differ:\n%+v\n%+v", fromYAML, DefaultFusionConfig())
	}
	if err := fromYAML.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadFusionCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fusion.yaml")
	data := []byte("game:\n  mode: time_attack\n  grid_size: 4\n  time_limit_secs: 60\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFusion(path)
	if err != nil {
		t.Fatalf("LoadFusion: %v", err)
	}
	if cfg.Game.Mode != "time_attack" || cfg.Game.GridSize != 4 {
		t.Errorf("game = %+v", cfg.Game)
	}
	// unset keys keep their defaults
	if cfg.Game.GoalValue != 8192 || cfg.Server.HTTPAddr != ":8080" {
		t.Errorf("defaults lost: goal=%d http=%q", cfg.Game.GoalValue, cfg.Server.HTTPAddr)
	}

	ec := cfg.Game.Engine()
	if ec.Mode != engine.ModeTimeAttack || ec.TimeLimit != time.Minute {
		t.Errorf("engine config = %+v", ec)
	}
}

func TestLoadFusionErrors(t *testing.T) {
	if _, err := LoadFusion(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom file should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("game:\n  grid_size: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFusion(path); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*FusionConfig)
	}{
		{"unknown mode", func(c *FusionConfig) { c.Game.Mode = "zen" }},
		{"grid too small", func(c *FusionConfig) { c.Game.GridSize = 1 }},
		{"grid too large", func(c *FusionConfig) { c.Game.GridSize = 9 }},
		{"goal not a power of two", func(c *FusionConfig) { c.Game.GoalValue = 1000 }},
		{"spawn probability", func(c *FusionConfig) { c.Game.Spawn4Prob = 2 }},
		{"negative time", func(c *FusionConfig) { c.Game.TimeLimitSecs = -1 }},
		{"negative ttl", func(c *FusionConfig) { c.Storage.SaveTTLHours = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultFusionConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestApplyFusionPreset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		grid   int
		spawn4 float64
	}{
		{DifficultyEasy, 6, 0.05},
		{DifficultyNormal, 5, 0.10},
		{DifficultyHard, 4, 0.20},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultFusionConfig()
			ApplyFusionPreset(&cfg, tt.preset)
			if cfg.Game.GridSize != tt.grid || cfg.Game.Spawn4Prob != tt.spawn4 {
				t.Errorf("got grid %d spawn4 %v", cfg.Game.GridSize, cfg.Game.Spawn4Prob)
			}
		})
	}

	if _, err := ParseDifficulty("nightmare"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParseDifficulty err = %v", err)
	}
}
