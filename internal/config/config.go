// Package config provides YAML-based configuration loading and difficulty
// presets for the fusion game and its servers.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/fusion2048/internal/engine"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

// FusionConfig contains all configuration for the game, its storage and
// the network servers.
type FusionConfig struct {
	Game      GameConfig      `yaml:"game"`
	Animation AnimationConfig `yaml:"animation"`
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
}

// GameConfig defines the rules of a new game.
type GameConfig struct {
	Mode          string  `yaml:"mode"`            // classic, target or time_attack
	GridSize      int     `yaml:"grid_size"`       // Board dimension, 2..8
	GoalValue     int     `yaml:"goal_value"`      // Tile that reaches the goal
	Spawn4Prob    float64 `yaml:"spawn4_prob"`     // Probability of a 4 on spawn
	TimeLimitSecs int     `yaml:"time_limit_secs"` // Time attack only
}

// AnimationConfig defines animation lengths in simulation ticks.
type AnimationConfig struct {
	SlideTicks int `yaml:"slide_ticks"`
	PopTicks   int `yaml:"pop_ticks"`
}

// StorageConfig locates persistent storage.
type StorageConfig struct {
	DBPath       string `yaml:"db_path"`        // SQLite file; empty means ~/.fusion/scores.db
	RedisURL     string `yaml:"redis_url"`      // Optional, enables the redis save store
	SaveTTLHours int    `yaml:"save_ttl_hours"` // Expiry of redis saves, 0 keeps them
}

// ServerConfig defines listen addresses for `fusion serve`.
type ServerConfig struct {
	SSHAddr         string `yaml:"ssh_addr"`
	HTTPAddr        string `yaml:"http_addr"`
	HostKeyPath     string `yaml:"host_key_path"`
	IdleTimeoutMins int    `yaml:"idle_timeout_mins"`
}

// Engine converts the game section to an engine configuration.
func (c GameConfig) Engine() engine.Config {
	return engine.Config{
		Mode:       engine.Mode(c.Mode),
		GridSize:   c.GridSize,
		GoalValue:  c.GoalValue,
		Spawn4Prob: c.Spawn4Prob,
		TimeLimit:  time.Duration(c.TimeLimitSecs) * time.Second,
	}
}

// SaveTTL returns the redis save expiry.
func (c StorageConfig) SaveTTL() time.Duration {
	return time.Duration(c.SaveTTLHours) * time.Hour
}

// IdleTimeout returns the SSH idle timeout.
func (c ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMins) * time.Minute
}

// Validate rejects values the game cannot run with.
func (c FusionConfig) Validate() error {
	g := c.Game
	if _, err := engine.ParseMode(g.Mode); err != nil {
		return fmt.Errorf("%w: game.mode %q", ErrInvalidConfig, g.Mode)
	}
	if g.GridSize < 2 || g.GridSize > engine.MaxGridSize {
		return fmt.Errorf("%w: game.grid_size %d (want 2..%d)", ErrInvalidConfig, g.GridSize, engine.MaxGridSize)
	}
	if g.GoalValue < 4 || g.GoalValue&(g.GoalValue-1) != 0 {
		return fmt.Errorf("%w: game.goal_value %d (want a power of two >= 4)", ErrInvalidConfig, g.GoalValue)
	}
	if g.Spawn4Prob < 0 || g.Spawn4Prob > 1 {
		return fmt.Errorf("%w: game.spawn4_prob %v", ErrInvalidConfig, g.Spawn4Prob)
	}
	if g.TimeLimitSecs < 0 {
		return fmt.Errorf("%w: game.time_limit_secs %d", ErrInvalidConfig, g.TimeLimitSecs)
	}
	if c.Animation.SlideTicks < 0 || c.Animation.PopTicks < 0 {
		return fmt.Errorf("%w: negative animation length", ErrInvalidConfig)
	}
	if c.Storage.SaveTTLHours < 0 || c.Server.IdleTimeoutMins < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParseDifficulty parses a preset name. Empty means no preset.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	}
	return "", fmt.Errorf("%w: difficulty %q (want easy, normal or hard)", ErrInvalidConfig, s)
}

// ApplyFusionPreset modifies the game section for a difficulty preset.
// A larger board leaves more room to recover, fewer 4s keep merges
// predictable.
func ApplyFusionPreset(cfg *FusionConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Game.GridSize = 6
		cfg.Game.Spawn4Prob = 0.05
	case DifficultyNormal:
		cfg.Game.GridSize = 5
		cfg.Game.Spawn4Prob = 0.10
	case DifficultyHard:
		cfg.Game.GridSize = 4
		cfg.Game.Spawn4Prob = 0.20
	}
}
