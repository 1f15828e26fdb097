package config

import (
	_ "embed"
)

//go:embed defaults/fusion.yaml
var defaultFusionYAML []byte

// DefaultFusionConfig returns the built-in configuration.
func DefaultFusionConfig() FusionConfig {
	return FusionConfig{
		Game: GameConfig{
			Mode:          "classic",
			GridSize:      5,
			GoalValue:     8192,
			Spawn4Prob:    0.10,
			TimeLimitSecs: 180,
		},
		Animation: AnimationConfig{
			SlideTicks: 8, // ~133ms at 60fps
			PopTicks:   6, // ~100ms at 60fps
		},
		Storage: StorageConfig{
			SaveTTLHours: 24 * 7,
		},
		Server: ServerConfig{
			SSHAddr:         ":23234",
			HTTPAddr:        ":8080",
			HostKeyPath:     ".ssh/fusion_ed25519",
			IdleTimeoutMins: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultFusionYAML
}
