package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fusionFile = "fusion.yaml"

// LoadFusion loads the configuration.
// Search order: customPath -> ~/.fusion/configs/fusion.yaml -> ./configs/fusion.yaml -> embedded default.
// Files are decoded over DefaultFusionConfig, so a partial file only
// overrides the keys it sets. The result is validated.
func LoadFusion(customPath string) (FusionConfig, error) {
	cfg := DefaultFusionConfig()

	// A custom path must exist and parse
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{userConfigPath(fusionFile), filepath.Join("configs", fusionFile)} {
		if path == "" {
			continue
		}
		if loaded, ok := tryLoad(path); ok {
			return loaded, nil
		}
	}

	if err := yaml.Unmarshal(defaultFusionYAML, &cfg); err != nil {
		return DefaultFusionConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// tryLoad reads an optional config file. Unreadable, unparsable or invalid
// files are skipped so the next location is tried.
func tryLoad(path string) (FusionConfig, bool) {
	cfg := DefaultFusionConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, false
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	if cfg.Validate() != nil {
		return cfg, false
	}
	return cfg, true
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fusion", "configs", filename)
}

// DataDir returns ~/.fusion, creating it if needed.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, ".fusion")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dir, nil
}
