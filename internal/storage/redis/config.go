package redis

import "time"

// Config holds Redis connection and expiry settings.
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379/0)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// SaveTTL expires saved games that are not touched again. 0 keeps them.
	SaveTTL time.Duration
}

// DefaultConfig returns defaults for a local Redis.
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		SaveTTL:      7 * 24 * time.Hour,
	}
}
