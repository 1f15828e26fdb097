package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"github.com/vovakirdan/fusion2048/internal/config"
	"github.com/vovakirdan/fusion2048/internal/core"
	"github.com/vovakirdan/fusion2048/internal/engine"
	"github.com/vovakirdan/fusion2048/internal/games/fusion"
	"github.com/vovakirdan/fusion2048/internal/platform/tui"
	"github.com/vovakirdan/fusion2048/internal/registry"
	"github.com/vovakirdan/fusion2048/internal/storage"
	"github.com/vovakirdan/fusion2048/internal/storage/redis"
)

// stores holds the open persistence backends of a command.
type stores struct {
	scores *storage.Store
	saves  storage.GameStore
	redis  *redis.Store
}

// openStores opens the SQLite database and, when configured, the redis
// save store. redisURL overrides the config.
func openStores(redisURL string) (*stores, error) {
	dbPath := settings.Storage.DBPath
	if dbPath == "" {
		dir, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dir, "scores.db")
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}
	s := &stores{scores: db, saves: db}

	if redisURL == "" {
		redisURL = settings.Storage.RedisURL
	}
	if redisURL != "" {
		cfg := redis.DefaultConfig()
		cfg.URL = redisURL
		cfg.SaveTTL = settings.Storage.SaveTTL()
		rs, err := redis.New(cfg)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.redis = rs
		s.saves = rs
		logger.Debug("saved games in redis", "url", redisURL, "ttl", cfg.SaveTTL)
	}
	return s, nil
}

func (s *stores) Close() {
	if s.redis != nil {
		s.redis.Close()
	}
	s.scores.Close()
}

// env bundles the stores for the terminal UI.
func (s *stores) env() tui.Env {
	return tui.Env{Scores: s.scores, Saves: s.saves, Settings: settings}
}

// localEnv opens the stores for local play. Without a database the game
// still runs, it just cannot record anything.
func localEnv() (tui.Env, func()) {
	s, err := openStores("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open storage: %v\n", err)
		return tui.Env{Settings: settings}, func() {}
	}
	return s.env(), s.Close
}

// runtimeConfig sizes the simulation to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     seed,
	}
}

// resolveGameID accepts a mode name or a registry ID.
func resolveGameID(arg string) (string, error) {
	if registry.Exists(arg) {
		return arg, nil
	}
	mode, err := engine.ParseMode(arg)
	if err != nil {
		return "", fmt.Errorf("unknown mode %q (run 'fusion list')", arg)
	}
	return fusion.IDFor(mode), nil
}
