package tui

import (
	"fmt"

	"github.com/vovakirdan/fusion2048/internal/config"
	"github.com/vovakirdan/fusion2048/internal/games/fusion"
	"github.com/vovakirdan/fusion2048/internal/registry"
	"github.com/vovakirdan/fusion2048/internal/storage"
)

// Env is what every screen of a session shares.
type Env struct {
	// Scores records finished games. Nil disables the scoreboard.
	Scores *storage.Store

	// Saves keeps games saved with Ctrl+S. Nil disables saving.
	Saves storage.GameStore

	Settings config.FusionConfig
}

// GameSetup selects what NewGame builds.
type GameSetup struct {
	GameID string
	Level  int // target-mode level, 0-based

	// Resume continues a saved game instead of starting a new one.
	Resume *storage.SavedGame
}

// NewGame creates and configures a registered game.
func NewGame(env Env, setup GameSetup) (registry.Game, error) {
	id := setup.GameID
	if setup.Resume != nil {
		id = setup.Resume.GameID
	}

	game, err := registry.Create(id)
	if err != nil {
		return nil, err
	}

	if fg, ok := game.(*fusion.Game); ok {
		fg.Configure(env.Settings.Game.Engine())
		fg.SetAnimation(env.Settings.Animation.SlideTicks, env.Settings.Animation.PopTicks)
		fg.SetLevel(setup.Level)
		if setup.Resume != nil {
			if setup.Resume.State == nil {
				return nil, fmt.Errorf("saved game %s has no state", setup.Resume.ID)
			}
			fg.Resume(setup.Resume.State)
		}
	}
	return game, nil
}
