package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fusion2048/internal/config"
	"github.com/vovakirdan/fusion2048/internal/games/fusion"
	"github.com/vovakirdan/fusion2048/internal/platform/tui"
	"github.com/vovakirdan/fusion2048/internal/storage"
)

var (
	flagGrid       int
	flagGoal       int
	flagTimeLimit  int
	flagDifficulty string
	flagLevel      int
	flagResume     string
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game",
	Long: `Start playing the given mode (default: the configured mode).

Controls:
  Arrows/WASD/HJKL  - Slide
  P/Space           - Pause
  Ctrl+S            - Save the game
  R                 - Restart (after game over)
  Esc/B             - Back (when paused or over)
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - 6x6 board, 5% fours
  normal - 5x5 board, 10% fours
  hard   - 4x4 board, 20% fours

Target mode uses its level ladder for goal and odds; pick the level
with --level or from the selector shown when the flag is missing.

Examples:
  fusion play
  fusion play classic --grid 4 --goal 2048
  fusion play target --level 5
  fusion play time_attack --time-limit 60
  fusion play --resume 3f9a21c0`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagGrid, "grid", 0, "Board size (2-8)")
	playCmd.Flags().IntVar(&flagGoal, "goal", 0, "Goal tile")
	playCmd.Flags().IntVar(&flagTimeLimit, "time-limit", 0, "Time attack limit in seconds")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().IntVar(&flagLevel, "level", 1, "Target mode starting level (1-10)")
	playCmd.Flags().StringVar(&flagResume, "resume", "", "Resume a saved game by ID")
}

func runPlay(cmd *cobra.Command, args []string) {
	if flagResume != "" {
		resumeGame(flagResume)
		return
	}

	modeArg := settings.Game.Mode
	if len(args) > 0 {
		modeArg = args[0]
	}
	gameID, err := resolveGameID(modeArg)
	if err != nil {
		fail("%v", err)
	}

	preset, err := config.ParseDifficulty(flagDifficulty)
	if err != nil {
		fail("%v", err)
	}
	config.ApplyFusionPreset(&settings, preset)
	if flagGrid != 0 {
		settings.Game.GridSize = flagGrid
	}
	if flagGoal != 0 {
		settings.Game.GoalValue = flagGoal
	}
	if flagTimeLimit != 0 {
		settings.Game.TimeLimitSecs = flagTimeLimit
	}
	if err := settings.Validate(); err != nil {
		fail("%v", err)
	}

	cfg := runtimeConfig()

	level := flagLevel - 1
	if gameID == fusion.IDTarget && !cmd.Flags().Changed("level") {
		level, err = tui.RunLevelSelector(cfg)
		if err != nil {
			fail("%v", err)
		}
		if level < 0 {
			return
		}
	}
	if level < 0 || level >= fusion.LevelCount() {
		fail("level must be between 1 and %d", fusion.LevelCount())
	}

	env, closeEnv := localEnv()
	game, err := tui.NewGame(env, tui.GameSetup{GameID: gameID, Level: level})
	if err != nil {
		closeEnv()
		fail("creating game: %v", err)
	}

	runErr := tui.Run(game, env, cfg, "")
	closeEnv()
	if runErr != nil {
		fail("running game: %v", runErr)
	}
}

// resumeGame continues a saved game from the save store.
func resumeGame(id string) {
	env, closeEnv := localEnv()
	if env.Saves == nil {
		closeEnv()
		fail("saved games are not available")
	}

	saved, err := env.Saves.LoadGame(context.Background(), id)
	if err != nil {
		closeEnv()
		if errors.Is(err, storage.ErrSaveNotFound) {
			fmt.Fprintf(os.Stderr, "Error: no saved game %q\n", id)
			fmt.Fprintln(os.Stderr, "Run 'fusion saves' to see saved games.")
			os.Exit(1)
		}
		fail("loading %s: %v", id, err)
	}

	game, err := tui.NewGame(env, tui.GameSetup{Resume: saved})
	if err != nil {
		closeEnv()
		fail("%v", err)
	}

	runErr := tui.Run(game, env, runtimeConfig(), saved.ID)
	closeEnv()
	if runErr != nil {
		fail("running game: %v", runErr)
	}
}
