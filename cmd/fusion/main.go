// fusion is a sliding-tile merging game for the terminal, SSH and HTTP.
//
// Usage:
//
//	fusion list               - List game modes
//	fusion play [mode]        - Play a mode (classic, target, time_attack)
//	fusion menu               - Pick modes, scores and saves interactively
//	fusion scores [mode]      - Show high scores
//	fusion saves              - List or delete saved games
//	fusion serve              - Start the SSH and HTTP servers
//
// Global flags:
//
//	--config <path>    - Config file (default: ~/.fusion/configs/fusion.yaml)
//	--fps <rate>       - Set tick rate (default: 60)
//	--seed <value>     - Set RNG seed for reproducible gameplay
//	--db <path>        - Set database path (default: ~/.fusion/scores.db)
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fusion2048/internal/config"
	_ "github.com/vovakirdan/fusion2048/internal/games/fusion" // registers the modes
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	// Loaded before every command runs.
	settings config.FusionConfig
	logger   *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fusion",
	Short: "Fusion - slide and merge tiles in your terminal",
	Long: `Fusion is a sliding-tile merging game. Slide the board in one of four
directions; equal tiles merge and a new tile appears after every move.

Modes:
  classic      - Reach the goal, then keep going until the board locks up
  target       - Reach the target tile to win, level by level
  time_attack  - Score as much as you can before the clock runs out

Examples:
  fusion play
  fusion play target --level 3
  fusion play time_attack --difficulty easy
  fusion menu
  fusion serve --ssh :2222 --http :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the configuration and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fusion",
		Level:           level,
	})

	settings, err = config.LoadFusion(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		settings.Storage.DBPath = flagDBPath
	}
	if flagFPS <= 0 {
		return fmt.Errorf("invalid --fps %d", flagFPS)
	}
	return nil
}

// fail prints an error and exits.
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
