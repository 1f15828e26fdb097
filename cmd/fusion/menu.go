package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fusion2048/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick modes, scores and saves interactively",
	Long: `Start fusion in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select a mode.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter        - Select mode
  Tab          - High scores
  V            - Saved games
  Q            - Quit

Examples:
  fusion menu
  fusion menu --fps 30
  fusion menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	env, closeEnv := localEnv()
	err := tui.RunSession(env, runtimeConfig())
	closeEnv()
	if err != nil {
		fail("%v", err)
	}
}
