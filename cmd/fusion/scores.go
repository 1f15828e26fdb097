package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fusion2048/internal/platform/tui"
	"github.com/vovakirdan/fusion2048/internal/registry"
)

var (
	flagScoresLimit int
	flagScoresTUI   bool
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores",
	Long: `Display the top high scores for a mode, or a summary of every mode
when none is given.

Examples:
  fusion scores
  fusion scores target
  fusion scores classic --limit 25
  fusion scores --tui
  fusion scores time_attack --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores interactively")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the scores of the mode")
}

func runScores(_ *cobra.Command, args []string) {
	s, err := openStores("")
	if err != nil {
		fail("opening scores database: %v", err)
	}
	defer s.Close()

	if flagScoresTUI {
		cfg := runtimeConfig()
		if _, err := tui.RunScoreboard(s.scores, cfg.ScreenW, cfg.ScreenH); err != nil {
			fail("%v", err)
		}
		return
	}

	if len(args) == 0 {
		printSummary(s)
		return
	}

	gameID, err := resolveGameID(args[0])
	if err != nil {
		fail("%v", err)
	}

	if flagScoresClear {
		if err := s.scores.ClearScores(gameID); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Cleared scores for %s.\n", gameID)
		return
	}

	printTopScores(s, gameID)
}

func printTopScores(s *stores, gameID string) {
	scores, err := s.scores.TopScores(gameID, flagScoresLimit)
	if err != nil {
		fail("retrieving scores: %v", err)
	}

	title := gameID
	for _, g := range registry.List() {
		if g.ID == gameID {
			title = g.Title
		}
	}
	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'fusion play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %s\n", "Rank", "Score", "Max Tile", "Moves", "Date")
	fmt.Printf("  %-4s  %-8s  %-8s  %-6s  %s\n", "----", "-----", "--------", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-8d  %-8d  %-6d  %s\n",
			i+1, entry.Score, entry.MaxTile, entry.Moves, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := s.scores.GetGameStats(gameID); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  |  Best tile: %d  |  Games: %d  |  Average: %.0f\n",
			stats.HighScore, stats.BestTile, stats.GamesCount, stats.AvgScore)
	}
}

func printSummary(s *stores) {
	all, err := s.scores.GetAllGamesStats()
	if err != nil {
		fail("retrieving stats: %v", err)
	}
	if len(all) == 0 {
		fmt.Println("No scores recorded yet.")
		return
	}

	fmt.Printf("  %-20s  %-6s  %-8s  %-9s  %s\n", "Mode", "Games", "Best", "Best Tile", "Last Played")
	fmt.Printf("  %-20s  %-6s  %-8s  %-9s  %s\n", "----", "-----", "----", "---------", "-----------")
	for _, g := range registry.List() {
		st, ok := all[g.ID]
		if !ok {
			continue
		}
		fmt.Printf("  %-20s  %-6d  %-8d  %-9d  %s\n",
			g.ID, st.GamesCount, st.HighScore, st.BestTile, st.LastPlayed.Format("2006-01-02 15:04"))
	}
}
