package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fusion2048/internal/platform/tui"
	"github.com/vovakirdan/fusion2048/internal/storage"
)

var flagSavesRedis string

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved games",
	Long: `List games saved with Ctrl+S (and games created over HTTP).

Examples:
  fusion saves
  fusion saves delete 3f9a21c0
  fusion saves browse
  fusion saves --redis redis://localhost:6379/0`,
	Args: cobra.NoArgs,
	Run:  runSavesList,
}

var savesDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete saved games",
	Args:  cobra.MinimumNArgs(1),
	Run:   runSavesDelete,
}

var savesBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick a saved game to resume",
	Args:  cobra.NoArgs,
	Run:   runSavesBrowse,
}

func init() {
	savesCmd.PersistentFlags().StringVar(&flagSavesRedis, "redis", "", "Redis URL of the save store (overrides config)")
	savesCmd.AddCommand(savesDeleteCmd)
	savesCmd.AddCommand(savesBrowseCmd)
}

func openSaves() *stores {
	s, err := openStores(flagSavesRedis)
	if err != nil {
		fail("opening save store: %v", err)
	}
	return s
}

func runSavesList(_ *cobra.Command, _ []string) {
	s := openSaves()
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	saves, err := s.saves.ListSaves(ctx)
	if err != nil {
		fail("listing saves: %v", err)
	}
	if len(saves) == 0 {
		fmt.Println("No saved games. Press Ctrl+S during a game to save it.")
		return
	}

	fmt.Printf("  %-36s  %-11s  %-8s  %-7s  %-8s  %-5s  %s\n", "ID", "Mode", "Status", "Score", "Max Tile", "Moves", "Saved")
	for _, sv := range saves {
		fmt.Printf("  %-36s  %-11s  %-8s  %-7d  %-8d  %-5d  %s\n",
			sv.ID, sv.Mode, sv.Status, sv.Score, sv.MaxTile, sv.Moves, sv.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	fmt.Println()
	fmt.Println("Run 'fusion play --resume <id>' to continue a game.")
}

func runSavesDelete(_ *cobra.Command, args []string) {
	s := openSaves()
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	failed := false
	for _, id := range args {
		switch err := s.saves.DeleteGame(ctx, id); {
		case errors.Is(err, storage.ErrSaveNotFound):
			fmt.Printf("%s: not found\n", id)
			failed = true
		case err != nil:
			fmt.Printf("%s: %v\n", id, err)
			failed = true
		default:
			fmt.Printf("%s: deleted\n", id)
		}
	}
	if failed {
		s.Close()
		fail("some saves were not deleted")
	}
}

func runSavesBrowse(_ *cobra.Command, _ []string) {
	s := openSaves()
	defer s.Close()

	cfg := runtimeConfig()
	saved, _, err := tui.RunSaves(s.saves, cfg.ScreenW, cfg.ScreenH)
	if err != nil {
		fail("%v", err)
	}
	if saved == nil {
		return
	}

	env := s.env()
	game, err := tui.NewGame(env, tui.GameSetup{Resume: saved})
	if err != nil {
		fail("%v", err)
	}
	if err := tui.Run(game, env, cfg, saved.ID); err != nil {
		fail("running game: %v", err)
	}
}
