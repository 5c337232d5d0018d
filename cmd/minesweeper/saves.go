package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/game"
	"github.com/vovakirdan/tui-minesweeper/internal/savegame"
)

var savesCmd = &cobra.Command{
	Use:   "saves",
	Short: "List saved games",
	Long: `Shows the games saved in the saves folder, newest first.

Continue one with 'minesweeper play --load <name>'.`,
	Args: cobra.NoArgs,
	Run:  runSaves,
}

var savesRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a saved game",
	Args:  cobra.ExactArgs(1),
	Run:   runSavesRm,
}

func init() {
	savesCmd.AddCommand(savesRmCmd)
}

func openSaves() *savegame.Store {
	cfg := loadConfig()
	saves, err := savegame.Open(cfg.Saves.Dir, cfg.Saves.Ext)
	if err != nil {
		fatal("%v", err)
	}
	return saves
}

func runSaves(_ *cobra.Command, _ []string) {
	saves := openSaves()

	entries, err := saves.List()
	if err != nil {
		fatal("%v", err)
	}

	if len(entries) == 0 {
		fmt.Printf("No saved games in %s.\n", saves.Dir())
		return
	}

	fmt.Printf("Saved games in %s:\n", saves.Dir())
	fmt.Println()

	// Calculate column widths
	maxNameLen := 4 // "Name" header
	for _, e := range entries {
		if len(e.Name) > maxNameLen {
			maxNameLen = len(e.Name)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-14s  %-9s  %-7s  %s\n", maxNameLen, "Name", "Difficulty", "Progress", "Time", "Saved")
	fmt.Printf("  %-*s  %-14s  %-9s  %-7s  %s\n", maxNameLen, "----", "----------", "--------", "----", "-----")

	for _, e := range entries {
		if e.Err != nil {
			fmt.Printf("  %-*s  unreadable: %v\n", maxNameLen, e.Name, e.Err)
			continue
		}
		progress := fmt.Sprintf("%d/%d", e.Revealed, e.Safe)
		fmt.Printf("  %-*s  %-14s  %-9s  %-7s  %s\n",
			maxNameLen, e.Name,
			e.Difficulty.Name(),
			progress,
			game.FormatDuration(e.Elapsed),
			e.SavedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	fmt.Println()
	fmt.Println("Run 'minesweeper play --load <name>' to continue a game.")
}

func runSavesRm(_ *cobra.Command, args []string) {
	saves := openSaves()
	if err := saves.Delete(args[0]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s.\n", args[0])
}
