package main

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/game"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	flagPlain bool
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [difficulty]",
	Short: "Show best times",
	Long: `Display the fastest wins and statistics per difficulty.

On a terminal without arguments the interactive best-times screen opens;
use Left/Right to switch difficulty. With a difficulty, or with --plain,
the table is printed instead, followed by an overall summary when no
difficulty was given.

Examples:
  minesweeper scores
  minesweeper scores expert
  minesweeper scores --plain
  minesweeper scores beginner --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print text instead of the interactive screen")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete recorded results (for one difficulty if given)")
}

func runScores(_ *cobra.Command, args []string) {
	cfg := loadConfig()

	levels := cfg.Difficulties
	if len(args) == 1 {
		d, err := cfg.Preset(args[0])
		if err != nil {
			fatal("%v (available: %v)", err, cfg.PresetIDs())
		}
		levels = []config.Difficulty{d}
	}

	// Open results storage
	store, err := storage.Open(cfg.Scores.DB)
	if err != nil {
		fatal("opening results database: %v", err)
	}
	defer store.Close()

	if flagClear {
		clearScores(store, args)
		return
	}

	if len(args) == 0 && !flagPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := terminalSize()
		if _, err := tui.RunScoreboard(store, levels, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return
	}

	for i, d := range levels {
		if i > 0 {
			fmt.Println()
		}
		if err := printScores(store, d, cfg.Scores.Top); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
			return
		}
	}

	if len(args) == 0 {
		fmt.Println()
		if err := printSummary(os.Stdout, store); err != nil {
			fmt.Fprintf(os.Stderr, "Error retrieving results: %v\n", err)
		}
	}
}

// printSummary lists every difficulty with recorded games, including ones
// no longer in the config, and the totals across all of them.
func printSummary(w io.Writer, store *storage.Store) error {
	all, err := store.AllStats()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Overall")
	fmt.Fprintln(w)
	if len(all) == 0 {
		fmt.Fprintln(w, "  No games played yet.")
		return nil
	}

	fmt.Fprintf(w, "  %-14s  %6s  %4s  %5s  %s\n", "Difficulty", "Played", "Won", "Rate", "Best")
	fmt.Fprintf(w, "  %-14s  %6s  %4s  %5s  %s\n", "----------", "------", "---", "----", "----")

	var total storage.Stats
	for _, id := range slices.Sorted(maps.Keys(all)) {
		st := all[id]
		best := "-"
		if st.Won > 0 {
			best = game.FormatDuration(st.BestTime)
		}
		fmt.Fprintf(w, "  %-14s  %6d  %4d  %4.0f%%  %s\n", id, st.Played, st.Won, st.WinRate()*100, best)
		total.Played += st.Played
		total.Won += st.Won
	}
	fmt.Fprintf(w, "  %-14s  %6d  %4d  %4.0f%%\n", "total", total.Played, total.Won, total.WinRate()*100)
	return nil
}

func clearScores(store *storage.Store, args []string) {
	difficulty := ""
	if len(args) == 1 {
		difficulty = args[0]
	}
	if err := store.ClearResults(difficulty); err != nil {
		fmt.Fprintf(os.Stderr, "Error clearing results: %v\n", err)
		return
	}
	if difficulty == "" {
		fmt.Println("All results cleared.")
		return
	}
	fmt.Printf("Results for %s cleared.\n", difficulty)
}

func printScores(store *storage.Store, d config.Difficulty, top int) error {
	results, err := store.BestTimes(d.ID, top)
	if err != nil {
		return err
	}
	stats, err := store.Stats(d.ID)
	if err != nil {
		return err
	}

	// Display results
	fmt.Printf("Best Times - %s\n", d)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("  No wins recorded yet.")
	} else {
		// Print header
		fmt.Printf("  %-4s  %-8s  %-12s  %s\n", "Rank", "Time", "Player", "Date")
		fmt.Printf("  %-4s  %-8s  %-12s  %s\n", "----", "----", "------", "----")

		for i, r := range results {
			player := r.Player
			if player == "" {
				player = "-"
			}
			fmt.Printf("  %-4d  %-8s  %-12s  %s\n", i+1, game.FormatDuration(r.Duration), player, r.CreatedAt.Format("2006-01-02 15:04"))
		}
	}

	// Show stats
	if stats.Played > 0 {
		fmt.Println()
		fmt.Printf("Played: %d  Won: %d (%.0f%%)", stats.Played, stats.Won, stats.WinRate()*100)
		if stats.Won > 0 {
			fmt.Printf("  Best: %s  Average: %s", game.FormatDuration(stats.BestTime), game.FormatDuration(stats.AvgWinTime))
		}
		fmt.Println()
	}
	return nil
}
