package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the difficulty menu",
	Long: `Start Minesweeper in interactive menu mode.

Pick a difficulty or one of your most recent saved games. After a game
ends, press B to return to the menu and play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select entry
  Tab          - Best times
  Q            - Quit

Examples:
  minesweeper menu
  minesweeper menu --saves ./saves
  minesweeper menu --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	env, closeEnv := openEnv()
	err := tui.RunSession(env)
	closeEnv()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
