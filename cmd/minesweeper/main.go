// minesweeper is the classic mine-clearing puzzle for the terminal.
//
// Usage:
//
//	minesweeper play               - Play one game (pick a difficulty from the menu)
//	minesweeper menu               - Menu loop: pick, play, come back
//	minesweeper scores [level]     - Show best times and stats
//	minesweeper saves              - List saved games
//	minesweeper difficulties       - List difficulty presets
//	minesweeper serve              - Start SSH server for remote play
//
// Global flags:
//
//	--config <path> - Config file (default: search ~/.minesweeper, ./configs, built-in)
//	--db <path>     - Results database (default from config: ~/.minesweeper/scores.db)
//	--saves <dir>   - Saved games folder (default from config: ~/.minesweeper/saves)
//	--seed <value>  - RNG seed for reproducible boards
//	--fps <rate>    - Clock refresh rate (default: 10)
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
	"github.com/vovakirdan/tui-minesweeper/internal/savegame"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagSavesDir string
	flagSeed     int64
	flagFPS      int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "minesweeper",
	Short: "Minesweeper - clear the minefield in your terminal",
	Long: `Minesweeper is the classic puzzle played on a grid of hidden tiles.
Reveal every tile that is not a mine; numbers tell you how many of the
eight neighbouring tiles hide one.

Available commands:
  play          - Play a single game
  menu          - Interactive menu, returns after each game
  scores        - View best times and statistics
  saves         - List saved games
  difficulties  - List difficulty presets
  serve         - Start SSH server for remote play

Examples:
  minesweeper play
  minesweeper play --difficulty expert
  minesweeper play --load lunch-break
  minesweeper scores beginner
  minesweeper serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to results database (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagSavesDir, "saves", "", "Saved games folder (overrides config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Clock refresh rate (ticks per second)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(difficultiesCmd)
	rootCmd.AddCommand(serveCmd)
}

func newLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "minesweeper",
		Level:           log.WarnLevel,
	})
}

// fatal prints an error and exits with status 1.
func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads the configuration and applies the global path flags.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fatal("%v", err)
	}
	if flagDBPath != "" {
		cfg.Scores.DB = flagDBPath
	}
	if flagSavesDir != "" {
		cfg.Saves.Dir = flagSavesDir
	}
	return cfg
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// openEnv loads config, opens both stores and sizes the screen. Missing
// stores only disable their feature. The returned func closes what was opened.
func openEnv() (tui.Env, func()) {
	cfg := loadConfig()
	logger := newLogger()

	store, err := storage.Open(cfg.Scores.DB)
	if err != nil {
		logger.Warn("could not open results database", "path", cfg.Scores.DB, "error", err)
		store = nil
	}

	saves, err := savegame.Open(cfg.Saves.Dir, cfg.Saves.Ext)
	if err != nil {
		logger.Warn("could not open saves folder", "path", cfg.Saves.Dir, "error", err)
		saves = nil
	}

	width, height := terminalSize()
	env := tui.Env{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: flagFPS,
			Seed:     flagSeed,
		},
		Saves:  saves,
		Store:  store,
		Logger: logger,
	}

	return env, func() {
		if store != nil {
			store.Close()
		}
	}
}
