package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/game"
	"github.com/vovakirdan/tui-minesweeper/internal/platform/tui"
)

var (
	flagDifficulty string
	flagLoad       string
	flagRows       int
	flagCols       int
	flagMines      int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start a single game of Minesweeper.

Without --difficulty or --load the difficulty menu is shown first.

Controls:
  Arrows/hjkl      - Move the cursor
  R/Space/Enter    - Reveal tile
  F                - Flag or unflag tile
  S                - Save game
  ?                - Instructions
  X/Q/Ctrl+C       - Exit (offers to save first)
  N / B            - New game / back (after the game ends)

Examples:
  minesweeper play
  minesweeper play --difficulty intermediate
  minesweeper play --rows 20 --cols 20 --mines 60
  minesweeper play --load lunch-break
  minesweeper play --difficulty expert --seed 42`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset ID (see 'minesweeper difficulties')")
	playCmd.Flags().StringVarP(&flagLoad, "load", "l", "", "Continue a saved game")
	playCmd.Flags().IntVar(&flagRows, "rows", 0, "Rows for a custom board")
	playCmd.Flags().IntVar(&flagCols, "cols", 0, "Columns for a custom board")
	playCmd.Flags().IntVar(&flagMines, "mines", 0, "Mines for a custom board")
}

func runPlay(_ *cobra.Command, _ []string) {
	env, closeEnv := openEnv()

	g, err := startFromFlags(env)
	if err != nil {
		closeEnv()
		fatal("%v", err)
	}

	// No flags given: let the player pick.
	if g == nil {
		g, err = pickFromMenu(&env)
		if err != nil {
			closeEnv()
			fatal("%v", err)
		}
		if g == nil {
			closeEnv()
			return
		}
	}

	_, runErr := tui.Run(g, env)

	// Close store before potential exit
	closeEnv()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// startFromFlags builds the game the flags ask for, or returns nil when
// no game flag was given.
func startFromFlags(env tui.Env) (*game.Game, error) {
	custom := flagRows != 0 || flagCols != 0 || flagMines != 0
	switch {
	case flagLoad != "" && (flagDifficulty != "" || custom):
		return nil, errors.New("--load cannot be combined with a difficulty")
	case flagLoad != "":
		if env.Saves == nil {
			return nil, errors.New("saved games are not available")
		}
		f, err := env.Saves.Load(flagLoad)
		if err != nil {
			return nil, err
		}
		return game.FromSave(f, env.GameOptions()...)
	case custom:
		d, err := config.Custom(flagRows, flagCols, flagMines)
		if err != nil {
			return nil, err
		}
		return game.New(d, env.GameOptions()...)
	case flagDifficulty != "":
		d, err := env.Config.Preset(flagDifficulty)
		if err != nil {
			return nil, fmt.Errorf("%w (available: %v)", err, env.Config.PresetIDs())
		}
		return game.New(d, env.GameOptions()...)
	}
	return nil, nil
}

// pickFromMenu shows the menu until the player picks a game or quits.
// A nil game means the player quit.
func pickFromMenu(env *tui.Env) (*game.Game, error) {
	notice := ""
	for {
		result, err := tui.RunMenu(*env, notice)
		if err != nil {
			return nil, err
		}
		env.Runtime = result.Config
		notice = ""

		switch {
		case result.Quit:
			return nil, nil
		case result.WantsScoreboard:
			if _, err := tui.RunScoreboard(env.Store, env.Config.Difficulties, env.Runtime.ScreenW, env.Runtime.ScreenH); err != nil {
				return nil, err
			}
			continue
		}

		g, err := result.Item.Start(*env)
		if err != nil {
			env.Logger.Warn("could not start game", "item", result.Item.Title, "error", err)
			notice = err.Error()
			continue
		}
		return g, nil
	}
}
