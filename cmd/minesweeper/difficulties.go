package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var difficultiesCmd = &cobra.Command{
	Use:     "difficulties",
	Aliases: []string{"list"},
	Short:   "List difficulty presets",
	Long:    `Shows the difficulty presets from the loaded configuration.`,
	Args:    cobra.NoArgs,
	Run:     runDifficulties,
}

func runDifficulties(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	fmt.Println("Difficulties:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, d := range cfg.Difficulties {
		if len(d.ID) > maxIDLen {
			maxIDLen = len(d.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-14s  %-7s  %s\n", maxIDLen, "ID", "Title", "Size", "Mines")
	fmt.Printf("  %-*s  %-14s  %-7s  %s\n", maxIDLen, "--", "-----", "----", "-----")

	def, _ := cfg.Preset("")
	for _, d := range cfg.Difficulties {
		marker := ""
		if d.ID == def.ID {
			marker = "  (default)"
		}
		size := fmt.Sprintf("%dx%d", d.Rows, d.Cols)
		fmt.Printf("  %-*s  %-14s  %-7s  %d%s\n", maxIDLen, d.ID, d.Name(), size, d.Mines, marker)
	}

	fmt.Println()
	fmt.Println("Run 'minesweeper play --difficulty <id>' to play.")
}
