package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lanes/internal/games/lanes"
	"github.com/vovakirdan/tui-lanes/internal/platform/tui"
	"github.com/vovakirdan/tui-lanes/internal/storage"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Browse high scores and recent runs",
	Long: `Open the interactive scoreboard.

Controls:
  Up/Down  - Scroll
  Tab      - Switch between high scores and recent runs
  Q/Esc    - Quit`,
	Args: cobra.NoArgs,
	Run:  runBoard,
}

func runBoard(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	width, height := terminalSize()
	if err := tui.RunScoreboard(store, lanes.GameID, gameTitle(), width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
		os.Exit(1)
	}
}
