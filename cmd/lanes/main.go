// lanes is a three-lane endless runner for the terminal.
//
// Usage:
//
//	lanes play               - Play a run
//	lanes board              - Browse high scores and recent runs
//	lanes scores             - Print high scores
//	lanes stats <dir>        - Summarize a recorded telemetry session
//	lanes config             - Print the default config YAML
//	lanes serve              - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.lanes/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-lanes/internal/games/lanes"
	"github.com/vovakirdan/tui-lanes/internal/registry"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lanes",
	Short: "Lanes - dodge traffic in your terminal",
	Long: `Lanes is an endless runner played on a three-lane track.
Steer between lanes to dodge the oncoming blocks. Every block that
leaves the bottom of the track scores 10 points, and the traffic gets
faster and denser the longer you survive.

Available commands:
  play     - Play a run
  board    - Interactive scoreboard
  scores   - Print high scores
  stats    - Summarize a telemetry session
  config   - Print the default config
  serve    - Start SSH server for remote play

Examples:
  lanes play
  lanes play --difficulty hard
  lanes play --telemetry ./session1
  lanes stats ./session1
  lanes serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.lanes/scores.db", "Path to scores database")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// gameTitle returns the registered display name of the game.
func gameTitle() string {
	for _, info := range registry.List() {
		if info.ID == lanes.GameID {
			return info.Title
		}
	}
	return lanes.GameID
}
