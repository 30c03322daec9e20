package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lanes/internal/config"
	"github.com/vovakirdan/tui-lanes/internal/core"
	"github.com/vovakirdan/tui-lanes/internal/games/lanes"
	"github.com/vovakirdan/tui-lanes/internal/platform/tui"
	"github.com/vovakirdan/tui-lanes/internal/registry"
	"github.com/vovakirdan/tui-lanes/internal/storage"
	"github.com/vovakirdan/tui-lanes/internal/telemetry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagScale      float64
	flagTelemetry  string
	flagLogFile    string
	flagDebug      bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run on the three-lane track.

Controls:
  Left/A/H     - Move one lane left
  Right/D/L    - Move one lane right
  Enter/Space  - Start a run
  P/Esc        - Pause
  R            - Restart (after game over)
  Ctrl+S       - Save a screenshot
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slower traffic, gentle progression
  normal - Default starting speed and spawn rate, replacing any set in --config
  hard   - Faster, denser traffic from the start
  fixed  - No progression, stays at the starting speed
  Without --difficulty the config is used as loaded.

Telemetry:
  --telemetry <dir> writes frames.csv, quality.csv, runs.csv and the
  config used into <dir>. Summarize it with 'lanes stats <dir>'.

Examples:
  lanes play
  lanes play --difficulty hard
  lanes play --config ./my-lanes.yaml
  lanes play --scale 0.5 --telemetry ./session1
  lanes play --log-file lanes.log --debug`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().Float64Var(&flagScale, "scale", 1.0, "Render resolution factor (0-1]")
	playCmd.Flags().StringVar(&flagTelemetry, "telemetry", "", "Directory for telemetry CSV output")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	playCmd.Flags().BoolVar(&flagDebug, "debug", false, "Log phase and difficulty changes")
}

// newLogger writes to the log file if one is given. The terminal belongs to
// the game, so without a file logs are discarded.
func newLogger() (*log.Logger, io.Closer, error) {
	var w io.Writer = io.Discard
	var closer io.Closer
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w, closer = f, f
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "lanes",
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, closer, nil
}

func runPlay(cmd *cobra.Command, args []string) {
	if flagDifficulty != "" && config.ParsePreset(flagDifficulty) == "" {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", flagDifficulty)
		os.Exit(1)
	}
	if flagScale <= 0 || flagScale > 1 {
		fmt.Fprintln(os.Stderr, "Error: --scale must be in (0, 1]")
		os.Exit(1)
	}

	logger, logCloser, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}

	game := lanes.New(registry.Options{ConfigPath: flagConfig, Preset: flagDifficulty})
	if cfgErr := game.ConfigErr(); cfgErr != nil {
		// Defaults still give a playable game
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", cfgErr)
		logger.Warn("config not loaded", "path", flagConfig, "err", cfgErr)
	}

	width, height := terminalSize()
	cfg := core.DefaultConfig()
	cfg.ScreenW = width
	cfg.ScreenH = height
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.RenderScale = flagScale

	tw, err := telemetry.NewWriter(flagTelemetry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := tw.WriteConfig(game.Config()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config to telemetry: %v\n", err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		logger.Warn("scores disabled", "err", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(game, cfg, tui.Options{
		Store:     store,
		Telemetry: tw,
		Logger:    logger,
	})

	// Close outputs before potential exit
	if store != nil {
		store.Close()
	}
	if err := tw.Close(); err != nil {
		logger.Warn("telemetry close failed", "err", err)
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
	if dir := tw.Dir(); dir != "" {
		fmt.Printf("Telemetry written to %s\n", dir)
	}
}
