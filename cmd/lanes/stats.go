package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-lanes/internal/telemetry"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dir>",
	Short: "Summarize a telemetry session",
	Long: `Read the CSV files written by 'lanes play --telemetry <dir>' and
print frame timing, quality and run statistics.

Example:
  lanes stats ./session1`,
	Args: cobra.ExactArgs(1),
	Run:  runStats,
}

func runStats(cmd *cobra.Command, args []string) {
	dir := args[0]

	frames, err := telemetry.ReadFrames(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	runs, err := telemetry.ReadRuns(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fs := telemetry.SummarizeFrames(frames)
	rs := telemetry.SummarizeRuns(runs)

	fmt.Printf("Session %s\n\n", dir)

	fmt.Println("Frames")
	fmt.Printf("  %-14s %d\n", "count", fs.Frames)
	fmt.Printf("  %-14s %.1f (sd %.1f)\n", "mean fps", fs.MeanFPS, fs.StdDevFPS)
	fmt.Printf("  %-14s %.1f\n", "median fps", fs.MedianFPS)
	fmt.Printf("  %-14s %.1f\n", "5th pct fps", fs.P5FPS)
	fmt.Printf("  %-14s %.2f\n", "median dt ms", fs.MedianDtMs)
	fmt.Printf("  %-14s %.2f\n", "mean quality", fs.MeanQuality)
	fmt.Printf("  %-14s %d\n", "quality drops", fs.QualityDrops)
	fmt.Println()

	fmt.Println("Runs")
	if rs.Runs == 0 {
		fmt.Println("  no finished runs")
		return
	}
	fmt.Printf("  %-14s %d (%d crashed)\n", "count", rs.Runs, rs.Collisions)
	fmt.Printf("  %-14s %d\n", "best score", rs.BestScore)
	fmt.Printf("  %-14s %.1f (sd %.1f)\n", "mean score", rs.MeanScore, rs.StdDevScore)
	fmt.Printf("  %-14s %.1f\n", "mean seconds", rs.MeanSeconds)
}
