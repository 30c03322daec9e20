package telemetry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// FrameSummary describes the frame rate of a recorded session.
type FrameSummary struct {
	Frames       int
	MeanFPS      float64
	StdDevFPS    float64
	P5FPS        float64 // 5th percentile: the slow tail
	MedianFPS    float64
	MedianDtMs   float64
	MeanQuality  float64
	QualityDrops int // Frames where quality went down from the previous frame
}

// RunSummary describes the finished runs of a session.
type RunSummary struct {
	Runs        int
	BestScore   int
	MeanScore   float64
	StdDevScore float64
	MeanSeconds float64
	Collisions  int
}

// ReadFrames loads frames.csv from a telemetry directory.
func ReadFrames(dir string) ([]FrameRecord, error) {
	var records []FrameRecord
	if err := readCSV(filepath.Join(dir, FramesFile), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadRuns loads runs.csv from a telemetry directory.
func ReadRuns(dir string) ([]RunRecord, error) {
	var records []RunRecord
	if err := readCSV(filepath.Join(dir, RunsFile), &records); err != nil {
		return nil, err
	}
	return records, nil
}

func readCSV(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("telemetry: cannot open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("telemetry: cannot stat %s: %w", path, err)
	}
	if info.Size() == 0 {
		return nil
	}

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("telemetry: cannot parse %s: %w", path, err)
	}
	return nil
}

// SummarizeFrames computes frame-rate statistics. Frames with a zero
// duration carry no rate and are skipped.
func SummarizeFrames(frames []FrameRecord) FrameSummary {
	var fps, dts, quality []float64
	drops := 0
	for i, f := range frames {
		if i > 0 && f.Quality < frames[i-1].Quality {
			drops++
		}
		quality = append(quality, f.Quality)
		if f.DtMs <= 0 {
			continue
		}
		fps = append(fps, 1000/f.DtMs)
		dts = append(dts, f.DtMs)
	}

	s := FrameSummary{Frames: len(frames), QualityDrops: drops}
	if len(quality) > 0 {
		s.MeanQuality = stat.Mean(quality, nil)
	}
	if len(fps) == 0 {
		return s
	}

	s.MeanFPS, s.StdDevFPS = stat.MeanStdDev(fps, nil)
	if len(fps) < 2 {
		s.StdDevFPS = 0
	}

	sort.Float64s(fps)
	sort.Float64s(dts)
	s.P5FPS = stat.Quantile(0.05, stat.Empirical, fps, nil)
	s.MedianFPS = stat.Quantile(0.5, stat.Empirical, fps, nil)
	s.MedianDtMs = stat.Quantile(0.5, stat.Empirical, dts, nil)
	return s
}

// SummarizeRuns computes score statistics over finished runs.
func SummarizeRuns(runs []RunRecord) RunSummary {
	s := RunSummary{Runs: len(runs)}
	if len(runs) == 0 {
		return s
	}

	scores := make([]float64, len(runs))
	seconds := make([]float64, len(runs))
	for i, r := range runs {
		scores[i] = float64(r.Score)
		seconds[i] = r.ElapsedMs / 1000
		s.BestScore = max(s.BestScore, r.Score)
		if r.Collision {
			s.Collisions++
		}
	}

	s.MeanScore, s.StdDevScore = stat.MeanStdDev(scores, nil)
	if len(runs) < 2 {
		s.StdDevScore = 0
	}
	s.MeanSeconds = stat.Mean(seconds, nil)
	return s
}
