// Package telemetry records per-frame timing, quality changes and finished
// runs as CSV, and summarizes recorded sessions.
package telemetry

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/tui-lanes/internal/config"
)

// File names inside a telemetry directory.
const (
	FramesFile  = "frames.csv"
	QualityFile = "quality.csv"
	RunsFile    = "runs.csv"
	ConfigFile  = "config.yaml"
)

// FrameRecord is one simulated frame.
type FrameRecord struct {
	Frame     int     `csv:"frame"`
	ElapsedMs float64 `csv:"elapsed_ms"` // Wall-clock time since the session started
	DtMs      float64 `csv:"dt_ms"`
	FPS       float64 `csv:"fps"` // Instantaneous rate from DtMs
	Phase     string  `csv:"phase"`
	Score     int     `csv:"score"`
	Quality   float64 `csv:"quality"`
}

// QualityRecord is one quality level change.
type QualityRecord struct {
	ElapsedMs float64 `csv:"elapsed_ms"`
	Level     float64 `csv:"level"`
}

// RunRecord is one finished run.
type RunRecord struct {
	Run       int     `csv:"run"`
	Score     int     `csv:"score"`
	Frames    int     `csv:"frames"`
	ElapsedMs float64 `csv:"elapsed_ms"` // Simulated run time
	Speed     float64 `csv:"speed"`
	Collision bool    `csv:"collision"`
}

// csvFile appends records to one CSV file, writing the header once.
type csvFile struct {
	f             *os.File
	headerWritten bool
}

func (c *csvFile) write(records any, name string) error {
	if !c.headerWritten {
		if err := gocsv.Marshal(records, c.f); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		c.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, c.f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Writer handles telemetry output for one session.
// A nil *Writer is valid and discards everything.
type Writer struct {
	dir     string
	frames  csvFile
	quality csvFile
	runs    csvFile
}

// NewWriter creates the output directory and its CSV files.
// Returns nil if dir is empty (telemetry disabled).
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output directory: %w", err)
	}

	w := &Writer{dir: dir}
	for _, target := range []struct {
		file *csvFile
		name string
	}{
		{&w.frames, FramesFile},
		{&w.quality, QualityFile},
		{&w.runs, RunsFile},
	} {
		f, err := os.Create(filepath.Join(dir, target.name))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("telemetry: creating %s: %w", target.name, err)
		}
		target.file.f = f
	}

	return w, nil
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	if w == nil {
		return ""
	}
	return w.dir
}

// WriteConfig saves the configuration the session ran with.
func (w *Writer) WriteConfig(cfg config.LanesConfig) error {
	if w == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(w.dir, ConfigFile))
}

// WriteFrame appends a frame record to frames.csv.
func (w *Writer) WriteFrame(r FrameRecord) error {
	if w == nil {
		return nil
	}
	return w.frames.write([]FrameRecord{r}, FramesFile)
}

// WriteQuality appends a quality change to quality.csv.
func (w *Writer) WriteQuality(r QualityRecord) error {
	if w == nil {
		return nil
	}
	return w.quality.write([]QualityRecord{r}, QualityFile)
}

// WriteRun appends a finished run to runs.csv.
func (w *Writer) WriteRun(r RunRecord) error {
	if w == nil {
		return nil
	}
	return w.runs.write([]RunRecord{r}, RunsFile)
}

// Close closes all output files.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	var errs []error
	for _, c := range []*csvFile{&w.frames, &w.quality, &w.runs} {
		if c.f == nil {
			continue
		}
		if err := c.f.Close(); err != nil {
			errs = append(errs, err)
		}
		c.f = nil
	}
	return errors.Join(errs...)
}
