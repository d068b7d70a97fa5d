// Package batch summarizes many survey files concurrently and writes their
// previews. Surveys share nothing, so each one is handled by a single worker
// from load to output.
package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"gonum.org/v1/plot/vg"

	"github.com/pspoerri/surveygrid/internal/coord"
	"github.com/pspoerri/surveygrid/internal/encode"
	"github.com/pspoerri/surveygrid/internal/render"
	"github.com/pspoerri/surveygrid/internal/survey"
)

// DefaultPlotSize is the side length of map plots.
const DefaultPlotSize = 6 * vg.Inch

// Config holds batch processing configuration.
type Config struct {
	Concurrency int
	Progress    bool

	// OutputDir receives per-survey files. Nothing is written when empty.
	OutputDir string
	// Summary writes <name>.json.
	Summary bool
	// Preview writes the canvas footprint with Encoder.
	Preview bool
	Render  render.Options
	Encoder encode.Encoder
	// Plot writes <name>_map.<PlotFormat>.
	Plot       bool
	PlotFormat string
	PlotSize   vg.Length
}

// Stats holds batch statistics.
type Stats struct {
	Surveys    int64
	Failed     int64
	Files      int64
	TotalBytes int64
}

// Sink stores survey summaries (implemented by catalog.Catalog).
type Sink interface {
	Put(ctx context.Context, s coord.Summary) (uuid.UUID, error)
}

type counters struct {
	surveys, failed, files, totalBytes atomic.Int64
}

// Process summarizes every survey in paths. A survey that fails to load or
// has a degenerate geometry is logged and counted in Stats.Failed; the run
// continues. Output and sink errors abort the run and are returned. sink may
// be nil.
func Process(ctx context.Context, cfg Config, paths []string, sink Sink) (Stats, error) {
	if len(paths) == 0 {
		return Stats{}, fmt.Errorf("no survey files")
	}
	if cfg.Preview && cfg.OutputDir != "" && cfg.Encoder == nil {
		return Stats{}, fmt.Errorf("preview requested without an encoder")
	}
	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("creating output dir: %w", err)
		}
	}
	if cfg.PlotSize <= 0 {
		cfg.PlotSize = DefaultPlotSize
	}
	concurrency := max(cfg.Concurrency, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var pb *progressBar
	if cfg.Progress {
		pb = newProgressBar("Surveys", int64(len(paths)))
	}

	var c counters
	jobs := make(chan string, concurrency*2)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if ctx.Err() != nil {
					continue
				}
				ok, err := handle(ctx, cfg, path, sink, &c)
				if pb != nil {
					pb.Increment(ok)
				}
				if err != nil {
					select {
					case errCh <- err:
					default:
					}
					cancel()
				}
			}
		}()
	}

feed:
	for _, p := range paths {
		select {
		case jobs <- p:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if pb != nil {
		pb.Finish()
	}

	select {
	case err := <-errCh:
		return Stats{}, err
	default:
	}
	if err := ctx.Err(); err != nil {
		return Stats{}, err
	}

	return Stats{
		Surveys:    c.surveys.Load(),
		Failed:     c.failed.Load(),
		Files:      c.files.Load(),
		TotalBytes: c.totalBytes.Load(),
	}, nil
}

// handle processes one survey. ok is false when the survey itself was
// rejected; err is only set for failures that should stop the run.
func handle(ctx context.Context, cfg Config, path string, sink Sink, c *counters) (ok bool, err error) {
	g, err := survey.Load(path)
	if err != nil {
		slog.Warn("skipping survey", "path", path, "err", err)
		c.failed.Add(1)
		return false, nil
	}
	s, err := coord.Summarize(*g)
	if err != nil {
		slog.Warn("skipping survey", "path", path, "name", g.Name, "err", err)
		c.failed.Add(1)
		return false, nil
	}

	if sink != nil {
		id, err := sink.Put(ctx, s)
		if err != nil {
			return false, fmt.Errorf("storing %s: %w", s.Name, err)
		}
		slog.Debug("survey stored", "name", s.Name, "id", id)
	}

	if cfg.OutputDir != "" {
		if err := writeOutputs(cfg, s, c); err != nil {
			return false, fmt.Errorf("writing %s: %w", s.Name, err)
		}
	}

	c.surveys.Add(1)
	slog.Debug("survey processed", "path", path, "name", s.Name,
		"azimuth", s.Orientation.Azimuth, "inverted_axis", s.Orientation.InvertedAxis,
		"area_km2", s.Bins.Area)
	return true, nil
}

func writeOutputs(cfg Config, s coord.Summary, c *counters) error {
	base := filepath.Join(cfg.OutputDir, FileBase(s.Name))

	if cfg.Summary {
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding summary: %w", err)
		}
		if err := writeFile(base+".json", data, c); err != nil {
			return err
		}
	}

	if cfg.Preview {
		img, err := render.Footprint(s, cfg.Render)
		if err != nil {
			return err
		}
		data, err := cfg.Encoder.Encode(img)
		if err != nil {
			return fmt.Errorf("encoding preview: %w", err)
		}
		if err := writeFile(base+cfg.Encoder.FileExtension(), data, c); err != nil {
			return err
		}
	}

	if cfg.Plot {
		var buf bytes.Buffer
		if err := render.WritePlot(&buf, s, cfg.PlotSize, cfg.PlotFormat); err != nil {
			return err
		}
		if err := writeFile(base+"_map."+cfg.PlotFormat, buf.Bytes(), c); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte, c *counters) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	c.files.Add(1)
	c.totalBytes.Add(int64(len(data)))
	return nil
}

// FileBase turns a survey name into a file name stem.
func FileBase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "survey"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
