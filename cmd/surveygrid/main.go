package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/pspoerri/surveygrid/internal/batch"
	"github.com/pspoerri/surveygrid/internal/catalog"
	"github.com/pspoerri/surveygrid/internal/config"
	"github.com/pspoerri/surveygrid/internal/encode"
	"github.com/pspoerri/surveygrid/internal/logging"
	"github.com/pspoerri/surveygrid/internal/render"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	var (
		configPath  string
		outputDir   string
		format      string
		quality     int
		concurrency int
		catalogPath string
		plot        bool
		noPreview   bool
		progress    bool
		logLevel    string
		showVersion bool
		list        bool
		cpuProfile  string
	)

	flag.StringVar(&configPath, "config", "", "Config file (default: ./surveygrid.{yaml,json,toml} if present)")
	flag.StringVar(&outputDir, "out", "", "Output directory for summaries and previews")
	flag.StringVar(&format, "format", "", "Preview encoding: png, jpeg, webp")
	flag.IntVar(&quality, "quality", 0, "JPEG/WebP quality 1-100 (100 = lossless WebP)")
	flag.IntVar(&concurrency, "concurrency", 0, "Number of parallel workers (default: number of CPUs)")
	flag.StringVar(&catalogPath, "catalog", "", "SQLite catalog to record surveys in")
	flag.BoolVar(&plot, "plot", false, "Also write a map plot of each survey")
	flag.BoolVar(&noPreview, "no-preview", false, "Do not write canvas previews")
	flag.BoolVar(&progress, "progress", false, "Show a progress bar")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.BoolVar(&list, "list", false, "List the surveys in -catalog and exit")
	flag.StringVar(&cpuProfile, "cpuprofile", "", "Write CPU profile to file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: surveygrid [flags] <survey-dirs-or-files...>\n\n")
		fmt.Fprintf(os.Stderr, "Summarize seismic survey geometries and render their footprints.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("surveygrid %s (commit %s, built %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags given on the command line win over the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "out":
			cfg.Output.Dir = outputDir
		case "format":
			cfg.Output.Format = format
		case "quality":
			cfg.Output.Quality = quality
		case "concurrency":
			cfg.Batch.Concurrency = concurrency
		case "catalog":
			cfg.Catalog.Path = catalogPath
		case "plot":
			cfg.Output.Plot = plot
		case "no-preview":
			cfg.Output.Preview = !noPreview
		case "progress":
			cfg.Batch.Progress = progress
		case "log-level":
			cfg.Log.Level = logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	if list {
		if err := listCatalog(cfg.Catalog.Path); err != nil {
			fatal("Listing catalog", err)
		}
		return
	}

	// CPU profiling.
	if cpuProfile != "" {
		f, err := os.Create(cpuProfile)
		if err != nil {
			fatal("Creating CPU profile", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fatal("Starting CPU profile", err)
		}
		defer pprof.StopCPUProfile()
		slog.Debug("CPU profiling enabled", "path", cpuProfile)
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	enc, err := encode.NewEncoder(cfg.Output.Format, cfg.Output.Quality)
	if err != nil {
		fatal("Encoder", err)
	}

	surveyFiles, err := batch.Collect(args)
	if err != nil {
		fatal("Collecting input files", err)
	}
	if len(surveyFiles) == 0 {
		fatal("Collecting input files", fmt.Errorf("no survey files found in the specified inputs"))
	}
	slog.Info("found survey files", "count", len(surveyFiles))

	var sink batch.Sink
	if cfg.Catalog.Path != "" {
		cat, err := catalog.Open(cfg.Catalog.Path)
		if err != nil {
			fatal("Opening catalog", err)
		}
		defer cat.Close()
		sink = cat
	}

	// Print settings summary.
	fmt.Printf("surveygrid %s (commit %s, built %s)\n", version, commit, buildDate)
	if cfg.Output.Preview {
		switch cfg.Output.Format {
		case "jpeg", "jpg", "webp":
			fmt.Printf("  %-14s %s %dx%d (quality: %d)\n", "Preview:", enc.Format(), cfg.Canvas.Width, cfg.Canvas.Height, cfg.Output.Quality)
		default:
			fmt.Printf("  %-14s %s %dx%d\n", "Preview:", enc.Format(), cfg.Canvas.Width, cfg.Canvas.Height)
		}
	} else {
		fmt.Printf("  %-14s disabled\n", "Preview:")
	}
	if cfg.Output.Plot {
		fmt.Printf("  %-14s %s\n", "Plot:", cfg.Output.PlotFormat)
	}
	fmt.Printf("  %-14s %d\n", "Concurrency:", cfg.Batch.Concurrency)
	if cfg.Catalog.Path != "" {
		fmt.Printf("  %-14s %s\n", "Catalog:", cfg.Catalog.Path)
	}
	fmt.Printf("  %-14s %d file(s)\n", "Input:", len(surveyFiles))
	fmt.Printf("  %-14s %s\n", "Output:", cfg.Output.Dir)

	opts := render.DefaultOptions()
	opts.Width, opts.Height = cfg.Canvas.Width, cfg.Canvas.Height
	opts.Scale = cfg.Canvas.Scale

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	stats, err := batch.Process(ctx, batch.Config{
		Concurrency: cfg.Batch.Concurrency,
		Progress:    cfg.Batch.Progress,
		OutputDir:   cfg.Output.Dir,
		Summary:     cfg.Output.Summary,
		Preview:     cfg.Output.Preview,
		Render:      opts,
		Encoder:     enc,
		Plot:        cfg.Output.Plot,
		PlotFormat:  cfg.Output.PlotFormat,
	}, surveyFiles, sink)
	if err != nil {
		fatal("Processing surveys", err)
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	outDir, _ := filepath.Abs(cfg.Output.Dir)
	fmt.Printf("Done: %d survey(s), %d failed, %d file(s), %s, %v → %s\n",
		stats.Surveys, stats.Failed, stats.Files, humanSize(stats.TotalBytes), elapsed, outDir)
	if stats.Failed > 0 {
		slog.Warn("some surveys were skipped", "failed", stats.Failed)
	}
}

func listCatalog(path string) error {
	if path == "" {
		return fmt.Errorf("-list needs a catalog (-catalog or catalog.path)")
	}
	cat, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.List(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%-36s  %-20s  %8s  %8s  %8s  %10s\n", "ID", "Name", "Azimuth", "IL bin", "XL bin", "Area km²")
	for _, e := range entries {
		s := e.Summary
		fmt.Printf("%-36s  %-20s  %8.2f  %8.2f  %8.2f  %10.2f\n",
			e.ID, s.Name, s.Orientation.Azimuth, s.Bins.InlineBinSize, s.Bins.CrlineBinSize, s.Bins.Area)
	}
	return nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "err", err)
	os.Exit(1)
}

func humanSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
