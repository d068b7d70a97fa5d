package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/pspoerri/surveygrid/internal/coord"
	"github.com/pspoerri/surveygrid/internal/survey"
)

func main() {
	var (
		asJSON bool
		width  float64
		height float64
	)
	flag.BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	flag.Float64Var(&width, "width", 800, "Canvas width for the corner projection")
	flag.Float64Var(&height, "height", 600, "Canvas height for the corner projection")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: surveyinfo [flags] <file.survey | survey-dir>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		if f := survey.FindSurveyFile(path); f != "" {
			path = f
		}
	}

	g, err := survey.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s, err := coord.Summarize(*g)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("File: %s\n", path)
	fmt.Printf("Survey: %s\n", s.Name)
	fmt.Printf("Inline: %g - %g step %g (%d lines)\n", g.Inline.Start, g.Inline.End, g.Inline.Step, s.Bins.InlineCount)
	fmt.Printf("Crossline: %g - %g step %g (%d lines)\n", g.Crline.Start, g.Crline.End, g.Crline.Step, s.Bins.CrlineCount)
	fmt.Printf("Z (%s): %g - %g step %g\n", g.Depth.ZType, g.Depth.Start, g.Depth.End, g.Depth.Step)
	for _, p := range []struct {
		label string
		cp    survey.ControlPoint
	}{{"A", g.A}, {"B", g.B}, {"C", g.C}} {
		fmt.Printf("Point %s: IL=%g XL=%g E=%.2f N=%.2f\n", p.label, p.cp.Inline, p.cp.Crline, p.cp.Easting, p.cp.Northing)
	}

	a := s.Affine
	fmt.Printf("\nTransform:\n")
	fmt.Printf("  E = %.6f + %.6f*IL + %.6f*XL\n", a.AlphaX, a.BetaX, a.GammaX)
	fmt.Printf("  N = %.6f + %.6f*IL + %.6f*XL\n", a.AlphaY, a.BetaY, a.GammaY)

	fmt.Printf("\nAzimuth: %.4f°\n", s.Orientation.Azimuth)
	fmt.Printf("Inverted axis: %t\n", s.Orientation.InvertedAxis)
	fmt.Printf("Bin size: inline %.2f m, crossline %.2f m\n", s.Bins.InlineBinSize, s.Bins.CrlineBinSize)
	fmt.Printf("Step distance: inline %.2f m, crossline %.2f m\n", s.Bins.InlineStepDistance, s.Bins.CrlineStepDistance)
	fmt.Printf("Area: %.2f km²\n", s.Bins.Area)

	pts, err := s.Converter().FourCornersOnCanvas(width, height, coord.DefaultCanvasScale)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nCorners:\n")
	for i, c := range g.Corners() {
		fmt.Printf("  IL=%g XL=%g  E=%.2f N=%.2f  canvas=(%.1f, %.1f)\n",
			c.Inline, c.Crline, s.Corners[i].Easting, s.Corners[i].Northing, pts[i].X, pts[i].Y)
	}
}
