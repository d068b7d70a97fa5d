package render

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/pspoerri/surveygrid/internal/coord"
)

// Plot builds a map of the survey footprint and its control points in
// easting/northing. Both axes span the same distance so the outline keeps
// its shape on a square canvas.
func Plot(s coord.Summary) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (azimuth %.2f°, bins %.2f x %.2f)",
		s.Name, s.Orientation.Azimuth, s.Bins.InlineBinSize, s.Bins.CrlineBinSize)
	p.X.Label.Text = "Easting"
	p.Y.Label.Text = "Northing"
	p.Add(plotter.NewGrid())

	outline := make(plotter.XYs, 0, 5)
	for _, c := range s.Corners {
		outline = append(outline, plotter.XY{X: c.Easting, Y: c.Northing})
	}
	outline = append(outline, outline[0])
	line, err := plotter.NewLine(outline)
	if err != nil {
		return nil, fmt.Errorf("footprint line: %w", err)
	}
	line.LineStyle.Width = vg.Points(1.5)

	g := s.Geometry
	cps := plotter.XYs{
		{X: g.A.Easting, Y: g.A.Northing},
		{X: g.B.Easting, Y: g.B.Northing},
		{X: g.C.Easting, Y: g.C.Northing},
	}
	scatter, err := plotter.NewScatter(cps)
	if err != nil {
		return nil, fmt.Errorf("control points: %w", err)
	}
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(3)

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: cps, Labels: []string{"A", "B", "C"}})
	if err != nil {
		return nil, fmt.Errorf("control point labels: %w", err)
	}

	p.Add(line, scatter, labels)
	p.Legend.Add("footprint", line)
	p.Legend.Add("control points", scatter)
	p.Legend.Top = true

	equalizeAxes(p)
	return p, nil
}

// WritePlot renders the plot of s in the given format ("png", "svg", "pdf",
// ...) to w.
func WritePlot(w io.Writer, s coord.Summary, size vg.Length, format string) error {
	p, err := Plot(s)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(size, size, format)
	if err != nil {
		return fmt.Errorf("plot writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// equalizeAxes widens the shorter axis range to match the longer one, with
// a 5% margin on both.
func equalizeAxes(p *plot.Plot) {
	span := math.Max(p.X.Max-p.X.Min, p.Y.Max-p.Y.Min) * 1.1
	cx := (p.X.Min + p.X.Max) / 2
	cy := (p.Y.Min + p.Y.Max) / 2
	p.X.Min, p.X.Max = cx-span/2, cx+span/2
	p.Y.Min, p.Y.Max = cy-span/2, cy+span/2
}
