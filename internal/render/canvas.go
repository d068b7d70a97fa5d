// Package render draws survey footprints for previews: a raster of the
// canvas projection, and a map plot in survey coordinates.
package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/pspoerri/surveygrid/internal/coord"
)

// Options controls the footprint raster.
type Options struct {
	Width, Height int
	// Scale is the share of the smaller canvas side the footprint spans.
	Scale float64

	Background color.Color
	Outline    color.Color
	LineWidth  float64

	// Labels draws the inline/crossline numbers next to each corner.
	Labels bool
	// NorthArrow draws an arrow in the top-right corner.
	NorthArrow bool
}

// DefaultOptions returns an 800x600 preview with labels and a north arrow.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		Height:     600,
		Scale:      coord.DefaultCanvasScale,
		Background: color.White,
		Outline:    color.RGBA{R: 0x1f, G: 0x4e, B: 0x79, A: 0xff},
		LineWidth:  2,
		Labels:     true,
		NorthArrow: true,
	}
}

// Footprint projects the survey of s onto the canvas and draws it.
func Footprint(s coord.Summary, opts Options) (image.Image, error) {
	pts, err := s.Converter().FourCornersOnCanvas(float64(opts.Width), float64(opts.Height), opts.Scale)
	if err != nil {
		return nil, fmt.Errorf("projecting %s: %w", s.Name, err)
	}
	var labels [4]string
	if opts.Labels {
		for i, c := range s.Geometry.Corners() {
			labels[i] = fmt.Sprintf("%g/%g", c.Inline, c.Crline)
		}
	}
	return Canvas(pts, labels, opts), nil
}

// Canvas draws the closed outline through pts. Non-empty labels are placed
// next to their corner.
func Canvas(pts [4]coord.CanvasPoint, labels [4]string, opts Options) image.Image {
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(opts.Background)
	dc.Clear()

	dc.SetColor(opts.Outline)
	dc.SetLineWidth(opts.LineWidth)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()
	dc.Stroke()

	cx, cy := centroid(pts)
	for i, p := range pts {
		dc.DrawCircle(p.X, p.Y, opts.LineWidth+2)
		dc.Fill()
		if labels[i] == "" {
			continue
		}
		// Place the label outside the footprint: left of left-hand corners,
		// above upper corners.
		ax, dx := 0.0, 6.0
		if p.X < cx {
			ax, dx = 1, -6
		}
		ay, dy := 1.0, 6.0
		if p.Y < cy {
			ay, dy = 0, -6
		}
		dc.DrawStringAnchored(labels[i], p.X+dx, p.Y+dy, ax, ay)
	}

	if opts.NorthArrow {
		drawNorthArrow(dc, float64(opts.Width)-30, 20)
	}
	return dc.Image()
}

func centroid(pts [4]coord.CanvasPoint) (x, y float64) {
	for _, p := range pts {
		x += p.X
		y += p.Y
	}
	return x / 4, y / 4
}

func drawNorthArrow(dc *gg.Context, x, top float64) {
	const length = 30
	dc.SetLineWidth(2)
	dc.DrawLine(x, top+length, x, top)
	dc.Stroke()
	dc.MoveTo(x, top)
	dc.LineTo(x-5, top+10)
	dc.LineTo(x+5, top+10)
	dc.ClosePath()
	dc.Fill()
	dc.DrawStringAnchored("N", x, top+length+4, 0.5, 1)
}
