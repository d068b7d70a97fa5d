package coord

import (
	"fmt"
	"math"
	"testing"

	"github.com/pspoerri/surveygrid/internal/survey"
)

func TestFourCornersOnCanvas_Reference(t *testing.T) {
	c := mustConverter(t, referenceGeometry())
	pts, err := c.FourCornersOnCanvas(800, 600, DefaultCanvasScale)
	if err != nil {
		t.Fatalf("FourCornersOnCanvas: %v", err)
	}
	// The footprint is 2000 m wide and 4000 m tall; 4000 m maps to 480 px.
	want := [4]CanvasPoint{{80, 540}, {320, 540}, {320, 60}, {80, 60}}
	for i := range want {
		if math.Abs(pts[i].X-want[i].X) > 1e-9 || math.Abs(pts[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("corner %d = %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestFourCornersOnCanvas_Bounds(t *testing.T) {
	geoms := map[string]survey.Geometry{
		"reference": referenceGeometry(),
		"f3":        f3Geometry(),
	}
	for bearing := 0.0; bearing < 360; bearing += 30 {
		geoms[fmt.Sprintf("rot-%g", bearing)] = rotatedGeometry(bearing, bearing > 150)
	}

	for name, g := range geoms {
		c := mustConverter(t, g)
		pts, err := c.FourCornersOnCanvas(800, 600, 0.8)
		if err != nil {
			t.Fatalf("%s: FourCornersOnCanvas: %v", name, err)
		}
		for i, p := range pts {
			if p.X < 40-1e-9 || p.X > 760+1e-9 || p.Y < 60-1e-9 || p.Y > 540+1e-9 {
				t.Errorf("%s: corner %d = %+v outside [40,760]x[60,540]", name, i, p)
			}
		}
	}
}

func TestFourCornersOnCanvas_PreservesAspect(t *testing.T) {
	g := f3Geometry()
	c := mustConverter(t, g)
	pts, err := c.FourCornersOnCanvas(1024, 768, 0.9)
	if err != nil {
		t.Fatalf("FourCornersOnCanvas: %v", err)
	}
	geo := CornerCoords(c, g)

	canvasDist := func(i, j int) float64 {
		return math.Hypot(pts[i].X-pts[j].X, pts[i].Y-pts[j].Y)
	}
	geoDist := func(i, j int) float64 {
		return math.Hypot(geo[i].Easting-geo[j].Easting, geo[i].Northing-geo[j].Northing)
	}
	ratio := canvasDist(0, 1) / geoDist(0, 1)
	for _, pair := range [][2]int{{1, 2}, {2, 3}, {3, 0}, {0, 2}} {
		r := canvasDist(pair[0], pair[1]) / geoDist(pair[0], pair[1])
		if !approxEqual(r, ratio, 1e-9) {
			t.Errorf("scale of edge %v = %v, want %v", pair, r, ratio)
		}
	}

	// North is up: the corner with the largest northing has the smallest y.
	top := 0
	for i := range geo {
		if geo[i].Northing > geo[top].Northing {
			top = i
		}
	}
	for i := range pts {
		if pts[i].Y < pts[top].Y {
			t.Errorf("corner %d (y=%v) is above the northernmost corner %d (y=%v)", i, pts[i].Y, top, pts[top].Y)
		}
	}
}

func TestFourCornersOnCanvas_Errors(t *testing.T) {
	c := mustConverter(t, referenceGeometry())
	tests := []struct {
		name          string
		width, height float64
		scale         float64
	}{
		{"zero width", 0, 600, 0.8},
		{"negative height", 800, -1, 0.8},
		{"zero scale", 800, 600, 0},
		{"scale above one", 800, 600, 1.2},
		{"NaN scale", 800, 600, math.NaN()},
	}
	for _, tt := range tests {
		if _, err := c.FourCornersOnCanvas(tt.width, tt.height, tt.scale); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}

	point := referenceGeometry()
	point.Inline = survey.Range{Start: 300, End: 300, Step: 1}
	point.Crline = survey.Range{Start: 300, End: 300, Step: 1}
	if _, err := FourCornersOnCanvas(c, point, 800, 600, 0.8); err == nil {
		t.Error("single-trace survey: expected error")
	}
}
