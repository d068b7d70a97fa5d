package coord

import (
	"math"

	"github.com/pspoerri/surveygrid/internal/survey"
)

// referenceGeometry is a 400x400 line survey whose crossline axis points due
// east with 5 m bins and whose inline axis points north with 10 m bins.
func referenceGeometry() survey.Geometry {
	return survey.Geometry{
		Name:   "reference",
		Inline: survey.Range{Start: 100, End: 500, Step: 1},
		Crline: survey.Range{Start: 100, End: 500, Step: 1},
		Depth:  survey.DepthRange{Range: survey.Range{Start: 0, End: 3000, Step: 4}, ZType: "Time"},
		A:      survey.ControlPoint{Inline: 100, Crline: 100, Easting: 500000, Northing: 6000000},
		B:      survey.ControlPoint{Inline: 100, Crline: 500, Easting: 502000, Northing: 6000000},
		C:      survey.ControlPoint{Inline: 500, Crline: 500, Easting: 502000, Northing: 6004000},
	}
}

// f3Geometry uses the control points of the Dutch F3 block.
func f3Geometry() survey.Geometry {
	return survey.Geometry{
		Name:   "F3",
		Inline: survey.Range{Start: 100, End: 750, Step: 1},
		Crline: survey.Range{Start: 300, End: 1250, Step: 1},
		Depth:  survey.DepthRange{Range: survey.Range{Start: 0, End: 1848, Step: 4}, ZType: "Time"},
		A:      survey.ControlPoint{Inline: 100, Crline: 300, Easting: 605835.5, Northing: 6073556.4},
		B:      survey.ControlPoint{Inline: 100, Crline: 1250, Easting: 629576.3, Northing: 6074219.9},
		C:      survey.ControlPoint{Inline: 750, Crline: 1250, Easting: 629122.5, Northing: 6090463.2},
	}
}

// rotatedGeometry builds a survey whose crossline axis has the given bearing
// in degrees. The inline axis is perpendicular, to the left of the crossline
// axis when left is true.
func rotatedGeometry(bearing float64, left bool) survey.Geometry {
	const (
		e0, n0           = 500000.0, 6000000.0
		crLen, inLen     = 2000.0, 4000.0
		crLines, inLines = 400.0, 400.0
	)
	rad := bearing * math.Pi / 180
	ue, un := exact(math.Sin(rad)), exact(math.Cos(rad))
	// Perpendicular to (ue, un): left is a counter-clockwise quarter turn.
	ve, vn := un, -ue
	if left {
		ve, vn = -un, ue
	}
	g := referenceGeometry()
	g.A = survey.ControlPoint{Inline: 100, Crline: 100, Easting: e0, Northing: n0}
	g.B = survey.ControlPoint{Inline: 100, Crline: 100 + crLines, Easting: e0 + crLen*ue, Northing: n0 + crLen*un}
	g.C = survey.ControlPoint{Inline: 100 + inLines, Crline: 100 + crLines,
		Easting: g.B.Easting + inLen*ve, Northing: g.B.Northing + inLen*vn}
	return g
}

// exact removes the rounding residue of sin/cos at multiples of 90 degrees.
func exact(v float64) float64 {
	switch {
	case math.Abs(v) < 1e-12:
		return 0
	case math.Abs(v-1) < 1e-12:
		return 1
	case math.Abs(v+1) < 1e-12:
		return -1
	}
	return v
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}
