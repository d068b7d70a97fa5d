package coord

import (
	"fmt"
	"math"

	"github.com/pspoerri/surveygrid/internal/survey"
	"gonum.org/v1/gonum/spatial/r2"
)

// Orientation describes how the survey grid sits on the map.
type Orientation struct {
	// Azimuth is the bearing of the crossline axis (A→B), clockwise from
	// north, in degrees within [0, 360).
	Azimuth float64 `json:"azimuth"`

	// InvertedAxis is true when the inline axis (B→C) points to the left of
	// the crossline axis rather than to its right.
	InvertedAxis bool `json:"inverted_axis"`
}

// Orient computes the azimuth and axis handedness of g.
func Orient(g survey.Geometry) (Orientation, error) {
	a, b, c := mapVec(g.A), mapVec(g.B), mapVec(g.C)
	ab := r2.Sub(b, a)
	bc := r2.Sub(c, b)

	if ab.X == 0 && ab.Y == 0 {
		return Orientation{}, fmt.Errorf("%w: control points A and B coincide at (%g, %g)",
			ErrUndefinedOrientation, a.X, a.Y)
	}
	cross := r2.Cross(ab, bc)
	if nearZero(cross, math.Abs(ab.X*bc.Y)+math.Abs(ab.Y*bc.X)) {
		return Orientation{}, fmt.Errorf("%w: control points A, B, C are collinear in map space",
			ErrUndefinedOrientation)
	}

	return Orientation{
		Azimuth:      Azimuth(ab.X, ab.Y),
		InvertedAxis: cross > 0,
	}, nil
}

// Azimuth returns the bearing of the vector (dEast, dNorth) clockwise from
// north in degrees, within [0, 360).
func Azimuth(dEast, dNorth float64) float64 {
	deg := math.Atan2(dEast, dNorth) * 180 / math.Pi
	if deg <= 0 {
		deg += 360
	}
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

func mapVec(p survey.ControlPoint) r2.Vec {
	return r2.Vec{X: p.Easting, Y: p.Northing}
}
