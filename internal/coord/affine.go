// Package coord converts between a survey's inline/crossline grid and map
// coordinates and derives its orientation, bin sizes and canvas footprint.
package coord

import (
	"errors"
	"fmt"
	"math"

	"github.com/pspoerri/surveygrid/internal/survey"
)

var (
	// ErrDegenerateConfiguration means the control points do not span a plane:
	// two of them share the grid coordinate an axis is calibrated from, or all
	// three are collinear in grid or map space.
	ErrDegenerateConfiguration = errors.New("degenerate control point configuration")

	// ErrSingularTransform means the affine map cannot be inverted.
	ErrSingularTransform = errors.New("singular coordinate transform")

	// ErrUndefinedOrientation means azimuth and axis handedness cannot be
	// derived from the control points.
	ErrUndefinedOrientation = errors.New("undefined survey orientation")
)

// epsilon is the relative tolerance for determinant singularity checks.
const epsilon = 1e-12

// Affine maps grid positions to map coordinates:
//
//	easting  = AlphaX + BetaX*inline + GammaX*crline
//	northing = AlphaY + BetaY*inline + GammaY*crline
type Affine struct {
	AlphaX float64 `json:"alpha_x"`
	BetaX  float64 `json:"beta_x"`
	GammaX float64 `json:"gamma_x"`
	AlphaY float64 `json:"alpha_y"`
	BetaY  float64 `json:"beta_y"`
	GammaY float64 `json:"gamma_y"`
}

// BuildAffine derives the affine map from the control points of g.
//
// B must differ from A in crossline and C must differ from B in inline, since
// the crossline and inline axes are calibrated from the A→B and B→C legs.
// The two planes through A, B and C are then solved by Cramer's rule, so the
// result reproduces all three control points for any non-collinear layout.
func BuildAffine(g survey.Geometry) (Affine, error) {
	a, b, c := g.A, g.B, g.C

	if b.Crline == a.Crline {
		return Affine{}, fmt.Errorf("%w: control points A and B share crossline %g; the crossline axis is undefined",
			ErrDegenerateConfiguration, a.Crline)
	}
	if c.Inline == b.Inline {
		return Affine{}, fmt.Errorf("%w: control points B and C share inline %g; the inline axis is undefined",
			ErrDegenerateConfiguration, b.Inline)
	}

	di1, dc1 := b.Inline-a.Inline, b.Crline-a.Crline
	di2, dc2 := c.Inline-a.Inline, c.Crline-a.Crline
	det := di1*dc2 - di2*dc1
	if nearZero(det, math.Abs(di1*dc2)+math.Abs(di2*dc1)) {
		return Affine{}, fmt.Errorf("%w: control points A, B, C are collinear in grid space "+
			"(A=(%g,%g) B=(%g,%g) C=(%g,%g))", ErrDegenerateConfiguration,
			a.Inline, a.Crline, b.Inline, b.Crline, c.Inline, c.Crline)
	}

	de1, de2 := b.Easting-a.Easting, c.Easting-a.Easting
	dn1, dn2 := b.Northing-a.Northing, c.Northing-a.Northing

	aff := Affine{
		BetaX:  (de1*dc2 - de2*dc1) / det,
		GammaX: (di1*de2 - di2*de1) / det,
		BetaY:  (dn1*dc2 - dn2*dc1) / det,
		GammaY: (di1*dn2 - di2*dn1) / det,
	}
	aff.AlphaX = a.Easting - aff.BetaX*a.Inline - aff.GammaX*a.Crline
	aff.AlphaY = a.Northing - aff.BetaY*a.Inline - aff.GammaY*a.Crline

	if aff.singular() {
		return Affine{}, fmt.Errorf("%w: control points A, B, C are collinear in map space "+
			"(A=(%g,%g) B=(%g,%g) C=(%g,%g))", ErrDegenerateConfiguration,
			a.Easting, a.Northing, b.Easting, b.Northing, c.Easting, c.Northing)
	}
	return aff, nil
}

// Forward maps a grid position to map coordinates.
func (a Affine) Forward(inline, crline float64) (easting, northing float64) {
	easting = a.AlphaX + a.BetaX*inline + a.GammaX*crline
	northing = a.AlphaY + a.BetaY*inline + a.GammaY*crline
	return
}

// Det returns the determinant of the linear part.
func (a Affine) Det() float64 {
	return a.BetaX*a.GammaY - a.GammaX*a.BetaY
}

// Invert solves the linear system for the continuous grid position of a map
// coordinate using the closed-form 2x2 inverse.
func (a Affine) Invert(easting, northing float64) (inline, crline float64, err error) {
	if a.singular() {
		return 0, 0, fmt.Errorf("%w: determinant %g (beta_x=%g gamma_x=%g beta_y=%g gamma_y=%g)",
			ErrSingularTransform, a.Det(), a.BetaX, a.GammaX, a.BetaY, a.GammaY)
	}
	det := a.Det()
	de := easting - a.AlphaX
	dn := northing - a.AlphaY
	inline = (a.GammaY*de - a.GammaX*dn) / det
	crline = (a.BetaX*dn - a.BetaY*de) / det
	return inline, crline, nil
}

func (a Affine) singular() bool {
	return nearZero(a.Det(), math.Abs(a.BetaX*a.GammaY)+math.Abs(a.GammaX*a.BetaY))
}

// nearZero reports whether v is negligible relative to scale, the sum of
// magnitudes of the terms v was computed from.
func nearZero(v, scale float64) bool {
	if math.IsNaN(v) {
		return true
	}
	return math.Abs(v) <= epsilon*scale
}
