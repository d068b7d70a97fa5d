package coord

import (
	"fmt"
	"math"

	"github.com/pspoerri/surveygrid/internal/survey"
)

// Converter maps between grid and map coordinates for one survey. It is
// immutable and safe for concurrent use.
type Converter struct {
	geom survey.Geometry
	aff  Affine
}

// NewConverter builds the affine transform of g.
func NewConverter(g survey.Geometry) (*Converter, error) {
	aff, err := BuildAffine(g)
	if err != nil {
		return nil, err
	}
	return &Converter{geom: g, aff: aff}, nil
}

// NewConverterWithAffine pairs g with a precomputed transform, e.g. one
// restored from a catalog. The transform is not checked against g.
func NewConverterWithAffine(g survey.Geometry, aff Affine) *Converter {
	return &Converter{geom: g, aff: aff}
}

// Affine returns the transform coefficients.
func (c *Converter) Affine() Affine { return c.aff }

// Geometry returns the survey the converter was built from.
func (c *Converter) Geometry() survey.Geometry { return c.geom }

// LineToCoord maps a grid position to map coordinates.
func (c *Converter) LineToCoord(inline, crline float64) (easting, northing float64) {
	return c.aff.Forward(inline, crline)
}

// LinesToCoords maps grid positions element-wise.
func (c *Converter) LinesToCoords(inlines, crlines []float64) (eastings, northings []float64, err error) {
	if len(inlines) != len(crlines) {
		return nil, nil, fmt.Errorf("inline/crossline length mismatch: %d vs %d", len(inlines), len(crlines))
	}
	eastings = make([]float64, len(inlines))
	northings = make([]float64, len(inlines))
	for i := range inlines {
		eastings[i], northings[i] = c.aff.Forward(inlines[i], crlines[i])
	}
	return eastings, northings, nil
}

// CoordToLineRaw returns the continuous grid position of a map coordinate.
func (c *Converter) CoordToLineRaw(easting, northing float64) (inline, crline float64, err error) {
	return c.aff.Invert(easting, northing)
}

// CoordToLine returns the grid position of a map coordinate, snapped to the
// nearest line on each axis. Positions outside the survey extent are not
// clamped.
func (c *Converter) CoordToLine(easting, northing float64) (inline, crline float64, err error) {
	inline, crline, err = c.aff.Invert(easting, northing)
	if err != nil {
		return 0, 0, err
	}
	return Snap(inline, c.geom.Inline), Snap(crline, c.geom.Crline), nil
}

// CoordsToLines is the element-wise form of CoordToLine.
func (c *Converter) CoordsToLines(eastings, northings []float64) (inlines, crlines []float64, err error) {
	if len(eastings) != len(northings) {
		return nil, nil, fmt.Errorf("easting/northing length mismatch: %d vs %d", len(eastings), len(northings))
	}
	inlines = make([]float64, len(eastings))
	crlines = make([]float64, len(eastings))
	for i := range eastings {
		inlines[i], crlines[i], err = c.CoordToLine(eastings[i], northings[i])
		if err != nil {
			return nil, nil, fmt.Errorf("point %d: %w", i, err)
		}
	}
	return inlines, crlines, nil
}

// Snap rounds raw to the nearest line of r. Ties go to the higher line.
func Snap(raw float64, r survey.Range) float64 {
	return r.Start + r.Step*math.Floor((raw-r.Start)/r.Step+0.5)
}
