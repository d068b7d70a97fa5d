// Package survey holds the geometry of a seismic survey: the extent and
// sampling of its inline, crossline and z axes, plus the three control points
// that tie grid positions to map coordinates.
package survey

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when survey parameters are malformed.
var ErrInvalidGeometry = errors.New("invalid survey geometry")

// Range is the extent and sampling interval of one grid axis.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Step  float64 `json:"step"`
}

// Count returns the number of lines on the axis, both ends included.
func (r Range) Count() int {
	return int(math.Floor((r.End-r.Start)/r.Step)) + 1
}

// Contains reports whether v lies within [Start, End].
func (r Range) Contains(v float64) bool {
	return v >= r.Start && v <= r.End
}

// Span returns End - Start.
func (r Range) Span() float64 {
	return r.End - r.Start
}

func (r Range) validate(name string) error {
	for _, f := range []struct {
		label string
		v     float64
	}{{"start", r.Start}, {"end", r.End}, {"step", r.Step}} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s %s is not finite", ErrInvalidGeometry, name, f.label)
		}
	}
	if r.Start > r.End {
		return fmt.Errorf("%w: %s start %g is after end %g", ErrInvalidGeometry, name, r.Start, r.End)
	}
	if r.Step <= 0 {
		return fmt.Errorf("%w: %s step must be positive, got %g", ErrInvalidGeometry, name, r.Step)
	}
	return nil
}

// DepthRange is the z axis. It is carried through unchanged.
type DepthRange struct {
	Range
	// ZType labels the axis domain, e.g. "Depth" or "Time".
	ZType string `json:"z_type"`
}

// ControlPoint pins a grid position to a map position.
type ControlPoint struct {
	Inline   float64 `json:"inline"`
	Crline   float64 `json:"crline"`
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

func (p ControlPoint) validate(name string) error {
	for _, v := range [4]float64{p.Inline, p.Crline, p.Easting, p.Northing} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: control point %s has a non-finite component", ErrInvalidGeometry, name)
		}
	}
	return nil
}

// GridPoint is an (inline, crossline) pair.
type GridPoint struct {
	Inline float64 `json:"inline"`
	Crline float64 `json:"crline"`
}

// Geometry describes one survey. Construct it with New; treat the result as
// read-only.
type Geometry struct {
	Name   string       `json:"name,omitempty"`
	Inline Range        `json:"inline"`
	Crline Range        `json:"crline"`
	Depth  DepthRange   `json:"z"`
	A      ControlPoint `json:"point_a"`
	B      ControlPoint `json:"point_b"`
	C      ControlPoint `json:"point_c"`
}

// New validates g and returns a copy of it.
func New(g Geometry) (*Geometry, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// Validate checks the ranges and control points. Collinearity of the control
// points is checked when the coordinate transform is built.
func (g Geometry) Validate() error {
	if err := g.Inline.validate("inline"); err != nil {
		return err
	}
	if err := g.Crline.validate("crossline"); err != nil {
		return err
	}
	if err := g.Depth.Range.validate("z"); err != nil {
		return err
	}
	if g.Depth.ZType == "" {
		return fmt.Errorf("%w: z type is empty", ErrInvalidGeometry)
	}
	for _, cp := range []struct {
		name string
		p    ControlPoint
	}{{"A", g.A}, {"B", g.B}, {"C", g.C}} {
		if err := cp.p.validate(cp.name); err != nil {
			return err
		}
	}
	return nil
}

// Corners returns the four grid corners in the order
// (start,start), (start,end), (end,end), (end,start) of (inline, crline).
func (g Geometry) Corners() [4]GridPoint {
	return [4]GridPoint{
		{g.Inline.Start, g.Crline.Start},
		{g.Inline.Start, g.Crline.End},
		{g.Inline.End, g.Crline.End},
		{g.Inline.End, g.Crline.Start},
	}
}

// Contains reports whether (inline, crline) falls inside the survey extent.
func (g Geometry) Contains(inline, crline float64) bool {
	return g.Inline.Contains(inline) && g.Crline.Contains(crline)
}
