package survey

import (
	"encoding/json"
	"fmt"
)

// Record is the persisted survey document. Ranges and control points are
// positional arrays:
//
//	inline_range: [start, end, step]
//	crline_range: [start, end, step]
//	z_range:      [end, step, type, start]
//	point_X:      [inline, crline, easting, northing]
//
// z_range does not follow the order of the other ranges; the positions above
// are the ones written by existing survey files.
type Record struct {
	Name        string            `json:"name,omitempty"`
	InlineRange []float64         `json:"inline_range"`
	CrlineRange []float64         `json:"crline_range"`
	ZRange      []json.RawMessage `json:"z_range"`
	PointA      []float64         `json:"point_A"`
	PointB      []float64         `json:"point_B"`
	PointC      []float64         `json:"point_C"`
}

// Geometry converts the record into a validated Geometry.
func (r Record) Geometry() (*Geometry, error) {
	inl, err := rangeFrom("inline_range", r.InlineRange)
	if err != nil {
		return nil, err
	}
	crl, err := rangeFrom("crline_range", r.CrlineRange)
	if err != nil {
		return nil, err
	}
	z, err := depthFrom(r.ZRange)
	if err != nil {
		return nil, err
	}
	a, err := pointFrom("point_A", r.PointA)
	if err != nil {
		return nil, err
	}
	b, err := pointFrom("point_B", r.PointB)
	if err != nil {
		return nil, err
	}
	c, err := pointFrom("point_C", r.PointC)
	if err != nil {
		return nil, err
	}
	return New(Geometry{
		Name:   r.Name,
		Inline: inl,
		Crline: crl,
		Depth:  z,
		A:      a,
		B:      b,
		C:      c,
	})
}

// Record maps g back onto the persisted layout.
func (g Geometry) Record() Record {
	zType, _ := json.Marshal(g.Depth.ZType)
	num := func(v float64) json.RawMessage {
		b, _ := json.Marshal(v)
		return b
	}
	point := func(p ControlPoint) []float64 {
		return []float64{p.Inline, p.Crline, p.Easting, p.Northing}
	}
	return Record{
		Name:        g.Name,
		InlineRange: []float64{g.Inline.Start, g.Inline.End, g.Inline.Step},
		CrlineRange: []float64{g.Crline.Start, g.Crline.End, g.Crline.Step},
		ZRange:      []json.RawMessage{num(g.Depth.End), num(g.Depth.Step), zType, num(g.Depth.Start)},
		PointA:      point(g.A),
		PointB:      point(g.B),
		PointC:      point(g.C),
	}
}

func rangeFrom(field string, v []float64) (Range, error) {
	if len(v) != 3 {
		return Range{}, fmt.Errorf("%w: %s: expected 3 values [start, end, step], got %d",
			ErrInvalidGeometry, field, len(v))
	}
	return Range{Start: v[0], End: v[1], Step: v[2]}, nil
}

func pointFrom(field string, v []float64) (ControlPoint, error) {
	if len(v) != 4 {
		return ControlPoint{}, fmt.Errorf("%w: %s: expected 4 values [inline, crline, easting, northing], got %d",
			ErrInvalidGeometry, field, len(v))
	}
	return ControlPoint{Inline: v[0], Crline: v[1], Easting: v[2], Northing: v[3]}, nil
}

func depthFrom(raw []json.RawMessage) (DepthRange, error) {
	if len(raw) != 4 {
		return DepthRange{}, fmt.Errorf("%w: z_range: expected 4 values [end, step, type, start], got %d",
			ErrInvalidGeometry, len(raw))
	}
	var d DepthRange
	for _, f := range []struct {
		i   int
		dst *float64
	}{{0, &d.End}, {1, &d.Step}, {3, &d.Start}} {
		if err := json.Unmarshal(raw[f.i], f.dst); err != nil {
			return DepthRange{}, fmt.Errorf("%w: z_range[%d]: %v", ErrInvalidGeometry, f.i, err)
		}
	}
	if err := json.Unmarshal(raw[2], &d.ZType); err != nil {
		return DepthRange{}, fmt.Errorf("%w: z_range[2] (type): %v", ErrInvalidGeometry, err)
	}
	return d, nil
}
