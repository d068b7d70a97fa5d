package coord

import (
	"fmt"
	"math"

	"github.com/pspoerri/surveygrid/internal/survey"
	"gonum.org/v1/gonum/spatial/r2"
)

// BinMetrics are the physical dimensions of a survey.
type BinMetrics struct {
	// InlineBinSize and CrlineBinSize are map distances per unit of inline
	// and crossline number, rounded to 2 decimals.
	InlineBinSize float64 `json:"inline_bin_size"`
	CrlineBinSize float64 `json:"crline_bin_size"`

	// Area is the survey area in map units squared times 1e-6 (km² for a
	// metric grid), rounded to 2 decimals.
	Area float64 `json:"area"`

	InlineCount int `json:"inline_count"`
	CrlineCount int `json:"crline_count"`

	// InlineStepDistance and CrlineStepDistance are map distances between
	// adjacent lines, i.e. per grid step. Not rounded.
	InlineStepDistance float64 `json:"inline_step_distance"`
	CrlineStepDistance float64 `json:"crline_step_distance"`
}

// ComputeBinMetrics derives bin sizes and area from the control points of g.
func ComputeBinMetrics(g survey.Geometry) (BinMetrics, error) {
	dc := g.B.Crline - g.A.Crline
	if dc == 0 {
		return BinMetrics{}, fmt.Errorf("%w: control points A and B share crossline %g",
			ErrDegenerateConfiguration, g.A.Crline)
	}
	di := g.C.Inline - g.B.Inline
	if di == 0 {
		return BinMetrics{}, fmt.Errorf("%w: control points B and C share inline %g",
			ErrDegenerateConfiguration, g.B.Inline)
	}

	distAB := r2.Norm(r2.Sub(mapVec(g.B), mapVec(g.A)))
	distBC := r2.Norm(r2.Sub(mapVec(g.C), mapVec(g.B)))

	m := BinMetrics{
		CrlineBinSize:      round2(distAB / math.Abs(dc)),
		InlineBinSize:      round2(distBC / math.Abs(di)),
		InlineCount:        g.Inline.Count(),
		CrlineCount:        g.Crline.Count(),
		InlineStepDistance: distBC / (math.Abs(di) / g.Inline.Step),
		CrlineStepDistance: distAB / (math.Abs(dc) / g.Crline.Step),
	}
	m.Area = round2(m.InlineBinSize * g.Inline.Span() * m.CrlineBinSize * g.Crline.Span() * 1e-6)
	return m, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
