package coord

import (
	"github.com/pspoerri/surveygrid/internal/survey"
)

// Summary collects everything derived from one survey geometry.
type Summary struct {
	Name        string          `json:"name"`
	Geometry    survey.Geometry `json:"geometry"`
	Affine      Affine          `json:"affine"`
	Orientation Orientation     `json:"orientation"`
	Bins        BinMetrics      `json:"bins"`
	Corners     [4]MapPoint     `json:"corners"`
}

// Summarize builds the transform of g and derives its metrics.
func Summarize(g survey.Geometry) (Summary, error) {
	conv, err := NewConverter(g)
	if err != nil {
		return Summary{}, err
	}
	orient, err := Orient(g)
	if err != nil {
		return Summary{}, err
	}
	bins, err := ComputeBinMetrics(g)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Name:        g.Name,
		Geometry:    g,
		Affine:      conv.Affine(),
		Orientation: orient,
		Bins:        bins,
		Corners:     CornerCoords(conv, g),
	}, nil
}

// Converter returns a converter for the summarized survey.
func (s Summary) Converter() *Converter {
	return NewConverterWithAffine(s.Geometry, s.Affine)
}
