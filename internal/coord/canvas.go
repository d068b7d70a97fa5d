package coord

import (
	"fmt"
	"math"

	"github.com/pspoerri/surveygrid/internal/survey"
)

// DefaultCanvasScale is the share of the canvas the footprint may fill.
const DefaultCanvasScale = 0.8

// CanvasPoint is a pixel position; the origin is the top-left corner.
type CanvasPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CornerCoords returns the map coordinates of the four grid corners of g, in
// the order of survey.Geometry.Corners.
func CornerCoords(m ForwardMapper, g survey.Geometry) [4]MapPoint {
	var out [4]MapPoint
	for i, c := range g.Corners() {
		out[i].Easting, out[i].Northing = m.LineToCoord(c.Inline, c.Crline)
	}
	return out
}

// FourCornersOnCanvas projects the survey corners onto a width x height
// canvas. The footprint keeps its aspect ratio, its larger side spans scale
// times the smaller canvas side, y grows downward, and the result is offset
// by (width, height) * (1-scale) / 2.
func FourCornersOnCanvas(m ForwardMapper, g survey.Geometry, width, height, scale float64) ([4]CanvasPoint, error) {
	var out [4]CanvasPoint
	if !(width > 0) || !(height > 0) {
		return out, fmt.Errorf("canvas size must be positive, got %gx%g", width, height)
	}
	if !(scale > 0 && scale <= 1) {
		return out, fmt.Errorf("canvas scale must be in (0, 1], got %g", scale)
	}

	corners := CornerCoords(m, g)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		minX = math.Min(minX, c.Easting)
		maxX = math.Max(maxX, c.Easting)
		minY = math.Min(minY, c.Northing)
		maxY = math.Max(maxY, c.Northing)
	}
	maxDim := math.Max(maxX-minX, maxY-minY)
	if !(maxDim > 0) {
		return out, fmt.Errorf("survey footprint has no extent")
	}

	shiftX := width * (1 - scale) / 2
	shiftY := height * (1 - scale) / 2
	innerW := width * scale
	innerH := height * scale
	ratio := math.Min(innerW, innerH) / maxDim

	for i, c := range corners {
		out[i] = CanvasPoint{
			X: (c.Easting-minX)*ratio + shiftX,
			Y: innerH - (c.Northing-minY)*ratio + shiftY,
		}
	}
	return out, nil
}

// FourCornersOnCanvas projects the converter's survey onto a canvas.
func (c *Converter) FourCornersOnCanvas(width, height, scale float64) ([4]CanvasPoint, error) {
	return FourCornersOnCanvas(c, c.geom, width, height, scale)
}
