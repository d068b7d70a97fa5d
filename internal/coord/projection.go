package coord

// ForwardMapper maps survey grid positions to map coordinates.
type ForwardMapper interface {
	// LineToCoord converts an inline/crossline position to easting/northing.
	LineToCoord(inline, crline float64) (easting, northing float64)
}

// GridProjection converts between the survey grid and map coordinates.
type GridProjection interface {
	ForwardMapper

	// CoordToLine converts easting/northing to the nearest grid position.
	CoordToLine(easting, northing float64) (inline, crline float64, err error)
}

// MapPoint is a position in map coordinates.
type MapPoint struct {
	Easting  float64 `json:"easting"`
	Northing float64 `json:"northing"`
}

var _ GridProjection = (*Converter)(nil)
